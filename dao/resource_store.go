// dao/resource_store.go
package dao

import (
	"context"

	"github.com/claimguru/claimguard/model"
)

// ResourceStore bundles the claim and document DAOs behind the lookup
// surface the authorization evaluator scopes over.
type ResourceStore struct {
	Claims    *ClaimDAO
	Documents *DocumentDAO
}

func NewResourceStore(claims *ClaimDAO, documents *DocumentDAO) *ResourceStore {
	return &ResourceStore{Claims: claims, Documents: documents}
}

func (s *ResourceStore) GetClaim(ctx context.Context, claimID string) (*model.Claim, error) {
	return s.Claims.GetClaim(ctx, claimID)
}

func (s *ResourceStore) GetDocument(ctx context.Context, documentID string) (*model.Document, error) {
	return s.Documents.GetDocument(ctx, documentID)
}
