// authz/stores.go
package authz

import (
	"context"

	"github.com/claimguru/claimguard/model"
)

// IdentityStore is the external user-profile collaborator. The engine
// only ever reads id, role and organization_id from the returned user.
type IdentityStore interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)
}

// ResourceStore is the external resource collaborator providing the
// ownership attributes the evaluator scopes over.
type ResourceStore interface {
	GetClaim(ctx context.Context, claimID string) (*model.Claim, error)
	GetDocument(ctx context.Context, documentID string) (*model.Document, error)
}
