// test/mock/stores.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/claimguru/claimguard/model"
)

// MockIdentityStore is a mock implementation of authz.IdentityStore
type MockIdentityStore struct {
	mock.Mock
}

func (m *MockIdentityStore) GetUser(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockResourceStore is a mock implementation of authz.ResourceStore
type MockResourceStore struct {
	mock.Mock
}

func (m *MockResourceStore) GetClaim(ctx context.Context, claimID string) (*model.Claim, error) {
	args := m.Called(ctx, claimID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Claim), args.Error(1)
}

func (m *MockResourceStore) GetDocument(ctx context.Context, documentID string) (*model.Document, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}
