// audit/service.go
package audit

import (
	"context"
	"time"
)

type Service interface {
	LogDecision(ctx context.Context, rec Record) error
	QueryDecisions(ctx context.Context, from, to time.Time, userID, resourceType string) ([]Record, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) LogDecision(ctx context.Context, rec Record) error {
	return s.repo.LogDecision(ctx, rec)
}

func (s *service) QueryDecisions(ctx context.Context, from, to time.Time, userID, resourceType string) ([]Record, error) {
	return s.repo.QueryDecisions(ctx, from, to, userID, resourceType)
}
