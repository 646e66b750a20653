// service/claim_service.go
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/claimguru/claimguard/authz"
	"github.com/claimguru/claimguard/dao"
	cg_errors "github.com/claimguru/claimguard/errors"
	logger "github.com/claimguru/claimguard/logging"
	"github.com/claimguru/claimguard/model"
	"github.com/claimguru/claimguard/util"
)

// IClaimService defines the interface for claim operations
type IClaimService interface {
	CreateClaim(ctx context.Context, claim model.Claim, creatorID string) (*model.Claim, error)
	GetClaim(ctx context.Context, claimID, requesterID string) (*model.Claim, error)
	SearchClaims(ctx context.Context, criteria model.ClaimSearchCriteria, requesterID string) ([]*model.Claim, error)
	AssignAdjuster(ctx context.Context, claimID, adjusterID, updaterID string) error
	CreateDocument(ctx context.Context, document model.Document, creatorID string) (*model.Document, error)
	GetDocument(ctx context.Context, documentID, requesterID string) (*model.Document, error)
	ListDocuments(ctx context.Context, claimID, requesterID string) ([]*model.Document, error)
}

// ClaimService handles business logic for claims and their documents,
// delegating every access decision to the authorization engine.
type ClaimService struct {
	claimDAO        *dao.ClaimDAO
	documentDAO     *dao.DocumentDAO
	authzSvc        IAuthorizationService
	validationUtil  *util.ValidationUtil
	notificationSvc *util.NotificationService
}

var _ IClaimService = &ClaimService{}

func NewClaimService(claimDAO *dao.ClaimDAO, documentDAO *dao.DocumentDAO, authzSvc IAuthorizationService, validationUtil *util.ValidationUtil, notificationSvc *util.NotificationService) *ClaimService {
	return &ClaimService{
		claimDAO:        claimDAO,
		documentDAO:     documentDAO,
		authzSvc:        authzSvc,
		validationUtil:  validationUtil,
		notificationSvc: notificationSvc,
	}
}

func (s *ClaimService) CreateClaim(ctx context.Context, claim model.Claim, creatorID string) (*model.Claim, error) {
	if err := s.validationUtil.ValidateClaim(claim); err != nil {
		return nil, fmt.Errorf("invalid claim: %w", err)
	}

	if !s.authzSvc.HasPermission(ctx, creatorID, authz.PermissionClaimsCreate) {
		return nil, cg_errors.ErrForbidden
	}

	claimID, err := s.claimDAO.CreateClaim(ctx, claim)
	if err != nil {
		logger.Error("Error creating claim", zap.Error(err), zap.String("creatorID", creatorID))
		return nil, err
	}
	claim.ID = claimID

	return &claim, nil
}

func (s *ClaimService) GetClaim(ctx context.Context, claimID, requesterID string) (*model.Claim, error) {
	if !s.authzSvc.CanAccessResource(ctx, requesterID, authz.ResourceTypeClaims, claimID, "view") {
		return nil, cg_errors.ErrForbidden
	}
	return s.claimDAO.GetClaim(ctx, claimID)
}

// SearchClaims runs a scoped claim search: admins search everything,
// managers see their organization, adjusters and clients only the
// claims tied to them.
func (s *ClaimService) SearchClaims(ctx context.Context, criteria model.ClaimSearchCriteria, requesterID string) ([]*model.Claim, error) {
	if !s.authzSvc.HasPermission(ctx, requesterID, authz.PermissionClaimsView) {
		return nil, cg_errors.ErrForbidden
	}

	role := s.authzSvc.GetUserRole(ctx, requesterID)
	switch role {
	case authz.RoleSuperAdmin, authz.RoleAdmin:
		// Unscoped
	case authz.RoleAdjuster:
		criteria.AdjusterID = requesterID
	case authz.RoleClient:
		criteria.ClientID = requesterID
	case authz.RoleManager:
		// Scoped after the fetch, below
	default:
		return nil, cg_errors.ErrForbidden
	}

	claims, err := s.claimDAO.SearchClaims(ctx, criteria)
	if err != nil {
		logger.Error("Error searching claims", zap.Error(err), zap.String("requesterID", requesterID))
		return nil, err
	}

	if role == authz.RoleManager {
		claims = s.authzSvc.FilterClaimsByOrganization(ctx, requesterID, claims)
	}

	return claims, nil
}

func (s *ClaimService) AssignAdjuster(ctx context.Context, claimID, adjusterID, updaterID string) error {
	if !s.authzSvc.CanAccessResource(ctx, updaterID, authz.ResourceTypeClaims, claimID, "update") {
		return cg_errors.ErrForbidden
	}

	if err := s.claimDAO.AssignAdjuster(ctx, claimID, adjusterID, updaterID); err != nil {
		return err
	}

	if err := s.notificationSvc.NotifyAdjusterAssignment(ctx, claimID, adjusterID); err != nil {
		logger.Warn("Failed to send adjuster assignment notification",
			zap.Error(err),
			zap.String("claimID", claimID))
	}

	return nil
}

func (s *ClaimService) CreateDocument(ctx context.Context, document model.Document, creatorID string) (*model.Document, error) {
	if err := s.validationUtil.ValidateDocument(document); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}

	// Uploading is gated on the parent claim, not the document itself
	if !s.authzSvc.CanAccessResource(ctx, creatorID, authz.ResourceTypeClaims, document.ClaimID, "view") ||
		!s.authzSvc.HasPermission(ctx, creatorID, authz.PermissionDocumentsUpload) {
		return nil, cg_errors.ErrForbidden
	}

	document.UploadedBy = creatorID
	documentID, err := s.documentDAO.CreateDocument(ctx, document)
	if err != nil {
		logger.Error("Error creating document", zap.Error(err), zap.String("creatorID", creatorID))
		return nil, err
	}
	document.ID = documentID

	return &document, nil
}

func (s *ClaimService) GetDocument(ctx context.Context, documentID, requesterID string) (*model.Document, error) {
	if !s.authzSvc.CanAccessResource(ctx, requesterID, authz.ResourceTypeDocuments, documentID, "view") {
		return nil, cg_errors.ErrForbidden
	}
	return s.documentDAO.GetDocument(ctx, documentID)
}

func (s *ClaimService) ListDocuments(ctx context.Context, claimID, requesterID string) ([]*model.Document, error) {
	if !s.authzSvc.CanAccessResource(ctx, requesterID, authz.ResourceTypeClaims, claimID, "view") {
		return nil, cg_errors.ErrForbidden
	}
	return s.documentDAO.ListDocumentsByClaim(ctx, claimID)
}
