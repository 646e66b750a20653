// controller/claim_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	cg_errors "github.com/claimguru/claimguard/errors"
	"github.com/claimguru/claimguard/model"
	"github.com/claimguru/claimguard/service"
	"github.com/claimguru/claimguard/util"
	helper_util "github.com/claimguru/claimguard/util/helper"
)

type ClaimController struct {
	claimService service.IClaimService
}

func NewClaimController(claimService service.IClaimService) *ClaimController {
	return &ClaimController{claimService: claimService}
}

// RegisterRoutes registers the API routes for claims and documents
func (cc *ClaimController) RegisterRoutes(r *gin.RouterGroup) {
	claimRoutes := r.Group("/claims")
	{
		claimRoutes.POST("", cc.CreateClaim)
		claimRoutes.GET("", cc.SearchClaims)
		claimRoutes.GET("/:id", cc.GetClaim)
		claimRoutes.PUT("/:id/adjuster", cc.AssignAdjuster)
		claimRoutes.POST("/:id/documents", cc.CreateDocument)
		claimRoutes.GET("/:id/documents", cc.ListDocuments)
	}
	documentRoutes := r.Group("/documents")
	{
		documentRoutes.GET("/:id", cc.GetDocument)
	}
}

// CreateClaim endpoint
func (cc *ClaimController) CreateClaim(c *gin.Context) {
	var claim model.Claim
	if err := c.ShouldBindJSON(&claim); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid claim data", err)
		return
	}
	creatorID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", cg_errors.ErrUnauthorized)
		return
	}

	createdClaim, err := cc.claimService.CreateClaim(c, claim, creatorID)
	if err != nil {
		if errors.Is(err, cg_errors.ErrForbidden) {
			util.RespondWithError(c, http.StatusForbidden, "Forbidden", err)
			return
		}
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to create claim", err)
		return
	}

	c.JSON(http.StatusCreated, createdClaim)
}

// GetClaim endpoint
func (cc *ClaimController) GetClaim(c *gin.Context) {
	claimID := c.Param("id")
	requesterID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", cg_errors.ErrUnauthorized)
		return
	}

	claim, err := cc.claimService.GetClaim(c, claimID, requesterID)
	if err != nil {
		switch {
		case errors.Is(err, cg_errors.ErrForbidden):
			util.RespondWithError(c, http.StatusForbidden, "Forbidden", err)
		case errors.Is(err, cg_errors.ErrClaimNotFound):
			util.RespondWithError(c, http.StatusNotFound, "Claim not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve claim", err)
		}
		return
	}

	c.JSON(http.StatusOK, claim)
}

// SearchClaims endpoint
func (cc *ClaimController) SearchClaims(c *gin.Context) {
	requesterID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", cg_errors.ErrUnauthorized)
		return
	}
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	criteria := model.ClaimSearchCriteria{
		ClaimNumber:    c.Query("claim_number"),
		OrganizationID: c.Query("organization_id"),
		Status:         c.Query("status"),
		Limit:          limit,
		Offset:         offset,
	}

	claims, err := cc.claimService.SearchClaims(c, criteria, requesterID)
	if err != nil {
		if errors.Is(err, cg_errors.ErrForbidden) {
			util.RespondWithError(c, http.StatusForbidden, "Forbidden", err)
			return
		}
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to search claims", err)
		return
	}

	c.JSON(http.StatusOK, claims)
}

type assignAdjusterRequest struct {
	AdjusterID string `json:"adjuster_id" binding:"required"`
}

// AssignAdjuster endpoint
func (cc *ClaimController) AssignAdjuster(c *gin.Context) {
	claimID := c.Param("id")

	var req assignAdjusterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid adjuster assignment request", err)
		return
	}
	updaterID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", cg_errors.ErrUnauthorized)
		return
	}

	if err := cc.claimService.AssignAdjuster(c, claimID, req.AdjusterID, updaterID); err != nil {
		switch {
		case errors.Is(err, cg_errors.ErrForbidden):
			util.RespondWithError(c, http.StatusForbidden, "Forbidden", err)
		case errors.Is(err, cg_errors.ErrClaimNotFound):
			util.RespondWithError(c, http.StatusNotFound, "Claim not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to assign adjuster", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateDocument endpoint
func (cc *ClaimController) CreateDocument(c *gin.Context) {
	var document model.Document
	if err := c.ShouldBindJSON(&document); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid document data", err)
		return
	}
	document.ClaimID = c.Param("id")
	creatorID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", cg_errors.ErrUnauthorized)
		return
	}

	createdDocument, err := cc.claimService.CreateDocument(c, document, creatorID)
	if err != nil {
		switch {
		case errors.Is(err, cg_errors.ErrForbidden):
			util.RespondWithError(c, http.StatusForbidden, "Forbidden", err)
		case errors.Is(err, cg_errors.ErrClaimNotFound):
			util.RespondWithError(c, http.StatusNotFound, "Claim not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create document", err)
		}
		return
	}

	c.JSON(http.StatusCreated, createdDocument)
}

// GetDocument endpoint
func (cc *ClaimController) GetDocument(c *gin.Context) {
	documentID := c.Param("id")
	requesterID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", cg_errors.ErrUnauthorized)
		return
	}

	document, err := cc.claimService.GetDocument(c, documentID, requesterID)
	if err != nil {
		switch {
		case errors.Is(err, cg_errors.ErrForbidden):
			util.RespondWithError(c, http.StatusForbidden, "Forbidden", err)
		case errors.Is(err, cg_errors.ErrDocumentNotFound):
			util.RespondWithError(c, http.StatusNotFound, "Document not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve document", err)
		}
		return
	}

	c.JSON(http.StatusOK, document)
}

// ListDocuments endpoint
func (cc *ClaimController) ListDocuments(c *gin.Context) {
	claimID := c.Param("id")
	requesterID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", cg_errors.ErrUnauthorized)
		return
	}

	documents, err := cc.claimService.ListDocuments(c, claimID, requesterID)
	if err != nil {
		if errors.Is(err, cg_errors.ErrForbidden) {
			util.RespondWithError(c, http.StatusForbidden, "Forbidden", err)
			return
		}
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list documents", err)
		return
	}

	c.JSON(http.StatusOK, documents)
}
