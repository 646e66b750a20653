// dao/claim_dao.go
package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/claimguru/claimguard/audit"
	"github.com/claimguru/claimguard/db"
	cg_errors "github.com/claimguru/claimguard/errors"
	logger "github.com/claimguru/claimguard/logging"
	"github.com/claimguru/claimguard/model"
)

type ClaimDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewClaimDAO(driver neo4j.Driver, auditService audit.Service) *ClaimDAO {
	dao := &ClaimDAO{Driver: driver, AuditService: auditService}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for Claim", zap.Error(err))
	}
	return dao
}

func (dao *ClaimDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_claim_id IF NOT EXISTS
        FOR (c:Claim) REQUIRE c.id IS UNIQUE
        `
		_, err := transaction.Run(query, nil)
		return nil, err
	})

	if err != nil {
		logger.Error("Failed to ensure unique constraint on Claim ID", zap.Error(err))
		return err
	}

	return nil
}

func (dao *ClaimDAO) CreateClaim(ctx context.Context, claim model.Claim) (string, error) {
	start := time.Now()
	logger.Info("Creating new claim", zap.String("claimNumber", claim.ClaimNumber))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if claim.ID == "" {
		claim.ID = uuid.New().String()
	}
	if claim.Status == "" {
		claim.Status = "open"
	}

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MERGE (c:Claim {id: $id})
        ON CREATE SET c += $props
        ON MATCH SET c += $props
        RETURN c.id as id
        `

		metadataJSON, _ := json.Marshal(claim.Metadata)

		params := map[string]interface{}{
			"id": claim.ID,
			"props": map[string]interface{}{
				"claimNumber":    claim.ClaimNumber,
				"organizationID": claim.OrganizationID,
				"adjusterID":     claim.AdjusterID,
				"clientID":       claim.ClientID,
				"status":         claim.Status,
				"lossType":       claim.LossType,
				"description":    claim.Description,
				"metadata":       string(metadataJSON),
				"createdAt":      time.Now().Format(time.RFC3339),
				"updatedAt":      time.Now().Format(time.RFC3339),
			},
		}

		result, err := transaction.Run(query, params)
		if err != nil {
			return nil, cg_errors.ErrDatabaseOperation
		}

		if result.Next() {
			return result.Record().Values[0], nil
		}

		return nil, cg_errors.ErrInternalServer
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create claim",
			zap.Error(err),
			zap.String("claimNumber", claim.ClaimNumber),
			zap.Duration("duration", duration))
		return "", err
	}

	claimID := fmt.Sprintf("%v", result)
	logger.Info("Claim created successfully",
		zap.String("claimID", claimID),
		zap.Duration("duration", duration))

	return claimID, nil
}

// GetClaim reads one claim with its ownership attributes, read-through
// cached in Redis.
func (dao *ClaimDAO) GetClaim(ctx context.Context, claimID string) (*model.Claim, error) {
	if cached, err := db.GetCachedClaim(ctx, claimID); err == nil && cached != nil {
		return cached, nil
	}

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (c:Claim {id: $id})
        RETURN c.id, c.claimNumber, c.organizationID, c.adjusterID, c.clientID,
               c.status, c.lossType, c.description, c.createdAt, c.updatedAt
        `
		records, err := transaction.Run(query, map[string]interface{}{"id": claimID})
		if err != nil {
			return nil, cg_errors.ErrDatabaseOperation
		}

		if records.Next() {
			values := records.Record().Values
			claim := &model.Claim{
				ID:             asString(values[0]),
				ClaimNumber:    asString(values[1]),
				OrganizationID: asString(values[2]),
				AdjusterID:     asString(values[3]),
				ClientID:       asString(values[4]),
				Status:         asString(values[5]),
				LossType:       asString(values[6]),
				Description:    asString(values[7]),
				CreatedAt:      asTime(values[8]),
				UpdatedAt:      asTime(values[9]),
			}
			return claim, nil
		}

		return nil, cg_errors.ErrClaimNotFound
	})

	if err != nil {
		if err != cg_errors.ErrClaimNotFound {
			logger.Error("Failed to get claim", zap.Error(err), zap.String("claimID", claimID))
		}
		return nil, err
	}

	claim := result.(*model.Claim)
	if err := db.CacheClaim(ctx, claim); err != nil {
		logger.Warn("Failed to cache claim", zap.Error(err), zap.String("claimID", claimID))
	}

	return claim, nil
}

// SearchClaims searches for claims based on given criteria
func (dao *ClaimDAO) SearchClaims(ctx context.Context, criteria model.ClaimSearchCriteria) ([]*model.Claim, error) {
	start := time.Now()
	logger.Info("Searching claims", zap.Any("criteria", criteria))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	var queryBuilder strings.Builder
	queryBuilder.WriteString("MATCH (c:Claim) WHERE 1=1")

	params := make(map[string]interface{})

	if criteria.ClaimNumber != "" {
		queryBuilder.WriteString(" AND c.claimNumber = $claimNumber")
		params["claimNumber"] = criteria.ClaimNumber
	}

	if criteria.OrganizationID != "" {
		queryBuilder.WriteString(" AND c.organizationID = $organizationID")
		params["organizationID"] = criteria.OrganizationID
	}

	if criteria.AdjusterID != "" {
		queryBuilder.WriteString(" AND c.adjusterID = $adjusterID")
		params["adjusterID"] = criteria.AdjusterID
	}

	if criteria.ClientID != "" {
		queryBuilder.WriteString(" AND c.clientID = $clientID")
		params["clientID"] = criteria.ClientID
	}

	if criteria.Status != "" {
		queryBuilder.WriteString(" AND c.status = $status")
		params["status"] = criteria.Status
	}

	if criteria.CreatedAfter != nil {
		queryBuilder.WriteString(" AND c.createdAt >= $createdAfter")
		params["createdAfter"] = criteria.CreatedAfter.Format(time.RFC3339)
	}

	if criteria.CreatedBefore != nil {
		queryBuilder.WriteString(" AND c.createdAt <= $createdBefore")
		params["createdBefore"] = criteria.CreatedBefore.Format(time.RFC3339)
	}

	queryBuilder.WriteString(` RETURN c.id, c.claimNumber, c.organizationID, c.adjusterID, c.clientID,
	       c.status, c.lossType, c.description, c.createdAt, c.updatedAt
	       ORDER BY c.createdAt DESC`)

	if criteria.Offset > 0 {
		queryBuilder.WriteString(" SKIP $offset")
		params["offset"] = criteria.Offset
	}
	if criteria.Limit > 0 {
		queryBuilder.WriteString(" LIMIT $limit")
		params["limit"] = criteria.Limit
	}

	result, err := session.Run(queryBuilder.String(), params)
	if err != nil {
		logger.Error("Failed to execute search claims query",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return nil, fmt.Errorf("failed to execute search claims query: %w", err)
	}

	var claims []*model.Claim
	for result.Next() {
		values := result.Record().Values
		claims = append(claims, &model.Claim{
			ID:             asString(values[0]),
			ClaimNumber:    asString(values[1]),
			OrganizationID: asString(values[2]),
			AdjusterID:     asString(values[3]),
			ClientID:       asString(values[4]),
			Status:         asString(values[5]),
			LossType:       asString(values[6]),
			Description:    asString(values[7]),
			CreatedAt:      asTime(values[8]),
			UpdatedAt:      asTime(values[9]),
		})
	}

	logger.Info("Claims searched successfully",
		zap.Int("count", len(claims)),
		zap.Duration("duration", time.Since(start)))

	return claims, nil
}

// AssignAdjuster reassigns a claim to another adjuster.
func (dao *ClaimDAO) AssignAdjuster(ctx context.Context, claimID, adjusterID, updaterID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (c:Claim {id: $id})
        SET c.adjusterID = $adjusterID, c.updatedAt = $updatedAt
        RETURN c.id
        `
		params := map[string]interface{}{
			"id":         claimID,
			"adjusterID": adjusterID,
			"updatedAt":  time.Now().Format(time.RFC3339),
		}

		records, err := transaction.Run(query, params)
		if err != nil {
			return nil, cg_errors.ErrDatabaseOperation
		}
		if records.Next() {
			return records.Record().Values[0], nil
		}
		return nil, cg_errors.ErrClaimNotFound
	})

	if err != nil {
		logger.Error("Failed to assign adjuster",
			zap.Error(err),
			zap.String("claimID", claimID),
			zap.String("adjusterID", adjusterID))
		return err
	}

	if err := db.DeleteCachedClaim(ctx, claimID); err != nil {
		logger.Warn("Failed to evict cached claim", zap.Error(err), zap.String("claimID", claimID))
	}

	auditRec := audit.Record{
		UserID:       updaterID,
		Action:       "adjuster_assigned",
		ResourceType: "claims",
		ResourceID:   claimID,
		Success:      true,
		Metadata:     map[string]any{"adjuster_id": adjusterID},
		CreatedAt:    time.Now(),
	}
	if err := dao.AuditService.LogDecision(ctx, auditRec); err != nil {
		logger.Warn("Failed to audit adjuster assignment", zap.Error(err), zap.String("claimID", claimID))
	}

	return nil
}
