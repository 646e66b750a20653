// dao/document_dao.go
package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/claimguru/claimguard/audit"
	cg_errors "github.com/claimguru/claimguard/errors"
	logger "github.com/claimguru/claimguard/logging"
	"github.com/claimguru/claimguard/model"
)

type DocumentDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewDocumentDAO(driver neo4j.Driver, auditService audit.Service) *DocumentDAO {
	dao := &DocumentDAO{Driver: driver, AuditService: auditService}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for Document", zap.Error(err))
	}
	return dao
}

func (dao *DocumentDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_document_id IF NOT EXISTS
        FOR (d:Document) REQUIRE d.id IS UNIQUE
        `
		_, err := transaction.Run(query, nil)
		return nil, err
	})

	if err != nil {
		logger.Error("Failed to ensure unique constraint on Document ID", zap.Error(err))
		return err
	}

	return nil
}

// CreateDocument attaches a document node to its parent claim.
func (dao *DocumentDAO) CreateDocument(ctx context.Context, document model.Document) (string, error) {
	start := time.Now()
	logger.Info("Creating new document",
		zap.String("claimID", document.ClaimID),
		zap.String("name", document.Name))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if document.ID == "" {
		document.ID = uuid.New().String()
	}

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (c:Claim {id: $claimID})
        MERGE (d:Document {id: $id})
        ON CREATE SET d += $props
        ON MATCH SET d += $props
        MERGE (d)-[:BELONGS_TO]->(c)
        RETURN d.id as id
        `

		params := map[string]interface{}{
			"id":      document.ID,
			"claimID": document.ClaimID,
			"props": map[string]interface{}{
				"claimID":     document.ClaimID,
				"name":        document.Name,
				"contentType": document.ContentType,
				"size":        document.Size,
				"uploadedBy":  document.UploadedBy,
				"createdAt":   time.Now().Format(time.RFC3339),
				"updatedAt":   time.Now().Format(time.RFC3339),
			},
		}

		result, err := transaction.Run(query, params)
		if err != nil {
			return nil, cg_errors.ErrDatabaseOperation
		}

		if result.Next() {
			return result.Record().Values[0], nil
		}

		// No row back means the parent claim does not exist
		return nil, cg_errors.ErrClaimNotFound
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create document",
			zap.Error(err),
			zap.String("claimID", document.ClaimID),
			zap.Duration("duration", duration))
		return "", err
	}

	documentID := fmt.Sprintf("%v", result)
	logger.Info("Document created successfully",
		zap.String("documentID", documentID),
		zap.Duration("duration", duration))

	return documentID, nil
}

// GetDocument reads one document with its parent claim reference.
func (dao *DocumentDAO) GetDocument(ctx context.Context, documentID string) (*model.Document, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (d:Document {id: $id})
        RETURN d.id, d.claimID, d.name, d.contentType, d.size, d.uploadedBy, d.createdAt, d.updatedAt
        `
		records, err := transaction.Run(query, map[string]interface{}{"id": documentID})
		if err != nil {
			return nil, cg_errors.ErrDatabaseOperation
		}

		if records.Next() {
			values := records.Record().Values
			document := &model.Document{
				ID:          asString(values[0]),
				ClaimID:     asString(values[1]),
				Name:        asString(values[2]),
				ContentType: asString(values[3]),
				Size:        asInt64(values[4]),
				UploadedBy:  asString(values[5]),
				CreatedAt:   asTime(values[6]),
				UpdatedAt:   asTime(values[7]),
			}
			return document, nil
		}

		return nil, cg_errors.ErrDocumentNotFound
	})

	if err != nil {
		if err != cg_errors.ErrDocumentNotFound {
			logger.Error("Failed to get document", zap.Error(err), zap.String("documentID", documentID))
		}
		return nil, err
	}

	return result.(*model.Document), nil
}

// ListDocumentsByClaim returns the documents attached to a claim.
func (dao *DocumentDAO) ListDocumentsByClaim(ctx context.Context, claimID string) ([]*model.Document, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (d:Document {claimID: $claimID})
        RETURN d.id, d.claimID, d.name, d.contentType, d.size, d.uploadedBy, d.createdAt, d.updatedAt
        ORDER BY d.createdAt DESC
        `
		records, err := transaction.Run(query, map[string]interface{}{"claimID": claimID})
		if err != nil {
			return nil, cg_errors.ErrDatabaseOperation
		}

		var documents []*model.Document
		for records.Next() {
			values := records.Record().Values
			documents = append(documents, &model.Document{
				ID:          asString(values[0]),
				ClaimID:     asString(values[1]),
				Name:        asString(values[2]),
				ContentType: asString(values[3]),
				Size:        asInt64(values[4]),
				UploadedBy:  asString(values[5]),
				CreatedAt:   asTime(values[6]),
				UpdatedAt:   asTime(values[7]),
			})
		}
		return documents, nil
	})

	if err != nil {
		logger.Error("Failed to list documents", zap.Error(err), zap.String("claimID", claimID))
		return nil, err
	}

	return result.([]*model.Document), nil
}

func asInt64(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}
