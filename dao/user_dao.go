// dao/user_dao.go
package dao

import (
	"context"
	"fmt"
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

type UserDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewUserDAO(driver neo4j.Driver, auditService audit.Service) *UserDAO {
	dao := &UserDAO{Driver: driver, AuditService: auditService}
	// Ensure unique constraint on User ID
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for User", zap.Error(err))
	}
	return dao
}

func (dao *UserDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_user_id IF NOT EXISTS
        FOR (u:User) REQUIRE u.id IS UNIQUE
        `
		_, err := transaction.Run(query, nil)
		return nil, err
	})

	if err != nil {
		logger.Error("Failed to ensure unique constraint on User ID", zap.Error(err))
		return err
	}

	return nil
}

func (dao *UserDAO) CreateUser(ctx context.Context, user model.User) (string, error) {
	start := time.Now()
	logger.Info("Creating new user", zap.String("email", user.Email))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MERGE (u:User {id: $id})
        ON CREATE SET u += $props
        ON MATCH SET u += $props
        RETURN u.id as id
        `

		params := map[string]interface{}{
			"id": user.ID,
			"props": map[string]interface{}{
				"name":           user.Name,
				"email":          user.Email,
				"role":           user.Role,
				"organizationID": user.OrganizationID,
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
		logger.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
			zap.Duration("duration", duration))
		return "", err
	}

	userID := fmt.Sprintf("%v", result)
	logger.Info("User created successfully",
		zap.String("userID", userID),
		zap.Duration("duration", duration))

	return userID, nil
}

// GetUser reads a user profile, read-through cached in Redis.
func (dao *UserDAO) GetUser(ctx context.Context, userID string) (*model.User, error) {
	if cached, err := db.GetCachedUser(ctx, userID); err == nil && cached != nil {
		return cached, nil
	}

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (u:User {id: $id})
        RETURN u.id, u.name, u.email, u.role, u.organizationID, u.createdAt, u.updatedAt
        `
		records, err := transaction.Run(query, map[string]interface{}{"id": userID})
		if err != nil {
			return nil, cg_errors.ErrDatabaseOperation
		}

		if records.Next() {
			values := records.Record().Values
			user := &model.User{
				ID:             asString(values[0]),
				Name:           asString(values[1]),
				Email:          asString(values[2]),
				Role:           asString(values[3]),
				OrganizationID: asString(values[4]),
				CreatedAt:      asTime(values[5]),
				UpdatedAt:      asTime(values[6]),
			}
			return user, nil
		}

		return nil, cg_errors.ErrUserNotFound
	})

	if err != nil {
		if err != cg_errors.ErrUserNotFound {
			logger.Error("Failed to get user", zap.Error(err), zap.String("userID", userID))
		}
		return nil, err
	}

	user := result.(*model.User)
	if err := db.CacheUser(ctx, user); err != nil {
		logger.Warn("Failed to cache user", zap.Error(err), zap.String("userID", userID))
	}

	return user, nil
}

// UpdateUserRole persists a role change for a user and audits it.
func (dao *UserDAO) UpdateUserRole(ctx context.Context, userID, role, updaterID string) (*model.User, error) {
	start := time.Now()
	logger.Info("Updating user role",
		zap.String("userID", userID),
		zap.String("role", role))

	// Serialize concurrent role changes for the same user
	lockName := "user_role:" + userID
	locked, err := db.LockResource(ctx, lockName, 10*time.Second)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, cg_errors.ErrConcurrentModification
	}
	defer func() {
		if err := db.UnlockResource(ctx, lockName); err != nil {
			logger.Warn("Failed to release role update lock", zap.Error(err), zap.String("userID", userID))
		}
	}()

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (u:User {id: $id})
        SET u.role = $role, u.updatedAt = $updatedAt
        RETURN u.id, u.name, u.email, u.role, u.organizationID, u.createdAt, u.updatedAt
        `
		params := map[string]interface{}{
			"id":        userID,
			"role":      role,
			"updatedAt": time.Now().Format(time.RFC3339),
		}

		records, err := transaction.Run(query, params)
		if err != nil {
			return nil, cg_errors.ErrDatabaseOperation
		}

		if records.Next() {
			values := records.Record().Values
			user := &model.User{
				ID:             asString(values[0]),
				Name:           asString(values[1]),
				Email:          asString(values[2]),
				Role:           asString(values[3]),
				OrganizationID: asString(values[4]),
				CreatedAt:      asTime(values[5]),
				UpdatedAt:      asTime(values[6]),
			}
			return user, nil
		}

		return nil, cg_errors.ErrUserNotFound
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to update user role",
			zap.Error(err),
			zap.String("userID", userID),
			zap.Duration("duration", duration))
		return nil, err
	}

	user := result.(*model.User)

	// The cached profile now carries a stale role
	if err := db.DeleteCachedUser(ctx, userID); err != nil {
		logger.Warn("Failed to evict cached user", zap.Error(err), zap.String("userID", userID))
	}

	auditRec := audit.Record{
		UserID:       updaterID,
		Action:       "role_assigned",
		ResourceType: "users",
		ResourceID:   userID,
		Success:      true,
		Metadata:     map[string]any{"new_role": role},
		CreatedAt:    time.Now(),
	}
	if err := dao.AuditService.LogDecision(ctx, auditRec); err != nil {
		logger.Warn("Failed to audit role change", zap.Error(err), zap.String("userID", userID))
	}

	logger.Info("User role updated successfully",
		zap.String("userID", userID),
		zap.String("role", role),
		zap.Duration("duration", duration))
	return user, nil
}

// ListUsersByOrganization returns the users of one organization.
func (dao *UserDAO) ListUsersByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]*model.User, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (u:User {organizationID: $organizationID})
        RETURN u.id, u.name, u.email, u.role, u.organizationID, u.createdAt, u.updatedAt
        ORDER BY u.createdAt DESC
        SKIP $offset LIMIT $limit
        `
		params := map[string]interface{}{
			"organizationID": organizationID,
			"limit":          limit,
			"offset":         offset,
		}

		records, err := transaction.Run(query, params)
		if err != nil {
			return nil, cg_errors.ErrDatabaseOperation
		}

		var users []*model.User
		for records.Next() {
			values := records.Record().Values
			users = append(users, &model.User{
				ID:             asString(values[0]),
				Name:           asString(values[1]),
				Email:          asString(values[2]),
				Role:           asString(values[3]),
				OrganizationID: asString(values[4]),
				CreatedAt:      asTime(values[5]),
				UpdatedAt:      asTime(values[6]),
			})
		}
		return users, nil
	})

	if err != nil {
		logger.Error("Failed to list users",
			zap.Error(err),
			zap.String("organizationID", organizationID))
		return nil, err
	}

	return result.([]*model.User), nil
}

func asString(value interface{}) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func asTime(value interface{}) time.Time {
	if s, ok := value.(string); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
