package model

import "time"

type Claim struct {
	ID             string            `json:"id"`
	ClaimNumber    string            `json:"claim_number"`
	OrganizationID string            `json:"organization_id"`
	AdjusterID     string            `json:"adjuster_id,omitempty"` // User ID of the assigned adjuster
	ClientID       string            `json:"client_id,omitempty"`   // User ID of the policyholder
	Status         string            `json:"status"`                // e.g., "open", "approved", "denied", "closed"
	LossType       string            `json:"loss_type,omitempty"`   // e.g., "fire", "water", "wind"
	Description    string            `json:"description,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type ClaimSearchCriteria struct {
	ID             string     `json:"id,omitempty"`
	ClaimNumber    string     `json:"claim_number,omitempty"`
	OrganizationID string     `json:"organization_id,omitempty"`
	AdjusterID     string     `json:"adjuster_id,omitempty"`
	ClientID       string     `json:"client_id,omitempty"`
	Status         string     `json:"status,omitempty"`
	CreatedAfter   *time.Time `json:"created_after,omitempty"`
	CreatedBefore  *time.Time `json:"created_before,omitempty"`
	Limit          int        `json:"limit,omitempty"`
	Offset         int        `json:"offset,omitempty"`
	SortBy         string     `json:"sort_by,omitempty"`
	SortOrder      string     `json:"sort_order,omitempty"`
}
