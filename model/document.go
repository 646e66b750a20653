package model

import "time"

type Document struct {
	ID          string    `json:"id"`
	ClaimID     string    `json:"claim_id"` // Documents belong to a claim; access follows the claim
	Name        string    `json:"name"`
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size,omitempty"`
	UploadedBy  string    `json:"uploaded_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
