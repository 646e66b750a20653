package model

import "time"

type User struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Role           string            `json:"role"` // "Client", "Adjuster", "Manager", "Admin", "Super Admin"
	OrganizationID string            `json:"organization_id,omitempty"`
	Attributes     map[string]string `json:"attributes,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}
