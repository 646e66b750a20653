// audit/model.go
package audit

import "time"

// Record is one authorization decision, append-only. Retention and
// deletion are handled outside this service.
type Record struct {
	ID           string         `json:"id,omitempty"`
	UserID       string         `json:"user_id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id,omitempty"`
	Success      bool           `json:"success"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}
