package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions
const (
	AuditUploaded  = "uploaded"
	AuditCompleted = "completed"
	AuditDeleted   = "deleted"
	AuditViewed    = "viewed"
)

// AuditEvent records who did what to which document. Written best-effort;
// a failed insert is logged and never surfaced to the caller.
type AuditEvent struct {
	ID         string         `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	DocumentID string         `gorm:"type:uuid;index" json:"documentId"`
	UserID     string         `gorm:"type:uuid;index" json:"userId"`
	Action     string         `gorm:"not null;index" json:"action"`
	Detail     datatypes.JSON `gorm:"type:jsonb" json:"detail,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name
func (AuditEvent) TableName() string {
	return "audit_events"
}
