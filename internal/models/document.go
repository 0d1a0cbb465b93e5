package models

import (
	"time"

	"gorm.io/gorm"
)

// Document lifecycle states
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Document represents an uploaded PDF and its signing state.
// Invariants: Signed == (Status == completed) and SignedFilePath is
// non-empty iff Status == completed. UploadedBy is never empty once the
// record exists; an empty value is a data-integrity failure.
type Document struct {
	ID             string        `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	OriginalName   string        `gorm:"not null" json:"originalName"`
	FilePath       string        `gorm:"unique;not null" json:"filePath"`
	SignedFilePath string        `json:"signedFilePath,omitempty"`
	UploadedBy     string        `gorm:"type:uuid;not null;index" json:"uploadedBy"`
	Status         string        `gorm:"default:'pending';index" json:"status"`
	Signed         bool          `gorm:"default:false" json:"signed"`
	Signatures     PlacementList `gorm:"type:jsonb;default:'[]'" json:"signatures"`
	Size           int64         `json:"size"`
	MimeType       string        `json:"mimeType"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name
func (Document) TableName() string {
	return "documents"
}
