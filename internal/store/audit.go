package store

import (
	"context"
	"encoding/json"
	"log"

	"github.com/docsign-app/docsigngo/internal/database"
	"github.com/docsign-app/docsigngo/internal/models"
	"gorm.io/datatypes"
)

// Audit writes audit events. Best-effort: a failed insert is logged and
// swallowed so it can never break the operation being audited.
type Audit struct {
	db *database.DB
}

// NewAudit creates an Audit store on top of db.
func NewAudit(db *database.DB) *Audit {
	return &Audit{db: db}
}

// Record stores one audit event.
func (a *Audit) Record(ctx context.Context, documentID, userID, action string, detail map[string]interface{}) {
	var payload datatypes.JSON
	if detail != nil {
		raw, err := json.Marshal(detail)
		if err != nil {
			log.Printf("⚠️ Audit: could not marshal detail for %s/%s: %v", documentID, action, err)
		} else {
			payload = datatypes.JSON(raw)
		}
	}

	event := models.AuditEvent{
		DocumentID: documentID,
		UserID:     userID,
		Action:     action,
		Detail:     payload,
	}
	if err := a.db.WithContext(ctx).Create(&event).Error; err != nil {
		log.Printf("⚠️ Audit: failed to record %s for document %s: %v", action, documentID, err)
	}
}
