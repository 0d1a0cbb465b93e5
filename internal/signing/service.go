package signing

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docsign-app/docsigngo/internal/models"
)

// DocumentStore is the slice of the metadata store the workflow needs.
// The gorm-backed implementation lives in internal/store.
type DocumentStore interface {
	FindByID(ctx context.Context, id string) (*models.Document, error)
	Update(ctx context.Context, doc *models.Document) error
}

// BlobStore is the slice of the blob store the workflow needs.
// The filesystem implementation lives in internal/storage.
type BlobStore interface {
	Open(ref string) ([]byte, error)
	Save(ref string, data []byte) error
	Remove(ref string) error
	SignedRef(originalName string) string
}

// Auditor records document events best-effort.
type Auditor interface {
	Record(ctx context.Context, documentID, userID, action string, detail map[string]interface{})
}

// Service orchestrates the signing workflow:
// load -> authorize -> normalize -> compose -> write blob -> update record.
type Service struct {
	Docs  DocumentStore
	Blobs BlobStore

	// Optional collaborators; nil disables them.
	Audit  Auditor
	Notify func(userID string, doc *models.Document)

	// AppendCert controls whether a certificate page is appended to the
	// signed output.
	AppendCert bool
}

// CompleteResult is what a successful CompleteDocument returns.
type CompleteResult struct {
	Doc            *models.Document
	SignedFilePath string
	Report         *Report
}

// CompleteDocument runs the whole signing workflow for one document.
// No document mutation happens unless composition and the blob write both
// succeed; concurrent calls against the same id race last-writer-wins.
func (s *Service) CompleteDocument(ctx context.Context, docID, actingUserID string, raw []RawPlacement, pageWidth, pageHeight float64) (*CompleteResult, error) {
	doc, err := s.Docs.FindByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if doc.UploadedBy == "" {
		// Ownership is the entire authorization model; a record without an
		// owner is a data-integrity failure, not a valid unowned state.
		return nil, fmt.Errorf("document %s has no owner", doc.ID)
	}
	if doc.UploadedBy != actingUserID {
		return nil, ErrNotOwner
	}

	if raw == nil {
		return nil, ErrInvalidPlacements
	}

	original, err := s.Blobs.Open(doc.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			// Upload/storage drift: the record points at a blob that is gone.
			return nil, fmt.Errorf("original file %s missing: %w", doc.FilePath, ErrNotFound)
		}
		return nil, &StorageError{Op: "read", Err: err}
	}

	placements := NormalizePlacements(raw, pageWidth, pageHeight)

	signed, report, err := Compose(original, placements)
	if err != nil {
		return nil, err
	}
	for _, d := range report.Dropped {
		log.Printf("⚠️ Document %s: dropped placement %d: %s", doc.ID, d.Index, d.Reason)
	}
	for _, i := range report.Fallbacks {
		log.Printf("⚠️ Document %s: placement %d rendered as placeholder", doc.ID, i)
	}

	if s.AppendCert {
		withCert, err := AppendCertificate(signed, CertificateInfo{
			DocumentID:   doc.ID,
			DocumentName: doc.OriginalName,
			SignedBy:     actingUserID,
			SignedAt:     time.Now(),
			Placements:   placements,
		})
		if err != nil {
			log.Printf("⚠️ Document %s: certificate page skipped: %v", doc.ID, err)
		} else {
			signed = withCert
		}
	}

	signedRef := s.Blobs.SignedRef(doc.OriginalName)
	if err := s.Blobs.Save(signedRef, signed); err != nil {
		return nil, &StorageError{Op: "write", Err: err}
	}

	prevSigned := doc.SignedFilePath

	doc.Signatures = models.PlacementList(placements)
	doc.SignedFilePath = signedRef
	doc.Status = models.StatusCompleted
	doc.Signed = true

	if err := s.Docs.Update(ctx, doc); err != nil {
		// The written blob becomes an orphan; cleanup is an external concern.
		return nil, &StorageError{Op: "record update", Err: err}
	}

	// Reclaim the previous signed blob best-effort.
	if prevSigned != "" && prevSigned != signedRef {
		if err := s.Blobs.Remove(prevSigned); err != nil {
			log.Printf("⚠️ Document %s: could not reclaim %s: %v", doc.ID, prevSigned, err)
		}
	}

	if s.Audit != nil {
		s.Audit.Record(ctx, doc.ID, actingUserID, models.AuditCompleted, map[string]interface{}{
			"signedFilePath": signedRef,
			"placements":     len(placements),
			"dropped":        len(report.Dropped),
			"fallbacks":      len(report.Fallbacks),
		})
	}
	if s.Notify != nil {
		s.Notify(actingUserID, doc)
	}

	log.Printf("✍️ Document %s completed by %s (%d placements)", doc.ID, actingUserID, len(placements))

	return &CompleteResult{
		Doc:            doc,
		SignedFilePath: signedRef,
		Report:         report,
	}, nil
}
