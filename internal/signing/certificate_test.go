package signing

import (
	"testing"
	"time"

	"github.com/docsign-app/docsigngo/internal/models"
)

func TestAppendCertificate(t *testing.T) {
	src := buildTestPDF(t, 2)

	out, err := AppendCertificate(src, CertificateInfo{
		DocumentID:   "doc-42",
		DocumentName: "contract.pdf",
		SignedBy:     "user-a",
		SignedAt:     time.Now(),
		Placements: []models.Placement{
			{Page: 1, X: 10, Y: 20, SignatureType: models.SignatureTypeText, Signature: "Alice"},
		},
	})
	if err != nil {
		t.Fatalf("AppendCertificate failed: %v", err)
	}

	n, err := PageCount(out)
	if err != nil {
		t.Fatalf("Output is not a parseable PDF: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected certificate to add one page (3 total), got %d", n)
	}
}
