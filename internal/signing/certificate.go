package signing

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/docsign-app/docsigngo/internal/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	qrcode "github.com/skip2/go-qrcode"
)

// CertificateInfo feeds the signing-certificate page appended to the
// signed output.
type CertificateInfo struct {
	DocumentID   string
	DocumentName string
	SignedBy     string
	SignedAt     time.Time
	Placements   []models.Placement
}

// AppendCertificate appends a certificate page to a signed PDF: document
// metadata, a per-placement summary and a verification QR encoding the
// document id. The caller treats a failure as non-fatal and keeps the
// stamped document without the certificate.
func AppendCertificate(signed []byte, info CertificateInfo) ([]byte, error) {
	certPage, err := buildCertificatePage(info)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	sources := []io.ReadSeeker{bytes.NewReader(signed), bytes.NewReader(certPage)}
	if err := api.MergeRaw(sources, &out, false, composeConf()); err != nil {
		return nil, fmt.Errorf("failed to append certificate page: %w", err)
	}
	return out.Bytes(), nil
}

// buildCertificatePage renders the one-page certificate document.
func buildCertificatePage(info CertificateInfo) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Signing Certificate", "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(40, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
	}
	row("Document", info.DocumentName)
	row("Document ID", info.DocumentID)
	row("Signed by", info.SignedBy)
	row("Completed", info.SignedAt.UTC().Format(time.RFC3339))
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Signatures (%d)", len(info.Placements)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for i, p := range info.Placements {
		line := fmt.Sprintf("%d. %s on page %d at (%.0f, %.0f)", i+1, p.SignatureType, p.Page, p.X, p.Y)
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	// Verification QR: encodes the document id for lookup against the API.
	qrPng, err := qrcode.Encode(fmt.Sprintf("docsign:%s", info.DocumentID), qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}
	imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("verify_qr", imgOptions, bytes.NewReader(qrPng))
	pdf.ImageOptions("verify_qr", 20, pdf.GetY(), 30, 30, false, imgOptions, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
