package handlers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/docsign-app/docsigngo/internal/config"
	"github.com/gorilla/mux"
)

func multipartUpload(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="pdf"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("Failed to build multipart body: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("Failed to write file part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}
	return &body, w.FormDataContentType()
}

// The router carries no stores here: a rejected upload must never reach them.
func uploadTestRouter() *Router {
	return &Router{
		Router: mux.NewRouter(),
		cfg:    &config.Config{MaxUploadBytes: 10 << 20},
	}
}

func TestUploadRejectsNonPDFMimetype(t *testing.T) {
	r := uploadTestRouter()

	// A .pdf filename must not get a non-PDF body past the gate
	body, ct := multipartUpload(t, "evil.pdf", "text/plain", []byte("not a pdf"))
	req := httptest.NewRequest(http.MethodPost, "/api/docs", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	r.uploadDocument(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for non-PDF mimetype, got %d", rec.Code)
	}
}

func TestUploadRejectsMissingFile(t *testing.T) {
	r := uploadTestRouter()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("note", "no file here"); err != nil {
		t.Fatalf("Failed to build multipart body: %v", err)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/docs", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	r.uploadDocument(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 when no file part is present, got %d", rec.Code)
	}
}
