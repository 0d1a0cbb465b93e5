package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/docsign-app/docsigngo/internal/middleware"
	"github.com/docsign-app/docsigngo/internal/signing"
	"github.com/gorilla/mux"
)

// CompleteRequest is the payload of PUT /api/docs/{id}/complete.
// Signatures stays raw so a non-array shape can be rejected explicitly
// instead of half-decoding.
type CompleteRequest struct {
	Signatures json.RawMessage `json:"signatures"`
	PDFWidth   float64         `json:"pdfWidth"`
	PDFHeight  float64         `json:"pdfHeight"`
}

// completeDocument runs the signing workflow for one document
func (r *Router) completeDocument(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)
	id := mux.Vars(req)["id"]

	var body CompleteRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	trimmed := bytes.TrimSpace(body.Signatures)
	if len(trimmed) == 0 || string(trimmed) == "null" || trimmed[0] != '[' {
		respondError(w, http.StatusBadRequest, "signatures must be an array")
		return
	}

	var raw []signing.RawPlacement
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		respondError(w, http.StatusBadRequest, "signatures must be an array")
		return
	}

	res, err := r.signer.CompleteDocument(req.Context(), id, userID, raw, body.PDFWidth, body.PDFHeight)
	if err != nil {
		r.respondSigningError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":        "Signatures saved successfully",
		"doc":            res.Doc,
		"signedFilePath": res.SignedFilePath,
	})
}

// respondSigningError maps workflow errors onto HTTP statuses. Internal
// failures keep their diagnostics server-side in production.
func (r *Router) respondSigningError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, signing.ErrNotFound):
		respondError(w, http.StatusNotFound, "Document not found")
	case errors.Is(err, signing.ErrNotOwner):
		respondError(w, http.StatusForbidden, "Unauthorized")
	case errors.Is(err, signing.ErrInvalidPlacements):
		respondError(w, http.StatusBadRequest, "signatures must be an array")
	default:
		log.Printf("❌ Signing failed: %v", err)
		message := "Internal server error"
		if !r.cfg.IsProduction() {
			message = err.Error()
		}
		respondError(w, http.StatusInternalServerError, message)
	}
}
