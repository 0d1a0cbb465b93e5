package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/docsign-app/docsigngo/internal/middleware"
	"github.com/docsign-app/docsigngo/internal/models"
	"github.com/docsign-app/docsigngo/internal/signing"
	"github.com/docsign-app/docsigngo/internal/storage"
	"github.com/docsign-app/docsigngo/internal/utils"
	"github.com/docsign-app/docsigngo/internal/websocket"
	"github.com/gorilla/mux"
)

// uploadDocument receives a multipart PDF and creates the document record
func (r *Router) uploadDocument(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)

	req.Body = http.MaxBytesReader(w, req.Body, r.cfg.MaxUploadBytes)
	if err := req.ParseMultipartForm(r.cfg.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "File exceeds upload limit")
			return
		}
		respondError(w, http.StatusBadRequest, "Invalid multipart payload")
		return
	}

	file, header, err := req.FormFile("pdf")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	// Keyed on the declared mimetype; a .pdf extension proves nothing.
	if header.Header.Get("Content-Type") != "application/pdf" {
		respondError(w, http.StatusBadRequest, "Only PDFs allowed")
		return
	}

	ref := r.blobs.UploadRef(header.Filename)
	size, err := r.blobs.SaveStream(ref, file)
	if err != nil {
		log.Printf("❌ Upload failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	doc := models.Document{
		OriginalName: header.Filename,
		FilePath:     ref,
		UploadedBy:   userID,
		Status:       models.StatusPending,
		Size:         size,
		MimeType:     "application/pdf",
	}

	if err := r.docs.Create(req.Context(), &doc); err != nil {
		_ = r.blobs.Remove(ref)
		log.Printf("❌ Failed to save document: %v", err)
		respondError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	log.Printf("📄 Document uploaded: %s (%s, %d bytes) by %s", doc.ID, doc.OriginalName, size, userID)
	r.audit.Record(req.Context(), doc.ID, userID, models.AuditUploaded, map[string]interface{}{
		"originalName": doc.OriginalName,
		"size":         size,
	})
	r.hub.SendToUser(userID, websocket.Event{
		Type:       "document.uploaded",
		DocumentID: doc.ID,
		Status:     doc.Status,
		At:         doc.CreatedAt,
	})

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "File uploaded",
		"doc":     doc,
	})
}

// getDocument returns a single document owned by the acting user
func (r *Router) getDocument(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)
	id := mux.Vars(req)["id"]

	doc, err := r.docs.FindByID(req.Context(), id)
	if err != nil {
		if errors.Is(err, signing.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Document not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Error fetching document")
		return
	}

	if doc.UploadedBy != userID {
		respondError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"doc": doc})
}

// listDocuments returns the acting user's documents, newest first
func (r *Router) listDocuments(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)

	docs, err := r.docs.ListByOwner(req.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error fetching documents")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"docs": docs})
}

// deleteDocument removes a document record and its blobs
func (r *Router) deleteDocument(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)
	id := mux.Vars(req)["id"]

	doc, err := r.docs.FindByID(req.Context(), id)
	if err != nil {
		if errors.Is(err, signing.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Document not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete document")
		return
	}

	if doc.UploadedBy == "" || doc.UploadedBy != userID {
		respondError(w, http.StatusForbidden, "Unauthorized to delete this document")
		return
	}

	// Remove blobs; a blob already gone is not a failure
	if err := r.blobs.Remove(doc.FilePath); err != nil {
		log.Printf("⚠️ File not found or already deleted: %v", err)
	}
	if doc.SignedFilePath != "" {
		if err := r.blobs.Remove(doc.SignedFilePath); err != nil {
			log.Printf("⚠️ Signed file not found or already deleted: %v", err)
		}
	}

	if err := r.docs.Delete(req.Context(), doc); err != nil {
		log.Printf("❌ Delete error: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to delete document")
		return
	}

	r.audit.Record(req.Context(), doc.ID, userID, models.AuditDeleted, nil)
	r.hub.SendToUser(userID, websocket.Event{
		Type:       "document.deleted",
		DocumentID: doc.ID,
		At:         time.Now(),
	})

	respondJSON(w, http.StatusOK, map[string]string{"message": "Document deleted successfully"})
}

// serveSignedFile streams a stored blob inline after an ownership check
func (r *Router) serveSignedFile(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)
	name := mux.Vars(req)["name"]

	refs := []string{
		storage.DirSigned + "/" + name,
		storage.DirOriginals + "/" + name,
	}

	for _, ref := range refs {
		doc, err := r.docs.FindByBlobRef(req.Context(), ref)
		if err != nil {
			if errors.Is(err, signing.ErrNotFound) {
				continue
			}
			respondError(w, http.StatusInternalServerError, "Error fetching file")
			return
		}

		if doc.UploadedBy != userID {
			respondError(w, http.StatusForbidden, "Unauthorized")
			return
		}

		rd, err := r.blobs.Reader(ref)
		if err != nil {
			respondError(w, http.StatusNotFound, "File not found")
			return
		}
		defer rd.Close()

		r.audit.Record(req.Context(), doc.ID, userID, models.AuditViewed, map[string]interface{}{"ref": ref})

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
		if _, err := io.Copy(w, rd); err != nil {
			log.Printf("⚠️ Serving %s interrupted: %v", ref, err)
		}
		return
	}

	respondError(w, http.StatusNotFound, "File not found")
}

// serveWs authenticates and upgrades an event-push connection. Browsers
// cannot set headers on websocket requests, so a token query parameter is
// accepted alongside the Authorization header.
func (r *Router) serveWs(w http.ResponseWriter, req *http.Request) {
	token := req.URL.Query().Get("token")
	if token == "" {
		authHeader := req.Header.Get("Authorization")
		if parts := strings.Split(authHeader, " "); len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}
	}
	if token == "" {
		http.Error(w, "Authorization token missing", http.StatusUnauthorized)
		return
	}

	claims, err := utils.ValidateToken(token, r.cfg.JWTSecret)
	if err != nil {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}
	userID, _ := claims["id"].(string)
	if userID == "" {
		http.Error(w, "Invalid token payload", http.StatusUnauthorized)
		return
	}

	websocket.ServeUser(r.hub, userID, w, req)
}
