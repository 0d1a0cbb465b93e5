package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/docsign-app/docsigngo/internal/config"
	"github.com/docsign-app/docsigngo/internal/database"
	"github.com/docsign-app/docsigngo/internal/middleware"
	"github.com/docsign-app/docsigngo/internal/models"
	"github.com/docsign-app/docsigngo/internal/signing"
	"github.com/docsign-app/docsigngo/internal/storage"
	"github.com/docsign-app/docsigngo/internal/store"
	"github.com/docsign-app/docsigngo/internal/websocket"
	"github.com/gorilla/mux"
)

// Router wraps the mux router and the application's collaborators
type Router struct {
	*mux.Router
	db     *database.DB
	cfg    *config.Config
	docs   *store.Documents
	audit  *store.Audit
	blobs  *storage.Store
	signer *signing.Service
	hub    *websocket.Hub
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config, blobs *storage.Store, hub *websocket.Hub) *Router {
	docs := store.NewDocuments(db)
	audit := store.NewAudit(db)

	r := &Router{
		Router: mux.NewRouter(),
		db:     db,
		cfg:    cfg,
		docs:   docs,
		audit:  audit,
		blobs:  blobs,
		hub:    hub,
	}

	r.signer = &signing.Service{
		Docs:       docs,
		Blobs:      blobs,
		Audit:      audit,
		Notify:     r.notifyCompleted,
		AppendCert: true,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/api/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")
	auth.HandleFunc("/logout", r.logout).Methods("POST")

	// Document routes (protected)
	docRoutes := r.PathPrefix("/api/docs").Subrouter()
	docRoutes.Use(middleware.Auth(cfg.JWTSecret))
	docRoutes.HandleFunc("", r.uploadDocument).Methods("POST")
	docRoutes.HandleFunc("", r.listDocuments).Methods("GET")
	// /file/{name} must be registered before /{id}
	docRoutes.HandleFunc("/file/{name}", r.serveSignedFile).Methods("GET")
	docRoutes.HandleFunc("/{id}", r.getDocument).Methods("GET")
	docRoutes.HandleFunc("/{id}", r.deleteDocument).Methods("DELETE")
	docRoutes.HandleFunc("/{id}/complete", r.completeDocument).Methods("PUT")

	// Event push
	r.HandleFunc("/ws", r.serveWs).Methods("GET")

	return r
}

// notifyCompleted pushes a completion event to the document owner.
func (r *Router) notifyCompleted(userID string, doc *models.Document) {
	r.hub.SendToUser(userID, websocket.Event{
		Type:       "document.completed",
		DocumentID: doc.ID,
		Status:     doc.Status,
		At:         doc.UpdatedAt,
	})
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
