package api

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/paperweave/paperweave/internal/auth"
	"github.com/paperweave/paperweave/internal/feedback"
	"github.com/paperweave/paperweave/internal/storage"
)

type Server struct {
	router *chi.Mux

	authService      auth.Service
	collectionRepo   storage.CollectionRepository
	documentRepo     storage.DocumentRepository
	relationshipRepo storage.RelationshipRepository
	feedbackService  *feedback.Service
}

// ServerConfig holds the dependencies for the API server
type ServerConfig struct {
	DB        *sql.DB
	JWTSecret string
}

func NewServer(cfg ServerConfig) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authConfig := auth.DefaultConfig()
	if cfg.JWTSecret != "" {
		authConfig.SecretKey = cfg.JWTSecret
	}

	s := &Server{
		router:           r,
		authService:      auth.NewJWTService(authConfig, auth.NewPostgresRepository(cfg.DB)),
		collectionRepo:   storage.NewPostgresCollectionRepository(cfg.DB),
		documentRepo:     storage.NewPostgresDocumentRepository(cfg.DB),
		relationshipRepo: storage.NewPostgresRelationshipRepository(cfg.DB),
		feedbackService:  feedback.NewService(feedback.NewPostgresRepository(cfg.DB), nil),
	}
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// API v1
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public)
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(s.authService))

			r.Route("/collections", func(r chi.Router) {
				r.Get("/", s.handleListCollections)
				r.Post("/", s.handleCreateCollection)
				r.Get("/{collectionID}", s.handleGetCollection)
				r.Delete("/{collectionID}", s.handleDeleteCollection)

				// Documents and relationships
				r.Get("/{collectionID}/documents", s.handleListDocuments)
				r.Post("/{collectionID}/documents", s.handleCreateDocument)
				r.Delete("/{collectionID}/documents/{documentID}", s.handleDeleteDocument)
				r.Get("/{collectionID}/relationships", s.handleListRelationships)
				r.Post("/{collectionID}/relationships", s.handleCreateRelationship)
				r.Delete("/{collectionID}/relationships/{relationshipID}", s.handleDeleteRelationship)

				// Similarity engine
				r.Get("/{collectionID}/similar/{documentID}", s.handleTopSimilar)
				r.Get("/{collectionID}/phantom-edges", s.handlePhantomEdges)
				r.Get("/{collectionID}/clusters", s.handleClusters)
				r.Get("/{collectionID}/graph", s.handleGraph)

				// Suggestion feedback
				r.Post("/{collectionID}/feedback", s.handleRecordFeedback)
				r.Get("/{collectionID}/feedback/adjustments", s.handleGetAdjustments)
			})
		})
	})
}

func (s *Server) Run(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

// Helper to send JSON responses
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
