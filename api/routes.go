package api

import (
	"github.com/garnizeh/interviewer/internal/config"
	"github.com/garnizeh/interviewer/internal/interview"
	"github.com/garnizeh/interviewer/internal/oracle"
	"github.com/garnizeh/interviewer/internal/report"
	"github.com/garnizeh/interviewer/internal/retrieval"
	"github.com/garnizeh/interviewer/internal/session"
	"github.com/garnizeh/interviewer/pkg/repository"
	"github.com/gorilla/mux"
)

// Deps are the wired components the HTTP layer serves. All of them are
// constructed once in main and passed in explicitly.
type Deps struct {
	Users     repository.UserRepo
	Sessions  *session.Store
	Retrieval *retrieval.Engine
	Oracle    *oracle.Gateway
	Interview *interview.Engine
	Reports   *report.Generator
}

func SetupRoutes(cfg *config.Config, version, buildTime string, deps Deps) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(deps.Users, cfg.JWTSecret, cfg.TokenDuration)
	resumeHandler := NewResumeHandler(deps.Sessions, deps.Retrieval, deps.Oracle)
	interviewHandler := NewInterviewHandler(deps.Interview)
	reportHandler := NewReportHandler(deps.Sessions, deps.Reports)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/signout", authHandler.Signout).Methods("POST")

	// Resume ingestion
	apiV1.HandleFunc("/resume", resumeHandler.UploadResume).Methods("POST")

	// Interview endpoints
	apiV1.HandleFunc("/interview/start", interviewHandler.Start).Methods("POST")
	apiV1.HandleFunc("/interview/answer", interviewHandler.Answer).Methods("POST")
	apiV1.HandleFunc("/interview/skip", interviewHandler.Skip).Methods("POST")
	apiV1.HandleFunc("/interview/end", interviewHandler.End).Methods("POST")

	// Report
	apiV1.HandleFunc("/report/{sessionId}", reportHandler.GetReport).Methods("GET")

	return r
}
