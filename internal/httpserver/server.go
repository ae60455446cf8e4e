package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/fdg312/gym-tracker/internal/auth"
	"github.com/fdg312/gym-tracker/internal/blob"
	"github.com/fdg312/gym-tracker/internal/calories"
	"github.com/fdg312/gym-tracker/internal/config"
	"github.com/fdg312/gym-tracker/internal/customers"
	"github.com/fdg312/gym-tracker/internal/goals"
	"github.com/fdg312/gym-tracker/internal/gyms"
	"github.com/fdg312/gym-tracker/internal/progress"
	"github.com/fdg312/gym-tracker/internal/reports"
	"github.com/fdg312/gym-tracker/internal/storage"
	"github.com/fdg312/gym-tracker/internal/storage/memory"
	"github.com/fdg312/gym-tracker/internal/storage/postgres"
)

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.Store
	blobStore      blob.Store
	authMiddleware *auth.Middleware
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config) (*Server, error) {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	s.initStorage()

	store, mode, err := blob.NewReportStore(context.Background(), cfg.Blob, log.Default())
	if err != nil {
		s.storage.Close()
		return nil, err
	}
	s.blobStore = store
	log.Printf("INFO reports: storage=%s", mode)

	s.routes()
	return s, nil
}

// NewWithStorage builds a server over an existing store; used by tests.
func NewWithStorage(cfg *config.Config, st storage.Store, blobStore blob.Store) *Server {
	s := &Server{
		config:    cfg,
		mux:       http.NewServeMux(),
		storage:   st,
		blobStore: blobStore,
	}
	s.routes()
	return s
}

// initStorage инициализирует storage (Memory или Postgres)
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("INFO storage: using in-memory storage")
		s.storage = memory.New()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
	if err != nil {
		log.Printf("WARN storage: postgres unavailable: %v", err)
		log.Println("INFO storage: fallback to in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("INFO storage: postgres connected")
	s.storage = pgStorage
}

// routes регистрирует маршруты
func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	if s.config.AuthMode == config.AuthModeDev {
		authService := auth.NewService(s.config)
		authHandler := auth.NewHandlers(authService)
		s.authMiddleware = auth.NewMiddleware(authService, s.config.AuthRequired)

		s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)
	}

	// Gyms API
	gymHandler := gyms.NewHandler(gyms.NewService(s.storage))
	s.mux.HandleFunc("GET /v1/gyms", gymHandler.HandleList)
	s.mux.HandleFunc("POST /v1/gyms", gymHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/gyms/{id}", gymHandler.HandleGet)
	s.mux.HandleFunc("DELETE /v1/gyms/{id}", gymHandler.HandleDelete)
	s.mux.HandleFunc("GET /v1/gyms/{id}/customers", gymHandler.HandleListCustomers)

	// Customers API
	customerHandler := customers.NewHandler(customers.NewService(s.storage))
	s.mux.HandleFunc("GET /v1/customers", customerHandler.HandleList)
	s.mux.HandleFunc("POST /v1/customers", customerHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/customers/{id}", customerHandler.HandleGet)
	s.mux.HandleFunc("PATCH /v1/customers/{id}", customerHandler.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/customers/{id}", customerHandler.HandleDelete)

	// Progress API
	progressHandler := progress.NewHandler(progress.NewService(s.storage))
	s.mux.HandleFunc("POST /v1/customers/{id}/progress", progressHandler.HandleAdd)
	s.mux.HandleFunc("GET /v1/customers/{id}/progress", progressHandler.HandleListForCustomer)
	s.mux.HandleFunc("GET /v1/customers/{id}/progress/recent", progressHandler.HandleRecent)
	s.mux.HandleFunc("GET /v1/progress", progressHandler.HandleListAll)
	s.mux.HandleFunc("GET /v1/progress/{id}", progressHandler.HandleGet)

	// Goals API
	goalHandler := goals.NewHandler(goals.NewService(s.storage))
	s.mux.HandleFunc("POST /v1/customers/{id}/goals", goalHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/customers/{id}/goals", goalHandler.HandleListForCustomer)
	s.mux.HandleFunc("GET /v1/goals", goalHandler.HandleList)
	s.mux.HandleFunc("GET /v1/goals/{id}", goalHandler.HandleGet)

	// Calories API
	calorieService := calories.NewService(s.storage, s.config.CaloriesBatchConcurrency)
	calorieHandler := calories.NewHandler(calorieService)
	s.mux.HandleFunc("GET /v1/customers/{id}/daily-calorie-intake", calorieHandler.HandleDailyIntake)
	s.mux.HandleFunc("POST /v1/calories/batch", calorieHandler.HandleBatch)
	s.mux.HandleFunc("GET /v1/calories", calorieHandler.HandleAll)

	// Reports API
	reportService := reports.NewService(s.storage, s.storage, calorieService, s.blobStore, s.config.ReportsMaxCustomers)
	reportHandler := reports.NewHandlers(reportService)
	s.mux.HandleFunc("POST /v1/reports", reportHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/reports", reportHandler.HandleList)
	s.mux.HandleFunc("GET /v1/reports/{id}/download", reportHandler.HandleDownload)
	s.mux.HandleFunc("DELETE /v1/reports/{id}", reportHandler.HandleDelete)
}

// Handler returns the mux wrapped in the middleware chain (outermost first):
// CORS → Rate Limit → Logging → Auth → Router
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	if s.authMiddleware != nil {
		handler = s.authMiddleware.Wrap(handler)
	}
	handler = LoggingMiddleware(handler)
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("INFO server: listening on http://localhost%s", addr)
	log.Printf("INFO server: health check http://localhost%s/healthz", addr)

	return srv.ListenAndServe()
}

// Close закрывает storage и освобождает ресурсы
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
