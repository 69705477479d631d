package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/safetynet-alerts-service/internal/domain"
	"github.com/couchcryptid/safetynet-alerts-service/internal/observability"
)

// Service is the alerts API the server exposes.
type Service interface {
	sharedobs.ReadinessChecker

	Family(ctx context.Context, address string) (domain.Family, error)
	CommunityEmails(ctx context.Context, city string) ([]string, error)
	PhoneAlert(ctx context.Context, station int) ([]string, error)
	Fire(ctx context.Context, address string) ([]domain.PersonFirestation, error)
	Flood(ctx context.Context, stations []int) (map[string][]domain.PersonFirestation, error)
	Coverage(ctx context.Context, station int) (domain.StationCoverage, error)
	PersonInfo(ctx context.Context, key domain.PersonKey) (domain.PersonInfo, error)

	CreatePerson(ctx context.Context, p domain.Person) (domain.Person, error)
	UpdatePerson(ctx context.Context, key domain.PersonKey, p domain.Person) (domain.Person, error)
	DeletePerson(ctx context.Context, key domain.PersonKey) error

	CreateMedicalRecord(ctx context.Context, mr domain.MedicalRecord) (domain.MedicalRecord, error)
	UpdateMedicalRecord(ctx context.Context, key domain.PersonKey, mr domain.MedicalRecord) (domain.MedicalRecord, error)
	DeleteMedicalRecord(ctx context.Context, key domain.PersonKey) error

	CreateFirestation(ctx context.Context, fs domain.Firestation) (domain.Firestation, error)
	UpdateFirestation(ctx context.Context, address string, station int) (domain.Firestation, error)
	DeleteFirestation(ctx context.Context, address string) error
	DeleteStation(ctx context.Context, station int) (int, error)
}

// Server exposes the alert queries, dataset mutations, and the health,
// readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	svc        Service
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the alerts API plus /healthz, /readyz, and /metrics.
func NewServer(addr string, svc Service, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:     svc,
		metrics: metrics,
		logger:  logger,
	}

	s.route(mux, "POST /person", "person_create", s.handleCreatePerson)
	s.route(mux, "PUT /person", "person_update", s.handleUpdatePerson)
	s.route(mux, "DELETE /person", "person_delete", s.handleDeletePerson)

	s.route(mux, "POST /medicalRecord", "medical_record_create", s.handleCreateMedicalRecord)
	s.route(mux, "PUT /medicalRecord", "medical_record_update", s.handleUpdateMedicalRecord)
	s.route(mux, "DELETE /medicalRecord", "medical_record_delete", s.handleDeleteMedicalRecord)

	s.route(mux, "GET /firestation", "station_coverage", s.handleCoverage)
	s.route(mux, "POST /firestation", "firestation_create", s.handleCreateFirestation)
	s.route(mux, "PUT /firestation", "firestation_update", s.handleUpdateFirestation)
	s.route(mux, "DELETE /firestation", "firestation_delete", s.handleDeleteFirestation)

	s.route(mux, "GET /childAlert", "child_alert", s.handleChildAlert)
	s.route(mux, "GET /phoneAlert", "phone_alert", s.handlePhoneAlert)
	s.route(mux, "GET /fire", "fire", s.handleFire)
	s.route(mux, "GET /flood/stations", "flood", s.handleFlood)
	s.route(mux, "GET /personInfo", "person_info", s.handlePersonInfo)
	s.route(mux, "GET /communityEmail", "community_email", s.handleCommunityEmail)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(svc))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// route registers h under pattern and records request count and latency under name.
func (s *Server) route(mux *http.ServeMux, pattern, name string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		h(rec, r)

		s.metrics.HTTPRequests.WithLabelValues(name, strconv.Itoa(rec.status)).Inc()
		s.metrics.HTTPRequestDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
