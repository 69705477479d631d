package alerts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/safetynet-alerts-service/internal/domain"
	"github.com/couchcryptid/safetynet-alerts-service/internal/observability"
	"github.com/couchcryptid/safetynet-alerts-service/internal/store"
)

var (
	// ErrInvalidInput is returned for missing or malformed query keys and payloads.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = store.ErrNotFound
	// ErrAlreadyExists is returned when creating a record whose key is taken.
	ErrAlreadyExists = store.ErrAlreadyExists
)

// Store is the dataset the service reads snapshots from and writes to.
type Store interface {
	Ping(ctx context.Context) error
	Snapshot(ctx context.Context) ([]domain.Person, error)

	CreatePerson(ctx context.Context, p domain.Person) error
	UpdatePerson(ctx context.Context, key domain.PersonKey, p domain.Person) (domain.Person, error)
	DeletePerson(ctx context.Context, key domain.PersonKey) error

	CreateMedicalRecord(ctx context.Context, mr domain.MedicalRecord) error
	UpdateMedicalRecord(ctx context.Context, key domain.PersonKey, mr domain.MedicalRecord) (domain.MedicalRecord, error)
	DeleteMedicalRecord(ctx context.Context, key domain.PersonKey) error

	CreateFirestation(ctx context.Context, fs domain.Firestation) error
	UpdateFirestation(ctx context.Context, address string, station int) (domain.Firestation, error)
	DeleteFirestation(ctx context.Context, address string) error
	DeleteStation(ctx context.Context, station int) (int, error)
}

// Publisher announces successful dataset mutations.
type Publisher interface {
	Publish(ctx context.Context, event domain.ChangeEvent) error
}

// Service answers the alert queries over store snapshots and applies
// dataset mutations.
type Service struct {
	store     Store
	publisher Publisher
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Service. Pass a nil publisher to disable change events and a
// nil clock to use real time.
func New(s Store, publisher Publisher, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		store:     s,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness reports whether the backing store is reachable.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("store not ready: %w", err)
	}
	return nil
}

// runQuery loads one snapshot and evaluates fn over it as of the current time.
func runQuery[T any](ctx context.Context, s *Service, name string, fn func(persons []domain.Person, now time.Time) T) (T, error) {
	start := time.Now()
	defer func() {
		s.metrics.QueryDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()

	persons, err := s.store.Snapshot(ctx)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: load snapshot: %w", name, err)
	}
	s.metrics.SnapshotSize.Set(float64(len(persons)))

	return fn(persons, s.clock.Now()), nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func requireText(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid("%s is required", name)
	}
	return nil
}

func requireStation(station int) error {
	if station <= 0 {
		return invalid("station number must be positive, got %d", station)
	}
	return nil
}

func requireKey(key domain.PersonKey) error {
	if !key.Valid() {
		return invalid("firstName and lastName are required")
	}
	return nil
}
