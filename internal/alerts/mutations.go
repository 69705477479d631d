package alerts

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/couchcryptid/safetynet-alerts-service/internal/domain"
)

func (s *Service) CreatePerson(ctx context.Context, p domain.Person) (domain.Person, error) {
	if err := requireKey(p.Key()); err != nil {
		return domain.Person{}, err
	}
	p.MedicalRecord, p.Firestation = nil, nil
	err := s.store.CreatePerson(ctx, p)
	if err := s.record(ctx, domain.EntityPerson, domain.ActionCreated, p.Key().String(), err); err != nil {
		return domain.Person{}, err
	}
	return p, nil
}

// UpdatePerson replaces the contact fields of the person named by key.
func (s *Service) UpdatePerson(ctx context.Context, key domain.PersonKey, p domain.Person) (domain.Person, error) {
	if err := requireKey(key); err != nil {
		return domain.Person{}, err
	}
	updated, err := s.store.UpdatePerson(ctx, key, p)
	if err := s.record(ctx, domain.EntityPerson, domain.ActionUpdated, key.String(), err); err != nil {
		return domain.Person{}, err
	}
	return updated, nil
}

func (s *Service) DeletePerson(ctx context.Context, key domain.PersonKey) error {
	if err := requireKey(key); err != nil {
		return err
	}
	err := s.store.DeletePerson(ctx, key)
	return s.record(ctx, domain.EntityPerson, domain.ActionDeleted, key.String(), err)
}

func (s *Service) CreateMedicalRecord(ctx context.Context, mr domain.MedicalRecord) (domain.MedicalRecord, error) {
	if err := s.validateRecord(mr.Key(), mr); err != nil {
		return domain.MedicalRecord{}, err
	}
	err := s.store.CreateMedicalRecord(ctx, mr)
	if err := s.record(ctx, domain.EntityMedicalRecord, domain.ActionCreated, mr.Key().String(), err); err != nil {
		return domain.MedicalRecord{}, err
	}
	return mr, nil
}

func (s *Service) UpdateMedicalRecord(ctx context.Context, key domain.PersonKey, mr domain.MedicalRecord) (domain.MedicalRecord, error) {
	if err := s.validateRecord(key, mr); err != nil {
		return domain.MedicalRecord{}, err
	}
	updated, err := s.store.UpdateMedicalRecord(ctx, key, mr)
	if err := s.record(ctx, domain.EntityMedicalRecord, domain.ActionUpdated, key.String(), err); err != nil {
		return domain.MedicalRecord{}, err
	}
	return updated, nil
}

func (s *Service) DeleteMedicalRecord(ctx context.Context, key domain.PersonKey) error {
	if err := requireKey(key); err != nil {
		return err
	}
	err := s.store.DeleteMedicalRecord(ctx, key)
	return s.record(ctx, domain.EntityMedicalRecord, domain.ActionDeleted, key.String(), err)
}

func (s *Service) CreateFirestation(ctx context.Context, fs domain.Firestation) (domain.Firestation, error) {
	if err := requireText("address", fs.Address); err != nil {
		return domain.Firestation{}, err
	}
	if err := requireStation(fs.Station); err != nil {
		return domain.Firestation{}, err
	}
	err := s.store.CreateFirestation(ctx, fs)
	if err := s.record(ctx, domain.EntityFirestation, domain.ActionCreated, fs.Address, err); err != nil {
		return domain.Firestation{}, err
	}
	return fs, nil
}

// UpdateFirestation changes the station number serving address.
func (s *Service) UpdateFirestation(ctx context.Context, address string, station int) (domain.Firestation, error) {
	if err := requireText("address", address); err != nil {
		return domain.Firestation{}, err
	}
	if err := requireStation(station); err != nil {
		return domain.Firestation{}, err
	}
	fs, err := s.store.UpdateFirestation(ctx, address, station)
	if err := s.record(ctx, domain.EntityFirestation, domain.ActionUpdated, address, err); err != nil {
		return domain.Firestation{}, err
	}
	return fs, nil
}

// DeleteFirestation removes the mapping for address.
func (s *Service) DeleteFirestation(ctx context.Context, address string) error {
	if err := requireText("address", address); err != nil {
		return err
	}
	err := s.store.DeleteFirestation(ctx, address)
	return s.record(ctx, domain.EntityFirestation, domain.ActionDeleted, address, err)
}

// DeleteStation removes every mapping to station and returns how many were removed.
func (s *Service) DeleteStation(ctx context.Context, station int) (int, error) {
	if err := requireStation(station); err != nil {
		return 0, err
	}
	removed, err := s.store.DeleteStation(ctx, station)
	if err := s.record(ctx, domain.EntityFirestation, domain.ActionDeleted, "station "+strconv.Itoa(station), err); err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *Service) validateRecord(key domain.PersonKey, mr domain.MedicalRecord) error {
	if err := requireKey(key); err != nil {
		return err
	}
	if mr.Birthdate.After(s.clock.Now()) {
		return invalid("birthdate %s is in the future", mr.Birthdate.Format(domain.BirthdateLayout))
	}
	return nil
}

// record counts the mutation outcome and, on success, publishes a change
// event. Publish failures are logged, never returned.
func (s *Service) record(ctx context.Context, entity domain.Entity, action domain.Action, key string, err error) error {
	if err != nil {
		s.metrics.Mutations.WithLabelValues(string(entity), string(action), "error").Inc()
		return fmt.Errorf("%s %s: %w", action, entity, err)
	}
	s.metrics.Mutations.WithLabelValues(string(entity), string(action), "success").Inc()
	s.logger.Info("dataset changed", "entity", entity, "action", action, "key", key)

	if s.publisher == nil {
		return nil
	}
	event := domain.ChangeEvent{
		ID:         uuid.NewString(),
		Entity:     entity,
		Action:     action,
		Key:        key,
		OccurredAt: s.clock.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish change event failed", "error", err, "event_id", event.ID, "entity", entity, "action", action)
		s.metrics.PublishErrors.Inc()
		return nil
	}
	s.metrics.EventsPublished.Inc()
	return nil
}
