package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/couchcryptid/safetynet-alerts-service/internal/domain"
)

// Memory is an in-process dataset guarded by a read-write lock.
// Snapshots are deep copies, so readers never observe later mutations.
type Memory struct {
	mu       sync.RWMutex
	persons  map[domain.PersonKey]domain.Person
	records  map[domain.PersonKey]domain.MedicalRecord
	stations map[string]domain.Firestation
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{
		persons:  make(map[domain.PersonKey]domain.Person),
		records:  make(map[domain.PersonKey]domain.MedicalRecord),
		stations: make(map[string]domain.Firestation),
	}
}

// NewMemoryFromDataset creates a store seeded with the dataset's records.
// Later entries win over earlier ones with the same key.
func NewMemoryFromDataset(ds *Dataset) (*Memory, error) {
	persons, records, stations, err := ds.Entities()
	if err != nil {
		return nil, fmt.Errorf("seed memory store: %w", err)
	}

	m := NewMemory()
	for _, p := range persons {
		p.MedicalRecord, p.Firestation = nil, nil
		m.persons[p.Key()] = p
	}
	for _, mr := range records {
		m.records[mr.Key()] = mr.Clone()
	}
	for _, fs := range stations {
		m.stations[fs.Address] = fs
	}
	return m, nil
}

// Ping always succeeds; the store has no external dependency.
func (m *Memory) Ping(_ context.Context) error { return nil }

// Snapshot returns every person with medical record and firestation resolved.
func (m *Memory) Snapshot(_ context.Context) ([]domain.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	persons := make([]domain.Person, 0, len(m.persons))
	for _, p := range m.persons {
		persons = append(persons, p)
	}
	records := make([]domain.MedicalRecord, 0, len(m.records))
	for _, mr := range m.records {
		records = append(records, mr)
	}
	stations := make([]domain.Firestation, 0, len(m.stations))
	for _, fs := range m.stations {
		stations = append(stations, fs)
	}
	return Resolve(persons, records, stations), nil
}

func (m *Memory) CreatePerson(_ context.Context, p domain.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.persons[p.Key()]; ok {
		return fmt.Errorf("person %s: %w", p.Key(), ErrAlreadyExists)
	}
	p.MedicalRecord, p.Firestation = nil, nil
	m.persons[p.Key()] = p
	return nil
}

// UpdatePerson replaces the contact fields of the person identified by key.
// Names are part of the identity and are not changed.
func (m *Memory) UpdatePerson(_ context.Context, key domain.PersonKey, p domain.Person) (domain.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.persons[key]; !ok {
		return domain.Person{}, fmt.Errorf("person %s: %w", key, ErrNotFound)
	}
	p.FirstName, p.LastName = key.FirstName, key.LastName
	p.MedicalRecord, p.Firestation = nil, nil
	m.persons[key] = p
	return p, nil
}

func (m *Memory) DeletePerson(_ context.Context, key domain.PersonKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.persons[key]; !ok {
		return fmt.Errorf("person %s: %w", key, ErrNotFound)
	}
	delete(m.persons, key)
	return nil
}

func (m *Memory) CreateMedicalRecord(_ context.Context, mr domain.MedicalRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[mr.Key()]; ok {
		return fmt.Errorf("medical record %s: %w", mr.Key(), ErrAlreadyExists)
	}
	m.records[mr.Key()] = mr.Clone()
	return nil
}

func (m *Memory) UpdateMedicalRecord(_ context.Context, key domain.PersonKey, mr domain.MedicalRecord) (domain.MedicalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[key]; !ok {
		return domain.MedicalRecord{}, fmt.Errorf("medical record %s: %w", key, ErrNotFound)
	}
	mr.FirstName, mr.LastName = key.FirstName, key.LastName
	m.records[key] = mr.Clone()
	return mr, nil
}

func (m *Memory) DeleteMedicalRecord(_ context.Context, key domain.PersonKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[key]; !ok {
		return fmt.Errorf("medical record %s: %w", key, ErrNotFound)
	}
	delete(m.records, key)
	return nil
}

func (m *Memory) CreateFirestation(_ context.Context, fs domain.Firestation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.stations[fs.Address]; ok {
		return fmt.Errorf("firestation for %q: %w", fs.Address, ErrAlreadyExists)
	}
	m.stations[fs.Address] = fs
	return nil
}

// UpdateFirestation changes the station number serving address.
func (m *Memory) UpdateFirestation(_ context.Context, address string, station int) (domain.Firestation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.stations[address]; !ok {
		return domain.Firestation{}, fmt.Errorf("firestation for %q: %w", address, ErrNotFound)
	}
	fs := domain.Firestation{Address: address, Station: station}
	m.stations[address] = fs
	return fs, nil
}

func (m *Memory) DeleteFirestation(_ context.Context, address string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.stations[address]; !ok {
		return fmt.Errorf("firestation for %q: %w", address, ErrNotFound)
	}
	delete(m.stations, address)
	return nil
}

// DeleteStation removes every address mapping to station and reports how many were removed.
func (m *Memory) DeleteStation(_ context.Context, station int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for address, fs := range m.stations {
		if fs.Station == station {
			delete(m.stations, address)
			removed++
		}
	}
	if removed == 0 {
		return 0, fmt.Errorf("station %d: %w", station, ErrNotFound)
	}
	return removed, nil
}
