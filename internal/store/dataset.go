package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/safetynet-alerts-service/internal/domain"
)

// Format is the encoding of a dataset file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks the dataset format from a file extension. Anything other
// than .yaml or .yml is treated as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Dataset is the on-disk seed file: three flat arrays linked by name and address.
type Dataset struct {
	Persons        []domain.Person      `json:"persons" yaml:"persons"`
	Firestations   []FirestationEntry   `json:"firestations" yaml:"firestations"`
	MedicalRecords []MedicalRecordEntry `json:"medicalrecords" yaml:"medicalrecords"`
}

// FirestationEntry is a raw address → station line.
type FirestationEntry struct {
	Address string        `json:"address" yaml:"address"`
	Station StationNumber `json:"station" yaml:"station"`
}

// MedicalRecordEntry is a raw medical record with an unparsed birth date.
type MedicalRecordEntry struct {
	FirstName   string   `json:"firstName" yaml:"firstName"`
	LastName    string   `json:"lastName" yaml:"lastName"`
	Birthdate   string   `json:"birthdate" yaml:"birthdate"`
	Medications []string `json:"medications" yaml:"medications"`
	Allergies   []string `json:"allergies" yaml:"allergies"`
}

// StationNumber accepts either a quoted ("3") or bare (3) station number.
type StationNumber int

func (s *StationNumber) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		return s.parse(str)
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("station number: %w", err)
	}
	*s = StationNumber(n)
	return nil
}

func (s *StationNumber) UnmarshalYAML(value *yaml.Node) error {
	return s.parse(value.Value)
}

func (s *StationNumber) parse(str string) error {
	n, err := strconv.Atoi(strings.TrimSpace(str))
	if err != nil {
		return fmt.Errorf("station number %q: %w", str, err)
	}
	*s = StationNumber(n)
	return nil
}

// LoadDataset reads and decodes the dataset file at path.
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return DecodeDataset(f, FormatFor(path))
}

// DecodeDataset decodes a dataset in the given format.
func DecodeDataset(r io.Reader, format Format) (*Dataset, error) {
	var ds Dataset
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&ds); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml dataset: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&ds); err != nil {
			return nil, fmt.Errorf("decode json dataset: %w", err)
		}
	}
	return &ds, nil
}

// Entities converts the raw dataset into domain records. It fails on the
// first unparsable birth date or non-positive station number.
func (d *Dataset) Entities() ([]domain.Person, []domain.MedicalRecord, []domain.Firestation, error) {
	records := make([]domain.MedicalRecord, 0, len(d.MedicalRecords))
	for _, e := range d.MedicalRecords {
		mr, err := e.Record()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("medical record %s %s: %w", e.FirstName, e.LastName, err)
		}
		records = append(records, mr)
	}

	stations := make([]domain.Firestation, 0, len(d.Firestations))
	for _, e := range d.Firestations {
		if e.Station <= 0 {
			return nil, nil, nil, fmt.Errorf("firestation %q: station must be positive, got %d", e.Address, e.Station)
		}
		stations = append(stations, domain.Firestation{Address: e.Address, Station: int(e.Station)})
	}

	persons := make([]domain.Person, len(d.Persons))
	copy(persons, d.Persons)

	return persons, records, stations, nil
}

// Record parses the entry into a domain medical record.
func (e MedicalRecordEntry) Record() (domain.MedicalRecord, error) {
	birth, err := domain.ParseBirthdate(e.Birthdate)
	if err != nil {
		return domain.MedicalRecord{}, err
	}
	return domain.MedicalRecord{
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		Birthdate:   birth,
		Medications: e.Medications,
		Allergies:   e.Allergies,
	}, nil
}
