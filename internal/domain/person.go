package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// BirthdateLayout is the reference layout for birth dates in the dataset.
const BirthdateLayout = "01/02/2006"

// PersonKey identifies a person (and their medical record) by name.
type PersonKey struct {
	FirstName string
	LastName  string
}

func (k PersonKey) String() string {
	return k.FirstName + " " + k.LastName
}

// Valid reports whether both name parts are set.
func (k PersonKey) Valid() bool {
	return strings.TrimSpace(k.FirstName) != "" && strings.TrimSpace(k.LastName) != ""
}

// Person is a resident of the covered area.
type Person struct {
	FirstName string `json:"firstName" yaml:"firstName"`
	LastName  string `json:"lastName" yaml:"lastName"`
	Address   string `json:"address" yaml:"address"`
	City      string `json:"city" yaml:"city"`
	Zip       string `json:"zip" yaml:"zip"`
	Phone     string `json:"phone" yaml:"phone"`
	Email     string `json:"email" yaml:"email"`

	// Resolved links, populated in snapshots only.
	MedicalRecord *MedicalRecord `json:"-" yaml:"-"`
	Firestation   *Firestation   `json:"-" yaml:"-"`
}

// Key returns the person's identity key.
func (p Person) Key() PersonKey {
	return PersonKey{FirstName: p.FirstName, LastName: p.LastName}
}

// Clone returns a deep copy, including linked records.
func (p Person) Clone() Person {
	if p.MedicalRecord != nil {
		mr := p.MedicalRecord.Clone()
		p.MedicalRecord = &mr
	}
	if p.Firestation != nil {
		fs := *p.Firestation
		p.Firestation = &fs
	}
	return p
}

// MedicalRecord holds a person's birth date and ordered treatment lists.
type MedicalRecord struct {
	FirstName   string
	LastName    string
	Birthdate   time.Time
	Medications []string
	Allergies   []string
}

// Key returns the key of the person owning this record.
func (m MedicalRecord) Key() PersonKey {
	return PersonKey{FirstName: m.FirstName, LastName: m.LastName}
}

// Clone returns a copy that shares no slices with m.
func (m MedicalRecord) Clone() MedicalRecord {
	m.Medications = cloneStrings(m.Medications)
	m.Allergies = cloneStrings(m.Allergies)
	return m
}

type medicalRecordJSON struct {
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Birthdate   string   `json:"birthdate"`
	Medications []string `json:"medications"`
	Allergies   []string `json:"allergies"`
}

// MarshalJSON writes the birth date in BirthdateLayout.
func (m MedicalRecord) MarshalJSON() ([]byte, error) {
	out := medicalRecordJSON{
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Medications: nonNil(m.Medications),
		Allergies:   nonNil(m.Allergies),
	}
	if !m.Birthdate.IsZero() {
		out.Birthdate = m.Birthdate.Format(BirthdateLayout)
	}
	return json.Marshal(out)
}

// UnmarshalJSON parses a birth date in BirthdateLayout.
func (m *MedicalRecord) UnmarshalJSON(data []byte) error {
	var in medicalRecordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	birth, err := ParseBirthdate(in.Birthdate)
	if err != nil {
		return err
	}
	*m = MedicalRecord{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Birthdate:   birth,
		Medications: in.Medications,
		Allergies:   in.Allergies,
	}
	return nil
}

// ParseBirthdate parses "MM/DD/YYYY". An empty string yields the zero time.
func ParseBirthdate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(BirthdateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse birthdate %q: %w", s, err)
	}
	return t, nil
}

// Firestation maps an address to the station number serving it.
type Firestation struct {
	Address string `json:"address" yaml:"address"`
	Station int    `json:"station" yaml:"station"`
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
