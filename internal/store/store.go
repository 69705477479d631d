// Package store holds the dataset behind the alerts service and hands out
// immutable, link-resolved snapshots of it.
package store

import (
	"errors"
	"sort"

	"github.com/couchcryptid/safetynet-alerts-service/internal/domain"
)

var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when creating a record whose key is taken.
	ErrAlreadyExists = errors.New("already exists")
)

// Resolve links each person to the medical record with the same name and the
// firestation mapped to their address. The result shares no memory with the
// inputs and is sorted by last name, then first name.
func Resolve(persons []domain.Person, records []domain.MedicalRecord, stations []domain.Firestation) []domain.Person {
	recordByKey := make(map[domain.PersonKey]domain.MedicalRecord, len(records))
	for _, mr := range records {
		recordByKey[mr.Key()] = mr
	}
	stationByAddress := make(map[string]domain.Firestation, len(stations))
	for _, fs := range stations {
		stationByAddress[fs.Address] = fs
	}

	out := make([]domain.Person, 0, len(persons))
	for _, p := range persons {
		p.MedicalRecord = nil
		p.Firestation = nil
		if mr, ok := recordByKey[p.Key()]; ok {
			mr = mr.Clone()
			p.MedicalRecord = &mr
		}
		if fs, ok := stationByAddress[p.Address]; ok {
			p.Firestation = &fs
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out
}
