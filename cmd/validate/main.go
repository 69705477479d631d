// Command validate checks a SafetyNet dataset file for integrity problems
// before it is used to seed the alerts service: duplicate keys, records that
// link to nobody, residents the alert queries cannot classify or route, and
// values that fail to parse.
//
// Usage:
//
//	go run ./cmd/validate -data data/data.json
//	go run ./cmd/validate -data data/data.yaml -as-of 2024-04-26
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/safetynet-alerts-service/internal/domain"
	"github.com/couchcryptid/safetynet-alerts-service/internal/store"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataPath := flag.String("data", "", "path to the dataset file (.json, .yaml or .yml)")
	asOf := flag.String("as-of", "", "evaluate ages as of this date (YYYY-MM-DD); defaults to today")
	flag.Parse()

	if *dataPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	clock := clockwork.NewRealClock()
	if *asOf != "" {
		t, err := time.Parse(time.DateOnly, *asOf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: parse -as-of: %v\n", err)
			os.Exit(1)
		}
		clock = clockwork.NewFakeClockAt(t)
	}

	if code := run(os.Stdout, *dataPath, clock); code != 0 {
		os.Exit(code)
	}
}

func run(w io.Writer, path string, clock clockwork.Clock) int {
	fmt.Fprintln(w, "=== SafetyNet Dataset Validation ===")
	fmt.Fprintln(w)

	ds, err := store.LoadDataset(path)
	if err != nil {
		fmt.Fprintf(w, "FATAL: load dataset: %v\n", err)
		return 1
	}
	now := clock.Now()

	phases := []*phase{
		validateKeys(ds),
		validateValues(ds, now),
		validateLinks(ds),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d persons, %d medical records, %d firestation mappings (as of %s)\n",
		len(ds.Persons), len(ds.MedicalRecords), len(ds.Firestations), now.Format(time.DateOnly))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

// ── Phase 1: Keys ──
// Every person, medical record, and mapped address must be unique.

func validateKeys(ds *store.Dataset) *phase {
	p := &phase{name: "Phase 1: Unique Keys"}

	persons := make(map[domain.PersonKey]int)
	for i, person := range ds.Persons {
		k := person.Key()
		if !k.Valid() {
			p.errorf("person %d: firstName and lastName are required", i)
			continue
		}
		if first, dup := persons[k]; dup {
			p.errorf("person %d: duplicate of person %d (%s)", i, first, k)
			continue
		}
		persons[k] = i
	}

	records := make(map[domain.PersonKey]int)
	for i, e := range ds.MedicalRecords {
		k := domain.PersonKey{FirstName: e.FirstName, LastName: e.LastName}
		if !k.Valid() {
			p.errorf("medical record %d: firstName and lastName are required", i)
			continue
		}
		if first, dup := records[k]; dup {
			p.errorf("medical record %d: duplicate of medical record %d (%s)", i, first, k)
			continue
		}
		records[k] = i
	}

	addresses := make(map[string]store.StationNumber)
	for i, e := range ds.Firestations {
		if e.Address == "" {
			p.errorf("firestation %d: address is required", i)
			continue
		}
		if station, dup := addresses[e.Address]; dup {
			p.errorf("firestation %d: %q already mapped to station %d (now %d)", i, e.Address, station, e.Station)
			continue
		}
		addresses[e.Address] = e.Station
	}
	return p
}

// ── Phase 2: Values ──
// Birth dates must parse and lie in the past; station numbers must be positive.

func validateValues(ds *store.Dataset, now time.Time) *phase {
	p := &phase{name: "Phase 2: Field Values"}

	for i, e := range ds.MedicalRecords {
		mr, err := e.Record()
		if err != nil {
			p.errorf("medical record %d (%s %s): %v", i, e.FirstName, e.LastName, err)
			continue
		}
		if mr.Birthdate.IsZero() {
			p.errorf("medical record %d (%s): birthdate is missing", i, mr.Key())
		} else if mr.Birthdate.After(now) {
			p.errorf("medical record %d (%s): birthdate %s is in the future", i, mr.Key(), e.Birthdate)
		}
	}

	for i, e := range ds.Firestations {
		if e.Station <= 0 {
			p.errorf("firestation %d (%q): station must be positive, got %d", i, e.Address, e.Station)
		}
	}
	return p
}

// ── Phase 3: Links ──
// Records must belong to a person, and every person must be classifiable by
// age and reachable from a station.

func validateLinks(ds *store.Dataset) *phase {
	p := &phase{name: "Phase 3: Cross-References"}

	persons := make(map[domain.PersonKey]bool, len(ds.Persons))
	for _, person := range ds.Persons {
		persons[person.Key()] = true
	}
	records := make(map[domain.PersonKey]bool, len(ds.MedicalRecords))
	for _, e := range ds.MedicalRecords {
		k := domain.PersonKey{FirstName: e.FirstName, LastName: e.LastName}
		records[k] = true
		if !persons[k] {
			p.errorf("medical record %s: no matching person", k)
		}
	}
	served := make(map[string]bool, len(ds.Firestations))
	for _, e := range ds.Firestations {
		served[e.Address] = true
	}

	reported := make(map[domain.PersonKey]bool, len(ds.Persons))
	for _, person := range ds.Persons {
		k := person.Key()
		if reported[k] {
			continue
		}
		reported[k] = true
		if !records[k] {
			p.errorf("person %s: no medical record", k)
		}
		if !served[person.Address] {
			p.errorf("person %s: address %q has no firestation", k, person.Address)
		}
	}
	return p
}
