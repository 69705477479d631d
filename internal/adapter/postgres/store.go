// Package postgres implements the alerts dataset store on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/couchcryptid/safetynet-alerts-service/internal/domain"
	"github.com/couchcryptid/safetynet-alerts-service/internal/store"
)

// Schema creates the dataset tables when missing.
const Schema = `
CREATE TABLE IF NOT EXISTS persons (
	first_name TEXT NOT NULL,
	last_name  TEXT NOT NULL,
	address    TEXT NOT NULL DEFAULT '',
	city       TEXT NOT NULL DEFAULT '',
	zip        TEXT NOT NULL DEFAULT '',
	phone      TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (first_name, last_name)
);
CREATE TABLE IF NOT EXISTS medical_records (
	first_name  TEXT NOT NULL,
	last_name   TEXT NOT NULL,
	birthdate   DATE,
	medications TEXT[] NOT NULL DEFAULT '{}',
	allergies   TEXT[] NOT NULL DEFAULT '{}',
	PRIMARY KEY (first_name, last_name)
);
CREATE TABLE IF NOT EXISTS firestations (
	address TEXT PRIMARY KEY,
	station INTEGER NOT NULL CHECK (station > 0)
);`

const (
	selectPersons  = `SELECT first_name, last_name, address, city, zip, phone, email FROM persons`
	selectRecords  = `SELECT first_name, last_name, birthdate, medications, allergies FROM medical_records`
	selectStations = `SELECT address, station FROM firestations`

	insertPerson = `INSERT INTO persons (first_name, last_name, address, city, zip, phone, email) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	updatePerson = `UPDATE persons SET address = $3, city = $4, zip = $5, phone = $6, email = $7 WHERE first_name = $1 AND last_name = $2`
	deletePerson = `DELETE FROM persons WHERE first_name = $1 AND last_name = $2`

	insertRecord = `INSERT INTO medical_records (first_name, last_name, birthdate, medications, allergies) VALUES ($1, $2, $3, $4, $5)`
	updateRecord = `UPDATE medical_records SET birthdate = $3, medications = $4, allergies = $5 WHERE first_name = $1 AND last_name = $2`
	deleteRecord = `DELETE FROM medical_records WHERE first_name = $1 AND last_name = $2`

	insertStation        = `INSERT INTO firestations (address, station) VALUES ($1, $2)`
	updateStation        = `UPDATE firestations SET station = $2 WHERE address = $1`
	deleteStationAddress = `DELETE FROM firestations WHERE address = $1`
	deleteStationNumber  = `DELETE FROM firestations WHERE station = $1`
)

// uniqueViolation is the PostgreSQL SQLSTATE for duplicate keys.
const uniqueViolation = "23505"

// Open connects to PostgreSQL, applies pool limits, and verifies the connection.
func Open(ctx context.Context, dsn string, maxConns int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(maxConns)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Store reads and writes the dataset tables.
type Store struct {
	db *sql.DB
}

// New wraps an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the dataset tables.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Snapshot loads all three tables inside one read-only transaction and
// resolves person links.
func (s *Store) Snapshot(ctx context.Context) ([]domain.Person, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // read-only transaction

	persons, err := queryPersons(ctx, tx)
	if err != nil {
		return nil, err
	}
	records, err := queryRecords(ctx, tx)
	if err != nil {
		return nil, err
	}
	stations, err := queryStations(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit snapshot: %w", err)
	}
	return store.Resolve(persons, records, stations), nil
}

func queryPersons(ctx context.Context, tx *sql.Tx) ([]domain.Person, error) {
	rows, err := tx.QueryContext(ctx, selectPersons)
	if err != nil {
		return nil, fmt.Errorf("query persons: %w", err)
	}
	defer rows.Close()

	var out []domain.Person
	for rows.Next() {
		var p domain.Person
		if err := rows.Scan(&p.FirstName, &p.LastName, &p.Address, &p.City, &p.Zip, &p.Phone, &p.Email); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func queryRecords(ctx context.Context, tx *sql.Tx) ([]domain.MedicalRecord, error) {
	rows, err := tx.QueryContext(ctx, selectRecords)
	if err != nil {
		return nil, fmt.Errorf("query medical records: %w", err)
	}
	defer rows.Close()

	var out []domain.MedicalRecord
	for rows.Next() {
		var (
			mr    domain.MedicalRecord
			birth sql.NullTime
		)
		if err := rows.Scan(&mr.FirstName, &mr.LastName, &birth, pq.Array(&mr.Medications), pq.Array(&mr.Allergies)); err != nil {
			return nil, fmt.Errorf("scan medical record: %w", err)
		}
		if birth.Valid {
			mr.Birthdate = birth.Time.UTC()
		}
		out = append(out, mr)
	}
	return out, rows.Err()
}

func queryStations(ctx context.Context, tx *sql.Tx) ([]domain.Firestation, error) {
	rows, err := tx.QueryContext(ctx, selectStations)
	if err != nil {
		return nil, fmt.Errorf("query firestations: %w", err)
	}
	defer rows.Close()

	var out []domain.Firestation
	for rows.Next() {
		var fs domain.Firestation
		if err := rows.Scan(&fs.Address, &fs.Station); err != nil {
			return nil, fmt.Errorf("scan firestation: %w", err)
		}
		out = append(out, fs)
	}
	return out, rows.Err()
}

func (s *Store) CreatePerson(ctx context.Context, p domain.Person) error {
	_, err := s.db.ExecContext(ctx, insertPerson, p.FirstName, p.LastName, p.Address, p.City, p.Zip, p.Phone, p.Email)
	return insertErr(err, "person "+p.Key().String())
}

func (s *Store) UpdatePerson(ctx context.Context, key domain.PersonKey, p domain.Person) (domain.Person, error) {
	p.FirstName, p.LastName = key.FirstName, key.LastName
	p.MedicalRecord, p.Firestation = nil, nil
	res, err := s.db.ExecContext(ctx, updatePerson, key.FirstName, key.LastName, p.Address, p.City, p.Zip, p.Phone, p.Email)
	if err := affectedErr(res, err, "person "+key.String()); err != nil {
		return domain.Person{}, err
	}
	return p, nil
}

func (s *Store) DeletePerson(ctx context.Context, key domain.PersonKey) error {
	res, err := s.db.ExecContext(ctx, deletePerson, key.FirstName, key.LastName)
	return affectedErr(res, err, "person "+key.String())
}

func (s *Store) CreateMedicalRecord(ctx context.Context, mr domain.MedicalRecord) error {
	_, err := s.db.ExecContext(ctx, insertRecord, mr.FirstName, mr.LastName, nullDate(mr.Birthdate),
		pq.Array(nonNil(mr.Medications)), pq.Array(nonNil(mr.Allergies)))
	return insertErr(err, "medical record "+mr.Key().String())
}

func (s *Store) UpdateMedicalRecord(ctx context.Context, key domain.PersonKey, mr domain.MedicalRecord) (domain.MedicalRecord, error) {
	mr.FirstName, mr.LastName = key.FirstName, key.LastName
	res, err := s.db.ExecContext(ctx, updateRecord, key.FirstName, key.LastName, nullDate(mr.Birthdate),
		pq.Array(nonNil(mr.Medications)), pq.Array(nonNil(mr.Allergies)))
	if err := affectedErr(res, err, "medical record "+key.String()); err != nil {
		return domain.MedicalRecord{}, err
	}
	return mr, nil
}

func (s *Store) DeleteMedicalRecord(ctx context.Context, key domain.PersonKey) error {
	res, err := s.db.ExecContext(ctx, deleteRecord, key.FirstName, key.LastName)
	return affectedErr(res, err, "medical record "+key.String())
}

func (s *Store) CreateFirestation(ctx context.Context, fs domain.Firestation) error {
	_, err := s.db.ExecContext(ctx, insertStation, fs.Address, fs.Station)
	return insertErr(err, fmt.Sprintf("firestation for %q", fs.Address))
}

func (s *Store) UpdateFirestation(ctx context.Context, address string, station int) (domain.Firestation, error) {
	res, err := s.db.ExecContext(ctx, updateStation, address, station)
	if err := affectedErr(res, err, fmt.Sprintf("firestation for %q", address)); err != nil {
		return domain.Firestation{}, err
	}
	return domain.Firestation{Address: address, Station: station}, nil
}

func (s *Store) DeleteFirestation(ctx context.Context, address string) error {
	res, err := s.db.ExecContext(ctx, deleteStationAddress, address)
	return affectedErr(res, err, fmt.Sprintf("firestation for %q", address))
}

func (s *Store) DeleteStation(ctx context.Context, station int) (int, error) {
	res, err := s.db.ExecContext(ctx, deleteStationNumber, station)
	if err != nil {
		return 0, fmt.Errorf("delete station %d: %w", station, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete station %d: %w", station, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("station %d: %w", station, store.ErrNotFound)
	}
	return int(n), nil
}

func insertErr(err error, what string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", what, store.ErrAlreadyExists)
	}
	return fmt.Errorf("insert %s: %w", what, err)
}

func affectedErr(res sql.Result, err error, what string) error {
	if err != nil {
		return fmt.Errorf("write %s: %w", what, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write %s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, store.ErrNotFound)
	}
	return nil
}

func nullDate(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
