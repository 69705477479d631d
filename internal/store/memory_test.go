package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/safetynet-alerts-service/internal/domain"
)

var johnBoyd = domain.PersonKey{FirstName: "John", LastName: "Boyd"}

func seededMemory(t *testing.T) *Memory {
	t.Helper()
	ds, err := LoadDataset("testdata/data.json")
	require.NoError(t, err)
	m, err := NewMemoryFromDataset(ds)
	require.NoError(t, err)
	return m
}

func findPerson(persons []domain.Person, key domain.PersonKey) (domain.Person, bool) {
	for _, p := range persons {
		if p.Key() == key {
			return p, true
		}
	}
	return domain.Person{}, false
}

func TestMemory_SnapshotResolvesLinks(t *testing.T) {
	m := seededMemory(t)

	persons, err := m.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, persons, 5)

	john, ok := findPerson(persons, johnBoyd)
	require.True(t, ok)
	require.NotNil(t, john.MedicalRecord)
	assert.Equal(t, []string{"nillacilan"}, john.MedicalRecord.Allergies)
	require.NotNil(t, john.Firestation)
	assert.Equal(t, 3, john.Firestation.Station)

	eric, ok := findPerson(persons, domain.PersonKey{FirstName: "Eric", LastName: "Cadigan"})
	require.True(t, ok)
	assert.Nil(t, eric.MedicalRecord)
	require.NotNil(t, eric.Firestation)
	assert.Equal(t, 2, eric.Firestation.Station)
}

func TestMemory_SnapshotIsSorted(t *testing.T) {
	persons, err := seededMemory(t).Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Jacob", persons[0].FirstName)
	assert.Equal(t, "Boyd", persons[0].LastName)
	assert.Equal(t, "Marrack", persons[len(persons)-1].LastName)
}

func TestMemory_SnapshotIsIsolatedFromMutations(t *testing.T) {
	ctx := context.Background()
	m := seededMemory(t)

	before, err := m.Snapshot(ctx)
	require.NoError(t, err)
	john, _ := findPerson(before, johnBoyd)
	john.MedicalRecord.Medications[0] = "tampered"

	_, err = m.UpdateMedicalRecord(ctx, johnBoyd, domain.MedicalRecord{Birthdate: time.Date(1984, 3, 6, 0, 0, 0, 0, time.UTC), Medications: []string{"new"}})
	require.NoError(t, err)

	after, err := m.Snapshot(ctx)
	require.NoError(t, err)
	john, _ = findPerson(after, johnBoyd)
	assert.Equal(t, []string{"new"}, john.MedicalRecord.Medications)

	john, _ = findPerson(before, johnBoyd)
	assert.Equal(t, "tampered", john.MedicalRecord.Medications[0])
}

func TestMemory_PersonCRUD(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	p := domain.Person{FirstName: "Dayle", LastName: "Xeyb", Address: "Univers 10", City: "Poitiers"}

	require.NoError(t, m.CreatePerson(ctx, p))
	assert.ErrorIs(t, m.CreatePerson(ctx, p), ErrAlreadyExists)

	updated, err := m.UpdatePerson(ctx, p.Key(), domain.Person{FirstName: "Other", Address: "rue de paris", City: "Paris"})
	require.NoError(t, err)
	assert.Equal(t, "Dayle", updated.FirstName, "names are not updatable")
	assert.Equal(t, "rue de paris", updated.Address)

	_, err = m.UpdatePerson(ctx, domain.PersonKey{FirstName: "No", LastName: "One"}, p)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.DeletePerson(ctx, p.Key()))
	assert.ErrorIs(t, m.DeletePerson(ctx, p.Key()), ErrNotFound)

	persons, err := m.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, persons)
}

func TestMemory_MedicalRecordCRUD(t *testing.T) {
	ctx := context.Background()
	m := seededMemory(t)
	key := domain.PersonKey{FirstName: "Eric", LastName: "Cadigan"}
	mr := domain.MedicalRecord{FirstName: key.FirstName, LastName: key.LastName, Birthdate: time.Date(1945, 8, 6, 0, 0, 0, 0, time.UTC)}

	require.NoError(t, m.CreateMedicalRecord(ctx, mr))
	assert.ErrorIs(t, m.CreateMedicalRecord(ctx, mr), ErrAlreadyExists)

	persons, err := m.Snapshot(ctx)
	require.NoError(t, err)
	eric, _ := findPerson(persons, key)
	require.NotNil(t, eric.MedicalRecord)

	require.NoError(t, m.DeleteMedicalRecord(ctx, key))
	assert.ErrorIs(t, m.DeleteMedicalRecord(ctx, key), ErrNotFound)
	_, err = m.UpdateMedicalRecord(ctx, key, mr)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_FirestationCRUD(t *testing.T) {
	ctx := context.Background()
	m := seededMemory(t)

	assert.ErrorIs(t, m.CreateFirestation(ctx, domain.Firestation{Address: "1509 Culver St", Station: 1}), ErrAlreadyExists)
	require.NoError(t, m.CreateFirestation(ctx, domain.Firestation{Address: "834 Binoc Ave", Station: 3}))

	fs, err := m.UpdateFirestation(ctx, "1509 Culver St", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, fs.Station)
	_, err = m.UpdateFirestation(ctx, "nowhere", 4)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.DeleteFirestation(ctx, "834 Binoc Ave"))
	assert.ErrorIs(t, m.DeleteFirestation(ctx, "834 Binoc Ave"), ErrNotFound)

	removed, err := m.DeleteStation(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	_, err = m.DeleteStation(ctx, 2)
	assert.ErrorIs(t, err, ErrNotFound)

	persons, err := m.Snapshot(ctx)
	require.NoError(t, err)
	eric, _ := findPerson(persons, domain.PersonKey{FirstName: "Eric", LastName: "Cadigan"})
	assert.Nil(t, eric.Firestation)
}

func TestMemory_ConcurrentReadsAndWrites(t *testing.T) {
	ctx := context.Background()
	m := seededMemory(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := m.Snapshot(ctx)
			assert.NoError(t, err)
		}()
		go func(i int) {
			defer wg.Done()
			_, err := m.UpdateFirestation(ctx, "29 15th St", i+1)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	persons, err := m.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, persons, 5)
}

func TestResolve_DoesNotAliasInputs(t *testing.T) {
	records := []domain.MedicalRecord{{FirstName: "A", LastName: "B", Medications: []string{"x"}}}
	persons := Resolve([]domain.Person{{FirstName: "A", LastName: "B"}}, records, nil)

	persons[0].MedicalRecord.Medications[0] = "y"

	assert.Equal(t, "x", records[0].Medications[0])
	assert.Nil(t, persons[0].Firestation)
}
