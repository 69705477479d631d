package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(members []FamilyMember) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, m.FirstName)
	}
	return out
}

func TestFamilyAt(t *testing.T) {
	family := FamilyAt(testAddress, household(), testNow)

	assert.Equal(t, []string{"Lou"}, names(family.Children))
	assert.ElementsMatch(t, []string{"Dayle", "Marie"}, names(family.Adults))

	require.NotNil(t, family.Children[0].Age)
	assert.Equal(t, 8, *family.Children[0].Age)
	require.NotNil(t, family.Children[0].MedicalRecord)
	assert.Equal(t, []string{"peanut"}, family.Children[0].MedicalRecord.Allergies)
}

func TestFamilyAt_PartitionIsDisjoint(t *testing.T) {
	persons := append(household(), household()...)
	family := FamilyAt(testAddress, persons, testNow)

	seen := map[string]bool{}
	for _, m := range append(family.Children, family.Adults...) {
		key := m.FirstName + " " + m.LastName
		assert.False(t, seen[key], "%s listed twice", key)
		seen[key] = true
	}
	assert.Len(t, seen, 3)
}

func TestFamilyAt_ExcludesPersonsWithoutMedicalRecord(t *testing.T) {
	persons := append(household(), Person{FirstName: "Ghost", LastName: "Xeyb", Address: testAddress})

	family := FamilyAt(testAddress, persons, testNow)

	assert.NotContains(t, names(family.Children), "Ghost")
	assert.NotContains(t, names(family.Adults), "Ghost")
	assert.Len(t, family.Children, 1)
	assert.Len(t, family.Adults, 2)
}

func TestFamilyAt_UnknownAddress(t *testing.T) {
	family := FamilyAt("nowhere", household(), testNow)

	assert.NotNil(t, family.Children)
	assert.NotNil(t, family.Adults)
	assert.Empty(t, family.Children)
	assert.Empty(t, family.Adults)
}

func TestEmailsByCity(t *testing.T) {
	p2 := person2()
	p2.City = testCity
	p3 := person3()
	p3.City = testCity
	p3.Email = p2.Email
	persons := []Person{person1(), p2, p3, {City: testCity}}

	emails := EmailsByCity(testCity, persons)

	assert.Equal(t, []string{"d.xeyb@mail.com", "m.xeyb@mail.com"}, emails)
	assert.Equal(t, emails, EmailsByCity(testCity, append(persons, persons...)))
	assert.Empty(t, EmailsByCity("Quimper", persons))
}

func TestGroupByAddress(t *testing.T) {
	persons := []Person{
		withStation(person1(), 1),
		withStation(person2(), 2),
		withStation(at(person3(), "rue de paris"), 2),
		withStation(person1(), 1),
	}

	groups := GroupByAddress(persons, testNow)

	require.Len(t, groups, 2)
	assert.Len(t, groups[testAddress], 1)
	assert.Len(t, groups["rue de paris"], 2)
}

func TestGroupByAddress_Empty(t *testing.T) {
	groups := GroupByAddress(nil, testNow)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestGroupByAddress_MissingLinks(t *testing.T) {
	groups := GroupByAddress([]Person{person1()}, testNow)

	want := []PersonFirestation{{
		FirstName:   "Dayle",
		LastName:    "Xeyb",
		Phone:       testPhone,
		Medications: []string{},
		Allergies:   []string{},
	}}
	if diff := cmp.Diff(want, groups[testAddress]); diff != "" {
		t.Errorf("projection mismatch (-want +got):\n%s", diff)
	}
}

func TestPersonsAt(t *testing.T) {
	persons := household()
	persons = append(persons, withRecord(person2(), birth(1970, 1, 1), nil, nil))
	for i := range persons {
		persons[i] = withStation(persons[i], 3)
	}

	got := PersonsAt(testAddress, persons, testNow)

	require.Len(t, got, 3)
	for _, pf := range got {
		require.NotNil(t, pf.Station)
		assert.Equal(t, 3, *pf.Station)
		require.NotNil(t, pf.Age)
	}
	assert.Equal(t, "Dayle", got[0].FirstName)
	assert.Equal(t, []string{"aznol:350mg", "hydrapermazol:100mg"}, got[0].Medications)
}

func TestPersonInfoFor(t *testing.T) {
	info, ok := PersonInfoFor(PersonKey{FirstName: "Dayle", LastName: "Xeyb"}, household(), testNow)

	require.True(t, ok)
	assert.Equal(t, testAddress, info.Address)
	assert.Equal(t, "d.xeyb@mail.com", info.Email)
	require.NotNil(t, info.MedicalRecord)
	assert.Equal(t, 40, info.MedicalRecord.Age)
	assert.Equal(t, []string{"nillacilan"}, info.MedicalRecord.Allergies)

	_, ok = PersonInfoFor(PersonKey{FirstName: "John", LastName: "Boyd"}, household(), testNow)
	assert.False(t, ok)
}

func TestProjections_DoNotAliasSource(t *testing.T) {
	persons := household()
	info, ok := PersonInfoFor(persons[0].Key(), persons, testNow)
	require.True(t, ok)

	info.MedicalRecord.Medications[0] = "changed"

	assert.Equal(t, "aznol:350mg", persons[0].MedicalRecord.Medications[0])
}
