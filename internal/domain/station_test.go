package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhonesByStation(t *testing.T) {
	p2 := person2()
	p2.Phone = testPhone
	persons := []Person{
		withStation(person1(), 1),
		withStation(p2, 1),
		withStation(person3(), 2),
	}

	assert.Equal(t, []string{testPhone}, PhonesByStation(1, persons))
	assert.Equal(t, []string{"06-55-66-77-88"}, PhonesByStation(2, persons))
}

func TestPhonesByStation_NoMatch(t *testing.T) {
	persons := []Person{withStation(person1(), 1), person2()}

	phones := PhonesByStation(9, persons)

	assert.NotNil(t, phones)
	assert.Empty(t, phones)
}

func TestPersonsByStationNumbers(t *testing.T) {
	persons := []Person{
		withStation(withRecord(person1(), birth(1984, 3, 6), nil, nil), 1),
		withStation(withRecord(person2(), birth(1989, 1, 2), nil, nil), 2),
		withStation(withRecord(at(person3(), "rue de paris"), birth(2015, 9, 6), nil, nil), 2),
		withStation(Person{FirstName: "Far", LastName: "Away", Address: "elsewhere"}, 4),
	}

	groups := PersonsByStationNumbers([]int{1, 2}, persons, testNow)

	require.Len(t, groups, 2)
	assert.Len(t, groups[testAddress], 1)
	require.Len(t, groups["rue de paris"], 2)
	assert.Equal(t, "Lou", groups["rue de paris"][0].FirstName)
	assert.Equal(t, 8, *groups["rue de paris"][0].Age)

	assert.Empty(t, PersonsByStationNumbers(nil, persons, testNow))
}

func TestCoverageByStation(t *testing.T) {
	persons := household()
	for i := range persons {
		persons[i] = withStation(persons[i], 1)
	}
	persons = append(persons, withStation(person2(), 2))

	coverage := CoverageByStation(1, persons, testNow)

	assert.Len(t, coverage.Persons, 3)
	assert.Equal(t, 2, coverage.AdultNumber)
	assert.Equal(t, 1, coverage.ChildrenNumber)
	assert.Equal(t, len(coverage.Persons), coverage.AdultNumber+coverage.ChildrenNumber)
}

func TestCoverageByStation_ListsButDoesNotCountUnclassified(t *testing.T) {
	persons := []Person{
		withStation(withRecord(person1(), birth(1984, 3, 6), nil, nil), 1),
		withStation(person2(), 1),
	}

	coverage := CoverageByStation(1, persons, testNow)

	assert.Len(t, coverage.Persons, 2)
	assert.Equal(t, 1, coverage.AdultNumber)
	assert.Equal(t, 0, coverage.ChildrenNumber)
}

func TestCoverageByStation_UnknownStation(t *testing.T) {
	coverage := CoverageByStation(7, household(), testNow)

	assert.NotNil(t, coverage.Persons)
	assert.Empty(t, coverage.Persons)
	assert.Zero(t, coverage.AdultNumber)
	assert.Zero(t, coverage.ChildrenNumber)
}
