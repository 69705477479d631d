package domain

import (
	"sort"
	"time"
)

// MedicalSummary is the medical part of a projection.
type MedicalSummary struct {
	Age         int      `json:"age"`
	Medications []string `json:"medications"`
	Allergies   []string `json:"allergies"`
}

// PersonInfo answers /personInfo.
type PersonInfo struct {
	FirstName     string          `json:"firstName"`
	LastName      string          `json:"lastName"`
	Address       string          `json:"address"`
	Email         string          `json:"email"`
	MedicalRecord *MedicalSummary `json:"medicalRecord"`
}

// FamilyMember is one entry of a Family.
type FamilyMember struct {
	FirstName     string          `json:"firstName"`
	LastName      string          `json:"lastName"`
	Phone         string          `json:"phone"`
	Age           *int            `json:"age"`
	MedicalRecord *MedicalSummary `json:"medicalRecord,omitempty"`
}

// Family splits the residents of one address into children and adults.
type Family struct {
	Children []FamilyMember `json:"children"`
	Adults   []FamilyMember `json:"adults"`
}

// PersonFirestation is a resident as seen by the station serving them.
type PersonFirestation struct {
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Phone       string   `json:"phone"`
	Station     *int     `json:"station"`
	Age         *int     `json:"age"`
	Medications []string `json:"medications"`
	Allergies   []string `json:"allergies"`
}

// PersonSummary is the contact view of a person used in station coverage.
type PersonSummary struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
}

// StationCoverage lists the persons served by a station with adult/child counts.
type StationCoverage struct {
	Persons        []PersonSummary `json:"persons"`
	AdultNumber    int             `json:"adultNumber"`
	ChildrenNumber int             `json:"childrenNumber"`
}

// medicalSummary returns nil when the person has no usable medical record.
func medicalSummary(p Person, now time.Time) *MedicalSummary {
	age, ok := ageOf(p, now)
	if !ok {
		return nil
	}
	return &MedicalSummary{
		Age:         age,
		Medications: nonNil(cloneStrings(p.MedicalRecord.Medications)),
		Allergies:   nonNil(cloneStrings(p.MedicalRecord.Allergies)),
	}
}

// NewPersonInfo projects p for /personInfo.
func NewPersonInfo(p Person, now time.Time) PersonInfo {
	return PersonInfo{
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Address:       p.Address,
		Email:         p.Email,
		MedicalRecord: medicalSummary(p, now),
	}
}

// NewFamilyMember projects p as a member of a household.
func NewFamilyMember(p Person, now time.Time) FamilyMember {
	fm := FamilyMember{
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Phone:         p.Phone,
		MedicalRecord: medicalSummary(p, now),
	}
	if fm.MedicalRecord != nil {
		age := fm.MedicalRecord.Age
		fm.Age = &age
	}
	return fm
}

// NewPersonFirestation projects p for station routing. Missing links leave
// the corresponding fields empty.
func NewPersonFirestation(p Person, now time.Time) PersonFirestation {
	pf := PersonFirestation{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Phone:       p.Phone,
		Medications: []string{},
		Allergies:   []string{},
	}
	if p.Firestation != nil {
		station := p.Firestation.Station
		pf.Station = &station
	}
	if ms := medicalSummary(p, now); ms != nil {
		pf.Age = &ms.Age
		pf.Medications = ms.Medications
		pf.Allergies = ms.Allergies
	}
	return pf
}

// NewPersonSummary projects p to its contact fields.
func NewPersonSummary(p Person) PersonSummary {
	return PersonSummary{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Address:   p.Address,
		Phone:     p.Phone,
	}
}

// uniqueByKey drops later duplicates of the same identity key and sorts the
// remainder by last name, then first name.
func uniqueByKey(persons []Person) []Person {
	seen := make(map[PersonKey]struct{}, len(persons))
	out := make([]Person, 0, len(persons))
	for _, p := range persons {
		if _, dup := seen[p.Key()]; dup {
			continue
		}
		seen[p.Key()] = struct{}{}
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

// stringSet returns the sorted distinct non-empty values.
func stringSet(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
