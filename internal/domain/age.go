package domain

import "time"

// AdultAge is the age from which a person counts as an adult.
const AdultAge = 18

// AgeAt returns the number of whole years between birth and now.
// Future birth dates yield 0.
func AgeAt(birth, now time.Time) int {
	if birth.IsZero() || now.Before(birth) {
		return 0
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// IsChild reports whether age falls below AdultAge.
func IsChild(age int) bool {
	return age < AdultAge
}

// ageOf returns the person's age and whether it could be derived.
func ageOf(p Person, now time.Time) (int, bool) {
	if p.MedicalRecord == nil || p.MedicalRecord.Birthdate.IsZero() {
		return 0, false
	}
	return AgeAt(p.MedicalRecord.Birthdate, now), true
}
