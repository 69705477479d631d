package domain

import "time"

const (
	testAddress = "Univers 10"
	testCity    = "Poitiers"
	testPhone   = "07-67-61-03-49"
)

var testNow = time.Date(2024, time.April, 26, 12, 0, 0, 0, time.UTC)

func birth(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func person1() Person {
	return Person{
		FirstName: "Dayle", LastName: "Xeyb",
		Address: testAddress, City: testCity, Zip: "86000",
		Phone: testPhone, Email: "d.xeyb@mail.com",
	}
}

func person2() Person {
	return Person{
		FirstName: "Marie", LastName: "Xeyb",
		Address: "rue de paris", City: "Paris", Zip: "75000",
		Phone: "06-11-22-33-44", Email: "m.xeyb@mail.com",
	}
}

func person3() Person {
	return Person{
		FirstName: "Lou", LastName: "Xeyb",
		Address: "rue de lyon", City: "Lyon", Zip: "69000",
		Phone: "06-55-66-77-88", Email: "lou@mail.com",
	}
}

func withRecord(p Person, born time.Time, meds, allergies []string) Person {
	p.MedicalRecord = &MedicalRecord{
		FirstName: p.FirstName, LastName: p.LastName,
		Birthdate: born, Medications: meds, Allergies: allergies,
	}
	return p
}

func withStation(p Person, station int) Person {
	p.Firestation = &Firestation{Address: p.Address, Station: station}
	return p
}

func at(p Person, address string) Person {
	p.Address = address
	return p
}

// household returns a 40-year-old, a 35-year-old and an 8-year-old at testAddress.
func household() []Person {
	return []Person{
		withRecord(person1(), birth(1984, time.March, 6), []string{"aznol:350mg", "hydrapermazol:100mg"}, []string{"nillacilan"}),
		withRecord(at(person2(), testAddress), birth(1989, time.January, 2), nil, nil),
		withRecord(at(person3(), testAddress), birth(2015, time.September, 6), []string{}, []string{"peanut"}),
	}
}
