package domain

import "time"

// GroupByAddress maps every address present in persons to the projections of
// the distinct persons living there.
func GroupByAddress(persons []Person, now time.Time) map[string][]PersonFirestation {
	byAddress := make(map[string][]Person)
	for _, p := range persons {
		byAddress[p.Address] = append(byAddress[p.Address], p)
	}

	out := make(map[string][]PersonFirestation, len(byAddress))
	for address, residents := range byAddress {
		residents = uniqueByKey(residents)
		projected := make([]PersonFirestation, 0, len(residents))
		for _, p := range residents {
			projected = append(projected, NewPersonFirestation(p, now))
		}
		out[address] = projected
	}
	return out
}

// PersonsAt returns the projections of the persons living at address.
func PersonsAt(address string, persons []Person, now time.Time) []PersonFirestation {
	residents := uniqueByKey(filter(persons, func(p Person) bool { return p.Address == address }))
	out := make([]PersonFirestation, 0, len(residents))
	for _, p := range residents {
		out = append(out, NewPersonFirestation(p, now))
	}
	return out
}

// FamilyAt partitions the residents of address into children and adults.
// Residents without a medical record are left out of both sets.
func FamilyAt(address string, persons []Person, now time.Time) Family {
	family := Family{Children: []FamilyMember{}, Adults: []FamilyMember{}}
	for _, p := range uniqueByKey(persons) {
		if p.Address != address {
			continue
		}
		age, ok := ageOf(p, now)
		if !ok {
			continue
		}
		member := NewFamilyMember(p, now)
		if IsChild(age) {
			family.Children = append(family.Children, member)
		} else {
			family.Adults = append(family.Adults, member)
		}
	}
	return family
}

// EmailsByCity returns the distinct emails of persons living in city.
func EmailsByCity(city string, persons []Person) []string {
	emails := make([]string, 0)
	for _, p := range persons {
		if p.City == city {
			emails = append(emails, p.Email)
		}
	}
	return stringSet(emails)
}

// PersonInfoFor returns the /personInfo projection of the person with the
// given name, if present.
func PersonInfoFor(key PersonKey, persons []Person, now time.Time) (PersonInfo, bool) {
	for _, p := range persons {
		if p.Key() == key {
			return NewPersonInfo(p, now), true
		}
	}
	return PersonInfo{}, false
}

func filter(persons []Person, keep func(Person) bool) []Person {
	out := make([]Person, 0, len(persons))
	for _, p := range persons {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
