package domain

import "time"

func servedBy(p Person, station int) bool {
	return p.Firestation != nil && p.Firestation.Station == station
}

// PhonesByStation returns the distinct phone numbers of persons served by
// station.
func PhonesByStation(station int, persons []Person) []string {
	phones := make([]string, 0)
	for _, p := range persons {
		if servedBy(p, station) {
			phones = append(phones, p.Phone)
		}
	}
	return stringSet(phones)
}

// PersonsByStationNumbers groups by address every person served by any of
// the given stations.
func PersonsByStationNumbers(stations []int, persons []Person, now time.Time) map[string][]PersonFirestation {
	wanted := make(map[int]struct{}, len(stations))
	for _, s := range stations {
		wanted[s] = struct{}{}
	}
	served := filter(persons, func(p Person) bool {
		if p.Firestation == nil {
			return false
		}
		_, ok := wanted[p.Firestation.Station]
		return ok
	})
	return GroupByAddress(served, now)
}

// CoverageByStation lists the persons served by station and counts the
// adults and children among them. Persons without a medical record are
// listed but not counted.
func CoverageByStation(station int, persons []Person, now time.Time) StationCoverage {
	coverage := StationCoverage{Persons: []PersonSummary{}}
	for _, p := range uniqueByKey(filter(persons, func(p Person) bool { return servedBy(p, station) })) {
		coverage.Persons = append(coverage.Persons, NewPersonSummary(p))
		age, ok := ageOf(p, now)
		if !ok {
			continue
		}
		if IsChild(age) {
			coverage.ChildrenNumber++
		} else {
			coverage.AdultNumber++
		}
	}
	return coverage
}
