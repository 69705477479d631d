package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/safetynet-alerts-service/internal/domain"
)

// Family returns the children and adults living at address.
func (s *Service) Family(ctx context.Context, address string) (domain.Family, error) {
	if err := requireText("address", address); err != nil {
		return domain.Family{}, err
	}
	return runQuery(ctx, s, "child_alert", func(persons []domain.Person, now time.Time) domain.Family {
		return domain.FamilyAt(address, persons, now)
	})
}

// CommunityEmails returns the distinct emails of the residents of city.
func (s *Service) CommunityEmails(ctx context.Context, city string) ([]string, error) {
	if err := requireText("city", city); err != nil {
		return nil, err
	}
	return runQuery(ctx, s, "community_email", func(persons []domain.Person, _ time.Time) []string {
		return domain.EmailsByCity(city, persons)
	})
}

// PhoneAlert returns the distinct phone numbers served by station.
func (s *Service) PhoneAlert(ctx context.Context, station int) ([]string, error) {
	if err := requireStation(station); err != nil {
		return nil, err
	}
	return runQuery(ctx, s, "phone_alert", func(persons []domain.Person, _ time.Time) []string {
		return domain.PhonesByStation(station, persons)
	})
}

// Fire returns the residents of address with their station and medical details.
func (s *Service) Fire(ctx context.Context, address string) ([]domain.PersonFirestation, error) {
	if err := requireText("address", address); err != nil {
		return nil, err
	}
	return runQuery(ctx, s, "fire", func(persons []domain.Person, now time.Time) []domain.PersonFirestation {
		return domain.PersonsAt(address, persons, now)
	})
}

// Flood groups by address every resident served by one of stations.
func (s *Service) Flood(ctx context.Context, stations []int) (map[string][]domain.PersonFirestation, error) {
	if len(stations) == 0 {
		return nil, invalid("at least one station number is required")
	}
	for _, st := range stations {
		if err := requireStation(st); err != nil {
			return nil, err
		}
	}
	return runQuery(ctx, s, "flood", func(persons []domain.Person, now time.Time) map[string][]domain.PersonFirestation {
		return domain.PersonsByStationNumbers(stations, persons, now)
	})
}

// Coverage lists the residents served by station with adult/child counts.
func (s *Service) Coverage(ctx context.Context, station int) (domain.StationCoverage, error) {
	if err := requireStation(station); err != nil {
		return domain.StationCoverage{}, err
	}
	return runQuery(ctx, s, "station_coverage", func(persons []domain.Person, now time.Time) domain.StationCoverage {
		return domain.CoverageByStation(station, persons, now)
	})
}

// PersonInfo returns the contact and medical view of one person.
func (s *Service) PersonInfo(ctx context.Context, key domain.PersonKey) (domain.PersonInfo, error) {
	if err := requireKey(key); err != nil {
		return domain.PersonInfo{}, err
	}
	type result struct {
		info  domain.PersonInfo
		found bool
	}
	r, err := runQuery(ctx, s, "person_info", func(persons []domain.Person, now time.Time) result {
		info, ok := domain.PersonInfoFor(key, persons, now)
		return result{info: info, found: ok}
	})
	if err != nil {
		return domain.PersonInfo{}, err
	}
	if !r.found {
		return domain.PersonInfo{}, fmt.Errorf("person %s: %w", key, ErrNotFound)
	}
	return r.info, nil
}
