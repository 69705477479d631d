package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/couchcryptid/safetynet-alerts-service/internal/alerts"
	"github.com/couchcryptid/safetynet-alerts-service/internal/domain"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleChildAlert(w http.ResponseWriter, r *http.Request) {
	family, err := s.svc.Family(r.Context(), r.URL.Query().Get("address"))
	s.respond(w, http.StatusOK, family, err)
}

func (s *Server) handleCommunityEmail(w http.ResponseWriter, r *http.Request) {
	emails, err := s.svc.CommunityEmails(r.Context(), r.URL.Query().Get("city"))
	s.respond(w, http.StatusOK, emails, err)
}

func (s *Server) handlePhoneAlert(w http.ResponseWriter, r *http.Request) {
	station, err := stationParam(r, "firestation")
	if err != nil {
		s.writeError(w, err)
		return
	}
	phones, err := s.svc.PhoneAlert(r.Context(), station)
	s.respond(w, http.StatusOK, phones, err)
}

func (s *Server) handleFire(w http.ResponseWriter, r *http.Request) {
	residents, err := s.svc.Fire(r.Context(), r.URL.Query().Get("address"))
	s.respond(w, http.StatusOK, residents, err)
}

func (s *Server) handleFlood(w http.ResponseWriter, r *http.Request) {
	stations, err := stationList(r.URL.Query().Get("stations"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	byAddress, err := s.svc.Flood(r.Context(), stations)
	s.respond(w, http.StatusOK, byAddress, err)
}

func (s *Server) handleCoverage(w http.ResponseWriter, r *http.Request) {
	station, err := stationParam(r, "stationNumber")
	if err != nil {
		s.writeError(w, err)
		return
	}
	coverage, err := s.svc.Coverage(r.Context(), station)
	s.respond(w, http.StatusOK, coverage, err)
}

func (s *Server) handlePersonInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.svc.PersonInfo(r.Context(), personKey(r))
	s.respond(w, http.StatusOK, info, err)
}

func (s *Server) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var p domain.Person
	if err := decodeBody(w, r, &p); err != nil {
		s.writeError(w, err)
		return
	}
	created, err := s.svc.CreatePerson(r.Context(), p)
	s.respond(w, http.StatusCreated, created, err)
}

func (s *Server) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	var p domain.Person
	if err := decodeBody(w, r, &p); err != nil {
		s.writeError(w, err)
		return
	}
	updated, err := s.svc.UpdatePerson(r.Context(), personKey(r), p)
	s.respond(w, http.StatusOK, updated, err)
}

func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	s.respondNoContent(w, s.svc.DeletePerson(r.Context(), personKey(r)))
}

func (s *Server) handleCreateMedicalRecord(w http.ResponseWriter, r *http.Request) {
	var mr domain.MedicalRecord
	if err := decodeBody(w, r, &mr); err != nil {
		s.writeError(w, err)
		return
	}
	created, err := s.svc.CreateMedicalRecord(r.Context(), mr)
	s.respond(w, http.StatusCreated, created, err)
}

func (s *Server) handleUpdateMedicalRecord(w http.ResponseWriter, r *http.Request) {
	var mr domain.MedicalRecord
	if err := decodeBody(w, r, &mr); err != nil {
		s.writeError(w, err)
		return
	}
	updated, err := s.svc.UpdateMedicalRecord(r.Context(), personKey(r), mr)
	s.respond(w, http.StatusOK, updated, err)
}

func (s *Server) handleDeleteMedicalRecord(w http.ResponseWriter, r *http.Request) {
	s.respondNoContent(w, s.svc.DeleteMedicalRecord(r.Context(), personKey(r)))
}

func (s *Server) handleCreateFirestation(w http.ResponseWriter, r *http.Request) {
	var fs domain.Firestation
	if err := decodeBody(w, r, &fs); err != nil {
		s.writeError(w, err)
		return
	}
	created, err := s.svc.CreateFirestation(r.Context(), fs)
	s.respond(w, http.StatusCreated, created, err)
}

func (s *Server) handleUpdateFirestation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Station int `json:"station"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	updated, err := s.svc.UpdateFirestation(r.Context(), r.URL.Query().Get("address"), body.Station)
	s.respond(w, http.StatusOK, updated, err)
}

// handleDeleteFirestation removes one address mapping, or every mapping of a
// station when only ?station is given.
func (s *Server) handleDeleteFirestation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if address := q.Get("address"); address != "" || !q.Has("station") {
		s.respondNoContent(w, s.svc.DeleteFirestation(r.Context(), address))
		return
	}
	station, err := stationParam(r, "station")
	if err != nil {
		s.writeError(w, err)
		return
	}
	_, err = s.svc.DeleteStation(r.Context(), station)
	s.respondNoContent(w, err)
}

func (s *Server) respond(w http.ResponseWriter, status int, v any, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, status, v)
}

func (s *Server) respondNoContent(w http.ResponseWriter, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeError maps service sentinels to status codes. Unexpected errors are
// logged and reported without detail.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, alerts.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, alerts.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, alerts.ErrAlreadyExists):
		status = http.StatusConflict
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode request body: %v", alerts.ErrInvalidInput, err)
	}
	return nil
}

func personKey(r *http.Request) domain.PersonKey {
	q := r.URL.Query()
	return domain.PersonKey{FirstName: q.Get("firstName"), LastName: q.Get("lastName")}
}

func stationParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a station number, got %q", alerts.ErrInvalidInput, name, raw)
	}
	return n, nil
}

// stationList parses a comma-separated list such as "1,2,3".
func stationList(raw string) ([]int, error) {
	var stations []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: stations must be comma-separated numbers, got %q", alerts.ErrInvalidInput, raw)
		}
		stations = append(stations, n)
	}
	return stations, nil
}
