// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/masjidnoor/ramadan-volunteers/internal/apperr"
	"github.com/masjidnoor/ramadan-volunteers/internal/calendar"
	"github.com/masjidnoor/ramadan-volunteers/internal/model"
)

// VolunteerStore is the persistence contract the service depends on.
// Implemented by repository.VolunteerRepository; tests substitute a fake.
type VolunteerStore interface {
	// Register inserts v after a capacity check against limit, atomically.
	// limit <= 0 means unlimited.
	Register(ctx context.Context, v model.Volunteer, limit int) (*model.Volunteer, error)
	// ListAll returns all registrations ordered by date, then insertion order.
	ListAll(ctx context.Context) ([]model.Volunteer, error)
	// Delete removes one registration or returns apperr.ErrNotFound.
	Delete(ctx context.Context, id int64) error
}

// RegistrationService orchestrates volunteer sign-up operations.
type RegistrationService struct {
	store VolunteerStore
}

// NewRegistrationService constructs a RegistrationService with its store.
func NewRegistrationService(store VolunteerStore) *RegistrationService {
	return &RegistrationService{store: store}
}

// Board returns a DayInfo for every eligible date plus the separate Eid
// entry, with display labels rendered for loc. Days nobody signed up for
// still appear with a zero count.
func (s *RegistrationService) Board(ctx context.Context, loc calendar.Locale) (*model.BoardResponse, error) {
	vols, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load registrations: %w", err)
	}

	byDate := make(map[string][]model.VolunteerName)
	for _, v := range vols {
		byDate[v.Date] = append(byDate[v.Date], model.VolunteerName{
			FirstName: v.FirstName,
			LastName:  v.LastName,
		})
	}

	dates := calendar.EligibleDates()
	days := make([]model.DayInfo, 0, len(dates))
	for _, date := range dates {
		names := byDate[date]
		if names == nil {
			names = []model.VolunteerName{}
		}
		var hijri *calendar.HijriDate
		if h, err := calendar.HijriLabel(date, loc); err == nil {
			hijri = &h
		}
		days = append(days, model.DayInfo{
			Date:        date,
			DisplayDate: calendar.FormatDisplayDate(date, loc),
			Hijri:       hijri,
			Count:       len(names),
			IsFull:      len(names) >= calendar.DayCapacity,
			IsEid:       false,
			Volunteers:  names,
		})
	}

	eidNames := byDate[calendar.EidSentinel()]
	if eidNames == nil {
		eidNames = []model.VolunteerName{}
	}
	eid := model.DayInfo{
		Date:        calendar.EidSentinel(),
		DisplayDate: calendar.FormatDisplayDate(calendar.EidSentinel(), loc),
		Count:       len(eidNames),
		IsFull:      false, // the Eid bucket has no ceiling
		IsEid:       true,
		Volunteers:  eidNames,
	}

	return &model.BoardResponse{Days: days, Eid: eid}, nil
}

// Register validates a sign-up request, normalizes the name fields, and
// persists the registration. All validation happens before any write; the
// capacity and duplicate checks run inside the store's transaction.
func (s *RegistrationService) Register(ctx context.Context, req model.RegisterRequest) (*model.Volunteer, error) {
	req.Date = strings.TrimSpace(req.Date)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)

	if req.Date == "" || req.FirstName == "" || req.LastName == "" || req.PhoneNumber == "" {
		return nil, apperr.Validation(apperr.ReasonMissingFields, "missing required fields")
	}
	if !calendar.IsEligible(req.Date) {
		return nil, apperr.Validation(apperr.ReasonInvalidDate, "invalid date: %s", req.Date)
	}

	limit := calendar.DayCapacity
	if req.Date == calendar.EidSentinel() {
		limit = 0
	}

	reg, err := s.store.Register(ctx, model.Volunteer{
		Date:        req.Date,
		FirstName:   capitalize(req.FirstName),
		LastName:    capitalize(req.LastName),
		PhoneNumber: req.PhoneNumber,
	}, limit)
	if err != nil {
		// Surface domain errors directly so handlers can set correct HTTP status.
		if errors.Is(err, apperr.ErrDayFull) || errors.Is(err, apperr.ErrAlreadyRegistered) {
			return nil, err
		}
		return nil, fmt.Errorf("register volunteer: %w", err)
	}
	return reg, nil
}

// Remove deletes the registration with the given id.
func (s *RegistrationService) Remove(ctx context.Context, id int64) error {
	err := s.store.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		return fmt.Errorf("remove registration %d: %w", id, err)
	}
	return nil
}

// AdminList returns every registration grouped by date, with the total count.
// Within a date the order is insertion order.
func (s *RegistrationService) AdminList(ctx context.Context) (map[string][]model.Volunteer, int, error) {
	vols, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("load registrations: %w", err)
	}

	grouped := make(map[string][]model.Volunteer)
	for _, v := range vols {
		grouped[v.Date] = append(grouped[v.Date], v)
	}
	return grouped, len(vols), nil
}

// ExportCSV writes all registrations to w as CSV with a fixed header row,
// ordered by date then insertion order.
func (s *RegistrationService) ExportCSV(ctx context.Context, w io.Writer) error {
	vols, err := s.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load registrations: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "First Name", "Last Name", "Phone Number", "Registered At"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, v := range vols {
		record := []string{
			v.Date,
			v.FirstName,
			v.LastName,
			v.PhoneNumber,
			v.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// capitalize uppercases the first rune and lowercases the rest, so "ahmed"
// and "ALI" are stored as "Ahmed" and "Ali".
func capitalize(s string) string {
	lower := strings.ToLower(s)
	r := []rune(lower)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
