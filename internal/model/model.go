// Package model defines the core domain types for the volunteer sign-up board.
package model

import (
	"time"

	"github.com/masjidnoor/ramadan-volunteers/internal/calendar"
)

// Volunteer represents one registration for a schedule day (or the Eid bucket).
type Volunteer struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// VolunteerName is the public projection of a volunteer shown on the board.
// The phone number never leaves the admin surface.
type VolunteerName struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DayInfo summarises one schedule day for the public board. DisplayDate and
// Hijri are rendered server-side for the requested locale; Hijri is absent
// for the Eid entry.
type DayInfo struct {
	Date        string              `json:"date"`
	DisplayDate string              `json:"display_date"`
	Hijri       *calendar.HijriDate `json:"hijri,omitempty"`
	Count       int                 `json:"count"`
	IsFull      bool                `json:"isFull"`
	IsEid       bool                `json:"isEid"`
	Volunteers  []VolunteerName     `json:"volunteers"`
}

// BoardResponse is the payload of the public GET listing: every regular day
// in ascending order plus the separate Eid entry.
type BoardResponse struct {
	Days []DayInfo `json:"days"`
	Eid  DayInfo   `json:"eid"`
}

// RegisterRequest is the payload for signing up a volunteer.
type RegisterRequest struct {
	Date        string `json:"date"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

// RegisterResponse acknowledges a successful sign-up.
type RegisterResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

// DeleteRequest is the admin payload for removing a registration.
type DeleteRequest struct {
	ID       int64  `json:"id"`
	Password string `json:"password"`
}

// AdminRequest carries the shared secret for admin reads.
type AdminRequest struct {
	Password string `json:"password"`
}

// AdminListResponse is the admin view: all registrations grouped by date.
// Map keys marshal in sorted order, so dates come out ascending with the
// Eid bucket last.
type AdminListResponse struct {
	Success bool                   `json:"success"`
	Data    map[string][]Volunteer `json:"data"`
	Total   int                    `json:"total"`
}

// ErrorResponse is a standard JSON error envelope. Reason is a stable
// machine-readable code the client maps to a localized message.
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}
