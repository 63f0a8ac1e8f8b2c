// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/masjidnoor/ramadan-volunteers/internal/apperr"
	"github.com/masjidnoor/ramadan-volunteers/internal/auth"
	"github.com/masjidnoor/ramadan-volunteers/internal/calendar"
	"github.com/masjidnoor/ramadan-volunteers/internal/model"
)

// boardCacheSeconds is how long clients may cache the public listing.
// Sign-up freshness within half a minute is good enough for the board.
const boardCacheSeconds = 30

// RegistrationService is the service contract the handlers depend on.
type RegistrationService interface {
	Board(ctx context.Context, loc calendar.Locale) (*model.BoardResponse, error)
	Register(ctx context.Context, req model.RegisterRequest) (*model.Volunteer, error)
	Remove(ctx context.Context, id int64) error
	AdminList(ctx context.Context) (map[string][]model.Volunteer, int, error)
	ExportCSV(ctx context.Context, w io.Writer) error
}

// VolunteerHandler holds all HTTP handlers for the volunteer board API.
type VolunteerHandler struct {
	svc   RegistrationService
	admin *auth.Verifier
}

// NewVolunteerHandler constructs a VolunteerHandler.
func NewVolunteerHandler(svc RegistrationService, admin *auth.Verifier) *VolunteerHandler {
	return &VolunteerHandler{svc: svc, admin: admin}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, reason string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg, Reason: reason})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// ─── Public handlers ──────────────────────────────────────────────────────────

// Board handles GET /volunteers?locale=de|ar
// Returns every schedule day with counts, names, and localized display
// labels, plus the Eid entry. Falls back to Accept-Language, then German.
func (h *VolunteerHandler) Board(w http.ResponseWriter, r *http.Request) {
	locale := r.URL.Query().Get("locale")
	if locale == "" {
		locale = r.Header.Get("Accept-Language")
	}

	board, err := h.svc.Board(r.Context(), calendar.ParseLocale(locale))
	if err != nil {
		log.Printf("board: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load volunteers", apperr.ReasonInternal)
		return
	}

	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", boardCacheSeconds))
	writeJSON(w, http.StatusOK, board)
}

// Register handles POST /volunteers
// Creates one registration after validation, capacity, and duplicate checks.
func (h *VolunteerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), apperr.ReasonMissingFields)
		return
	}

	reg, err := h.svc.Register(r.Context(), req)
	if err != nil {
		var ve *apperr.ValidationError
		switch {
		case errors.As(err, &ve):
			writeError(w, http.StatusBadRequest, ve.Message, ve.Code)
		case errors.Is(err, apperr.ErrDayFull):
			writeError(w, http.StatusConflict, "this day is already full", apperr.ReasonDayFull)
		case errors.Is(err, apperr.ErrAlreadyRegistered):
			writeError(w, http.StatusConflict, "this phone number is already registered for this day", apperr.ReasonAlreadyRegistered)
		default:
			log.Printf("register: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to create registration", apperr.ReasonInternal)
		}
		return
	}

	writeJSON(w, http.StatusCreated, model.RegisterResponse{Success: true, ID: reg.ID})
}

// ─── Admin handlers ───────────────────────────────────────────────────────────

// Delete handles DELETE /volunteers
// Removes one registration by id, gated by the shared admin secret.
func (h *VolunteerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req model.DeleteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), apperr.ReasonMissingFields)
		return
	}

	if err := h.admin.Verify(req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid password", apperr.Reason(err))
		return
	}
	if req.ID == 0 {
		writeError(w, http.StatusBadRequest, "id is required", apperr.ReasonMissingFields)
		return
	}

	if err := h.svc.Remove(r.Context(), req.ID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "volunteer not found", apperr.ReasonNotFound)
			return
		}
		log.Printf("delete %d: %v", req.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to delete registration", apperr.ReasonInternal)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// AdminList handles POST /admin/volunteers
// Returns all registrations grouped by date, including phone numbers.
func (h *VolunteerHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	var req model.AdminRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), apperr.ReasonMissingFields)
		return
	}
	if err := h.admin.Verify(req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid password", apperr.Reason(err))
		return
	}

	grouped, total, err := h.svc.AdminList(r.Context())
	if err != nil {
		log.Printf("admin list: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch admin data", apperr.ReasonInternal)
		return
	}

	writeJSON(w, http.StatusOK, model.AdminListResponse{Success: true, Data: grouped, Total: total})
}

// Export handles POST /admin/export
// Streams all registrations as a CSV download.
func (h *VolunteerHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req model.AdminRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), apperr.ReasonMissingFields)
		return
	}
	if err := h.admin.Verify(req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid password", apperr.Reason(err))
		return
	}

	filename := fmt.Sprintf("ramadan-volunteers-%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := h.svc.ExportCSV(r.Context(), w); err != nil {
		// Headers are already out; the best we can do is log.
		log.Printf("csv export: %v", err)
	}
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
