package service_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/masjidnoor/ramadan-volunteers/internal/apperr"
	"github.com/masjidnoor/ramadan-volunteers/internal/calendar"
	"github.com/masjidnoor/ramadan-volunteers/internal/model"
	"github.com/masjidnoor/ramadan-volunteers/internal/service"
)

// fakeStore is an in-memory VolunteerStore honoring the same contract as the
// real repository: capacity check against limit, unique (date, phone), and
// apperr.ErrNotFound on a missing delete target.
type fakeStore struct {
	nextID int64
	vols   []model.Volunteer
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1}
}

func (f *fakeStore) Register(_ context.Context, v model.Volunteer, limit int) (*model.Volunteer, error) {
	count := 0
	for _, existing := range f.vols {
		if existing.Date == v.Date {
			count++
		}
	}
	// Same order as the repository: capacity first, then the phone check
	// the unique index would raise on insert.
	if limit > 0 && count >= limit {
		return nil, apperr.ErrDayFull
	}
	for _, existing := range f.vols {
		if existing.Date == v.Date && existing.PhoneNumber == v.PhoneNumber {
			return nil, apperr.ErrAlreadyRegistered
		}
	}

	v.ID = f.nextID
	f.nextID++
	v.CreatedAt = time.Now().UTC()
	f.vols = append(f.vols, v)
	return &v, nil
}

func (f *fakeStore) ListAll(_ context.Context) ([]model.Volunteer, error) {
	out := make([]model.Volunteer, len(f.vols))
	copy(out, f.vols)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	for i, v := range f.vols {
		if v.ID == id {
			f.vols = append(f.vols[:i], f.vols[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNotFound
}

func register(t *testing.T, svc *service.RegistrationService, date, first, last, phone string) *model.Volunteer {
	t.Helper()
	reg, err := svc.Register(context.Background(), model.RegisterRequest{
		Date: date, FirstName: first, LastName: last, PhoneNumber: phone,
	})
	if err != nil {
		t.Fatalf("Register(%s, %s) failed: %v", date, phone, err)
	}
	return reg
}

func TestRegisterValidation(t *testing.T) {
	svc := service.NewRegistrationService(newFakeStore())

	tests := []struct {
		name string
		req  model.RegisterRequest
		want string
	}{
		{
			name: "missing first name",
			req:  model.RegisterRequest{Date: "2026-02-19", LastName: "Ali", PhoneNumber: "0151"},
			want: apperr.ReasonMissingFields,
		},
		{
			name: "blank phone",
			req:  model.RegisterRequest{Date: "2026-02-19", FirstName: "Ahmed", LastName: "Ali", PhoneNumber: "   "},
			want: apperr.ReasonMissingFields,
		},
		{
			name: "date outside window",
			req:  model.RegisterRequest{Date: "2099-01-01", FirstName: "Ahmed", LastName: "Ali", PhoneNumber: "0151"},
			want: apperr.ReasonInvalidDate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			var ve *apperr.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Register() = %v, want ValidationError", err)
			}
			if ve.Code != tt.want {
				t.Errorf("reason = %q, want %q", ve.Code, tt.want)
			}
		})
	}
}

func TestRegisterCapacity(t *testing.T) {
	svc := service.NewRegistrationService(newFakeStore())

	for i := 0; i < calendar.DayCapacity; i++ {
		register(t, svc, "2026-02-20", "Vol", "Unteer", fmt.Sprintf("015%d", i))
	}

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Date: "2026-02-20", FirstName: "Late", LastName: "Comer", PhoneNumber: "0159",
	})
	if !errors.Is(err, apperr.ErrDayFull) {
		t.Fatalf("4th registration = %v, want ErrDayFull", err)
	}

	// A repeated phone on a full day hits the capacity check first, the same
	// order the repository evaluates in.
	_, err = svc.Register(context.Background(), model.RegisterRequest{
		Date: "2026-02-20", FirstName: "Vol", LastName: "Unteer", PhoneNumber: "0150",
	})
	if !errors.Is(err, apperr.ErrDayFull) {
		t.Fatalf("repeat phone on full day = %v, want ErrDayFull", err)
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	svc := service.NewRegistrationService(newFakeStore())

	register(t, svc, "2026-02-19", "Ahmed", "Ali", "0151")

	// Same phone on the same date is rejected.
	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Date: "2026-02-19", FirstName: "Ahmed", LastName: "Ali", PhoneNumber: "0151",
	})
	if !errors.Is(err, apperr.ErrAlreadyRegistered) {
		t.Fatalf("duplicate registration = %v, want ErrAlreadyRegistered", err)
	}

	// Same phone on another date is fine.
	register(t, svc, "2026-02-20", "Ahmed", "Ali", "0151")
}

func TestRegisterEidUnlimitedButNoDuplicates(t *testing.T) {
	svc := service.NewRegistrationService(newFakeStore())
	eid := calendar.EidSentinel()

	// Well past the regular capacity.
	for i := 0; i < calendar.DayCapacity+2; i++ {
		register(t, svc, eid, "Vol", "Unteer", fmt.Sprintf("016%d", i))
	}

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Date: eid, FirstName: "Vol", LastName: "Unteer", PhoneNumber: "0160",
	})
	if !errors.Is(err, apperr.ErrAlreadyRegistered) {
		t.Fatalf("duplicate Eid registration = %v, want ErrAlreadyRegistered", err)
	}

	board, err := svc.Board(context.Background(), calendar.German)
	if err != nil {
		t.Fatalf("Board() failed: %v", err)
	}
	if board.Eid.Count != calendar.DayCapacity+2 {
		t.Errorf("eid count = %d, want %d", board.Eid.Count, calendar.DayCapacity+2)
	}
	if board.Eid.IsFull {
		t.Error("eid bucket must never report full")
	}
}

func TestRegisterNormalizesNames(t *testing.T) {
	svc := service.NewRegistrationService(newFakeStore())

	reg := register(t, svc, "2026-02-19", "ahmed", "ALI", "0151")
	if reg.FirstName != "Ahmed" || reg.LastName != "Ali" {
		t.Errorf("normalized name = %s %s, want Ahmed Ali", reg.FirstName, reg.LastName)
	}
}

func TestRemove(t *testing.T) {
	svc := service.NewRegistrationService(newFakeStore())
	ctx := context.Background()

	if err := svc.Remove(ctx, 42); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Remove(42) on empty store = %v, want ErrNotFound", err)
	}

	reg := register(t, svc, "2026-02-19", "Ahmed", "Ali", "0151")
	if err := svc.Remove(ctx, reg.ID); err != nil {
		t.Fatalf("Remove(%d) failed: %v", reg.ID, err)
	}

	board, err := svc.Board(ctx, calendar.German)
	if err != nil {
		t.Fatalf("Board() failed: %v", err)
	}
	if board.Days[0].Count != 0 {
		t.Errorf("day still lists %d volunteers after delete", board.Days[0].Count)
	}

	if err := svc.Remove(ctx, reg.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second Remove(%d) = %v, want ErrNotFound", reg.ID, err)
	}
}

// Full scenario: 3 sign-ups fill a day, the 4th bounces, and the Eid bucket
// counts independently without ever reporting full.
func TestBoardScenario(t *testing.T) {
	svc := service.NewRegistrationService(newFakeStore())
	ctx := context.Background()

	register(t, svc, "2026-02-19", "Ahmed", "Ali", "0151")
	register(t, svc, "2026-02-19", "Fatima", "Hassan", "0152")
	register(t, svc, "2026-02-19", "Omar", "Said", "0153")

	_, err := svc.Register(ctx, model.RegisterRequest{
		Date: "2026-02-19", FirstName: "Layla", LastName: "Nour", PhoneNumber: "0154",
	})
	if !errors.Is(err, apperr.ErrDayFull) {
		t.Fatalf("4th registration = %v, want ErrDayFull", err)
	}

	register(t, svc, calendar.EidSentinel(), "Layla", "Nour", "0154")

	board, err := svc.Board(ctx, calendar.Arabic)
	if err != nil {
		t.Fatalf("Board() failed: %v", err)
	}

	if len(board.Days) != len(calendar.EligibleDates()) {
		t.Fatalf("board has %d days, want %d", len(board.Days), len(calendar.EligibleDates()))
	}

	day := board.Days[0]
	if day.Date != "2026-02-19" || day.Count != 3 || !day.IsFull {
		t.Errorf("day[0] = %+v, want 2026-02-19 count=3 isFull=true", day)
	}
	if day.DisplayDate != "الخميس، 19 فبراير 2026" {
		t.Errorf("display date = %q", day.DisplayDate)
	}
	if day.Hijri == nil || day.Hijri.Day != 1 || day.Hijri.Month != "رمضان" {
		t.Errorf("hijri label = %+v, want 1 رمضان 1447", day.Hijri)
	}
	if board.Eid.Hijri != nil || board.Eid.DisplayDate != "عيد الفطر" {
		t.Errorf("eid display = %q hijri=%+v", board.Eid.DisplayDate, board.Eid.Hijri)
	}
	// Insertion order.
	if day.Volunteers[0].FirstName != "Ahmed" || day.Volunteers[2].FirstName != "Omar" {
		t.Errorf("volunteers out of insertion order: %+v", day.Volunteers)
	}

	if board.Eid.Count != 1 || board.Eid.IsFull || !board.Eid.IsEid {
		t.Errorf("eid entry = %+v, want count=1 isFull=false isEid=true", board.Eid)
	}

	// Untouched days still show up empty.
	if board.Days[1].Count != 0 || board.Days[1].Volunteers == nil {
		t.Errorf("empty day = %+v, want count=0 with empty volunteer list", board.Days[1])
	}
}

func TestAdminList(t *testing.T) {
	svc := service.NewRegistrationService(newFakeStore())

	register(t, svc, "2026-02-20", "Fatima", "Hassan", "0152")
	register(t, svc, "2026-02-19", "Ahmed", "Ali", "0151")
	register(t, svc, calendar.EidSentinel(), "Omar", "Said", "0153")

	grouped, total, err := svc.AdminList(context.Background())
	if err != nil {
		t.Fatalf("AdminList() failed: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(grouped["2026-02-19"]) != 1 || grouped["2026-02-19"][0].PhoneNumber != "0151" {
		t.Errorf("group 2026-02-19 = %+v", grouped["2026-02-19"])
	}
	if len(grouped[calendar.EidSentinel()]) != 1 {
		t.Errorf("eid group = %+v", grouped[calendar.EidSentinel()])
	}
}

func TestExportCSV(t *testing.T) {
	svc := service.NewRegistrationService(newFakeStore())

	register(t, svc, "2026-02-19", "Ahmed", "Ali", "0151")
	register(t, svc, "2026-02-20", "Fatima", "Hassan", "0152")

	var buf strings.Builder
	if err := svc.ExportCSV(context.Background(), &buf); err != nil {
		t.Fatalf("ExportCSV() failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv has %d lines, want header + 2 rows:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Date,First Name,Last Name,Phone Number,Registered At" {
		t.Errorf("csv header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2026-02-19,Ahmed,Ali,0151,") {
		t.Errorf("csv row = %q", lines[1])
	}
}
