package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	p := NewRedisPersistenceWithClient(client, "test:appointments")
	store, err := Open(context.Background(), p, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return store, mr
}

func validInput() CreateInput {
	return CreateInput{
		PatientName:  "Carlos Pérez",
		PatientID:    "1061234567",
		PatientPhone: "3001234567",
		ServiceID:    1,
		Date:         "2026-09-15",
		Time:         "09:00",
	}
}

func TestCreateRejectsDoubleBooking(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	in := validInput()
	in.PatientID = "999"
	_, err = store.Create(ctx, in)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("second create error = %v, want ConflictError", err)
	}

	got, err := store.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != StatusConfirmed {
		t.Errorf("first appointment status = %s, want confirmed", got.Status)
	}
}

func TestCancelThenRebookSameSlot(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	appt, err := store.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Cancel(ctx, appt.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if store.IsSlotTaken(ctx, appt.Date, appt.Time, "") {
		t.Error("cancelled slot still counted as taken")
	}
	if _, err := store.Create(ctx, validInput()); err != nil {
		t.Fatalf("rebooking freed slot: %v", err)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	appt, _ := store.Create(ctx, validInput())
	if err := store.Cancel(ctx, appt.ID); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	if err := store.Cancel(ctx, appt.ID); err != nil {
		t.Fatalf("second cancel should be a no-op, got %v", err)
	}
	if err := store.Cancel(ctx, "missing-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("cancel unknown id = %v, want ErrNotFound", err)
	}
}

func TestValidationErrors(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	cases := []struct {
		mutate func(*CreateInput)
		field  string
	}{
		{func(in *CreateInput) { in.PatientName = " " }, "patientName"},
		{func(in *CreateInput) { in.PatientID = "" }, "patientId"},
		{func(in *CreateInput) { in.Date = "" }, "date"},
		{func(in *CreateInput) { in.Date = "15/09/2026" }, "date"},
		{func(in *CreateInput) { in.Time = "" }, "time"},
		{func(in *CreateInput) { in.Time = "9am" }, "time"},
	}
	for _, tc := range cases {
		in := validInput()
		tc.mutate(&in)
		_, err := store.Create(ctx, in)
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != tc.field {
			t.Errorf("create with bad %s: err = %v", tc.field, err)
		}
	}
}

func TestFindActiveByPatientIDExcludesCancelled(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	a1, _ := store.Create(ctx, validInput())
	in := validInput()
	in.Time = "10:00"
	a2, _ := store.Create(ctx, in)
	other := validInput()
	other.PatientID = "555"
	other.Time = "11:00"
	store.Create(ctx, other)

	store.Cancel(ctx, a1.ID)

	found := store.FindActiveByPatientID(ctx, "1061234567")
	if len(found) != 1 {
		t.Fatalf("found %d appointments, want 1", len(found))
	}
	if found[0].ID != a2.ID {
		t.Errorf("found id %s, want %s", found[0].ID, a2.ID)
	}
	if found[0].PatientName != "Carlos Pérez" || found[0].PatientPhone != "3001234567" {
		t.Error("FindActiveByPatientID must return full records")
	}

	if got := store.FindActiveByPatientID(ctx, "does-not-exist"); len(got) != 0 {
		t.Errorf("unknown patient returned %d records", len(got))
	}
}

func TestCollectionSurvivesReopen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	p := NewRedisPersistenceWithClient(client, "test:appointments")
	ctx := context.Background()

	store, err := Open(ctx, p, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	appt, err := store.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	store.Cancel(ctx, appt.ID)

	reopened, err := Open(ctx, p, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	all := reopened.All(ctx)
	if len(all) != 1 {
		t.Fatalf("reopened store holds %d records, want 1", len(all))
	}
	if all[0].Status != StatusCancelled {
		t.Error("cancelled record must be retained for history")
	}
}

func TestSaveFailureRollsBackAndSurfaces(t *testing.T) {
	p := &flakyPersistence{}
	store, err := Open(context.Background(), p, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ctx := context.Background()

	p.fail = true
	_, err = store.Create(ctx, validInput())
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("create with failing save = %v, want PersistenceError", err)
	}
	if store.IsSlotTaken(ctx, "2026-09-15", "09:00", "") {
		t.Error("failed create left the slot occupied in memory")
	}

	p.fail = false
	if _, err := store.Create(ctx, validInput()); err != nil {
		t.Fatalf("retry after persistence recovered: %v", err)
	}
}

func TestClaimDueRemindersRollsBackOnSaveFailure(t *testing.T) {
	p := &flakyPersistence{}
	ctx := context.Background()
	store, _ := Open(ctx, p, nil)
	appt, _ := store.Create(ctx, validInput())

	startsAt, _ := appt.StartsAt()
	now := startsAt.Add(-2 * time.Hour)

	p.fail = true
	if _, err := store.ClaimDueReminders(ctx, now, 24*time.Hour); err == nil {
		t.Fatal("expected persistence error")
	}

	p.fail = false
	claimed, err := store.ClaimDueReminders(ctx, now, 24*time.Hour)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if len(claimed) != 1 {
		t.Fatalf("claimed %d after rollback, want 1", len(claimed))
	}
}

type flakyPersistence struct {
	MemoryPersistence
	fail bool
}

func (p *flakyPersistence) Save(ctx context.Context, appts []Appointment) error {
	if p.fail {
		return &PersistenceError{Op: "save", Err: errors.New("disk full")}
	}
	return p.MemoryPersistence.Save(ctx, appts)
}
