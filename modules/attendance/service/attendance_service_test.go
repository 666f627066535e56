package service

import (
	"context"
	"testing"
	"time"

	"event-networking-api/core/errors"
	"event-networking-api/core/locks"
	"event-networking-api/modules/attendance/dto"
	"event-networking-api/modules/attendance/entity"
	meetingEntity "event-networking-api/modules/meeting/entity"
)

// ===================== fakes =====================

type fakeAttendanceRepo struct {
	records map[string]map[string]entity.Attendance // meeting id -> actor id -> record
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]map[string]entity.Attendance)}
}

// Upsert mirrors the production ON CONFLICT clause: the first checked_in_at
// stands, duplicate scans only refresh scanner metadata.
func (f *fakeAttendanceRepo) Upsert(_ context.Context, record *entity.Attendance) error {
	byActor := f.records[record.MeetingID]
	if byActor == nil {
		byActor = make(map[string]entity.Attendance)
		f.records[record.MeetingID] = byActor
	}
	if existing, ok := byActor[record.ActorID]; ok {
		existing.ScannerID = record.ScannerID
		existing.Source = record.Source
		byActor[record.ActorID] = existing
		return nil
	}
	byActor[record.ActorID] = *record
	return nil
}

func (f *fakeAttendanceRepo) ListByMeeting(_ context.Context, meetingID string) ([]entity.Attendance, error) {
	var out []entity.Attendance
	for _, r := range f.records[meetingID] {
		out = append(out, r)
	}
	return out, nil
}

type fakeMeetingStore struct {
	meetings map[string]*meetingEntity.Meeting
}

func (f *fakeMeetingStore) Create(_ context.Context, m *meetingEntity.Meeting) error {
	f.meetings[m.ID] = m
	return nil
}

func (f *fakeMeetingStore) GetByID(_ context.Context, id string) (*meetingEntity.Meeting, error) {
	m, ok := f.meetings[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMeetingStore) Update(_ context.Context, m *meetingEntity.Meeting) error { return nil }
func (f *fakeMeetingStore) Delete(_ context.Context, id string) error                { return nil }

func (f *fakeMeetingStore) ListByActor(_ context.Context, eventID, actorID string) ([]meetingEntity.Meeting, error) {
	return nil, nil
}

func (f *fakeMeetingStore) ListActiveByEvent(_ context.Context, eventID string) ([]meetingEntity.Meeting, error) {
	return nil, nil
}

// ===================== helpers =====================

func newTestAttendance(t *testing.T, status meetingEntity.MeetingStatus) (*AttendanceService, *fakeAttendanceRepo) {
	t.Helper()
	meetings := &fakeMeetingStore{meetings: map[string]*meetingEntity.Meeting{
		"m1": {
			ID:         "m1",
			EventID:    "ev1",
			SenderID:   "alice",
			ReceiverID: "bob",
			Status:     status,
		},
	}}
	repo := newFakeAttendanceRepo()
	svc := NewAttendanceService(repo, meetings, locks.NewKeyedMutex()).(*AttendanceService)
	return svc, repo
}

// clockAt pins the service clock to a sequence of instants, one per scan.
func clockAt(times ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := times[i]
		if i < len(times)-1 {
			i++
		}
		return t
	}
}

func scanReq() *dto.ConfirmScanRequest {
	return &dto.ConfirmScanRequest{ScannerID: "gate-3", Source: "self-scan"}
}

// ===================== tests =====================

func TestConfirmScan(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2026, 3, 14, 10, 1, 0, 0, time.UTC)
	t1 := t0.Add(2 * time.Minute)

	t.Run("single scan does not make a meeting happen", func(t *testing.T) {
		svc, _ := newTestAttendance(t, meetingEntity.StatusConfirmed)
		svc.now = clockAt(t0)

		resp, appErr := svc.Confirm(ctx, "m1", "alice", scanReq())
		if appErr != nil {
			t.Fatalf("confirm: %v", appErr)
		}
		if resp.Happened {
			t.Fatal("one scan must not mark the meeting as happened")
		}
		if resp.FirstArrivedActorID != "alice" {
			t.Fatalf("first = %s, want alice", resp.FirstArrivedActorID)
		}
	})

	t.Run("both scans reconcile regardless of order", func(t *testing.T) {
		for _, order := range [][2]string{{"alice", "bob"}, {"bob", "alice"}} {
			svc, _ := newTestAttendance(t, meetingEntity.StatusConfirmed)
			svc.now = clockAt(t0, t1)

			if _, appErr := svc.Confirm(ctx, "m1", order[0], scanReq()); appErr != nil {
				t.Fatalf("scan %s: %v", order[0], appErr)
			}
			resp, appErr := svc.Confirm(ctx, "m1", order[1], scanReq())
			if appErr != nil {
				t.Fatalf("scan %s: %v", order[1], appErr)
			}
			if !resp.Happened {
				t.Fatalf("order %v: both scanned, meeting must have happened", order)
			}
			if resp.FirstArrivedActorID != order[0] {
				t.Fatalf("order %v: first = %s, want %s", order, resp.FirstArrivedActorID, order[0])
			}
		}
	})

	t.Run("duplicate scans keep the first timestamp", func(t *testing.T) {
		svc, repo := newTestAttendance(t, meetingEntity.StatusConfirmed)
		svc.now = clockAt(t0, t1, t1.Add(time.Minute))

		if _, appErr := svc.Confirm(ctx, "m1", "alice", scanReq()); appErr != nil {
			t.Fatalf("first scan: %v", appErr)
		}
		if _, appErr := svc.Confirm(ctx, "m1", "alice", &dto.ConfirmScanRequest{ScannerID: "gate-7", Source: "staff-scan"}); appErr != nil {
			t.Fatalf("duplicate scan: %v", appErr)
		}

		record := repo.records["m1"]["alice"]
		if !record.CheckedInAt.Equal(t0) {
			t.Fatalf("checked_in_at = %v, want first scan %v", record.CheckedInAt, t0)
		}
		if record.ScannerID != "gate-7" || record.Source != "staff-scan" {
			t.Fatalf("scanner metadata not refreshed: %+v", record)
		}
	})

	t.Run("equal timestamps break ties lexically", func(t *testing.T) {
		svc, _ := newTestAttendance(t, meetingEntity.StatusConfirmed)
		svc.now = clockAt(t0, t0)

		if _, appErr := svc.Confirm(ctx, "m1", "bob", scanReq()); appErr != nil {
			t.Fatalf("scan bob: %v", appErr)
		}
		resp, appErr := svc.Confirm(ctx, "m1", "alice", scanReq())
		if appErr != nil {
			t.Fatalf("scan alice: %v", appErr)
		}
		if resp.FirstArrivedActorID != "alice" {
			t.Fatalf("first = %s, want alice on tie", resp.FirstArrivedActorID)
		}
	})

	t.Run("unconfirmed meeting records with a warning", func(t *testing.T) {
		svc, repo := newTestAttendance(t, meetingEntity.StatusPending)
		svc.now = clockAt(t0)

		resp, appErr := svc.Confirm(ctx, "m1", "alice", scanReq())
		if appErr != nil {
			t.Fatalf("confirm: %v", appErr)
		}
		if resp.StatusWarning == "" {
			t.Fatal("expected a status warning on an unconfirmed meeting")
		}
		if _, recorded := repo.records["m1"]["alice"]; !recorded {
			t.Fatal("scan must be recorded despite the warning")
		}
	})

	t.Run("outsider scans are rejected", func(t *testing.T) {
		svc, _ := newTestAttendance(t, meetingEntity.StatusConfirmed)

		_, appErr := svc.Confirm(ctx, "m1", "eve", scanReq())
		if appErr == nil || appErr.Code != errors.ErrUnauthorized {
			t.Fatalf("appErr = %v, want %s", appErr, errors.ErrUnauthorized)
		}
	})

	t.Run("unknown meeting", func(t *testing.T) {
		svc, _ := newTestAttendance(t, meetingEntity.StatusConfirmed)

		_, appErr := svc.Confirm(ctx, "nope", "alice", scanReq())
		if appErr == nil || appErr.Code != errors.ErrNotFound {
			t.Fatalf("appErr = %v, want %s", appErr, errors.ErrNotFound)
		}
	})
}

func TestPreview(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2026, 3, 14, 10, 1, 0, 0, time.UTC)

	t.Run("between scans", func(t *testing.T) {
		svc, _ := newTestAttendance(t, meetingEntity.StatusConfirmed)
		svc.now = clockAt(t0)

		if _, appErr := svc.Confirm(ctx, "m1", "alice", scanReq()); appErr != nil {
			t.Fatalf("scan: %v", appErr)
		}

		// Bob previews before scanning: alice shows as present, bob does not.
		resp, appErr := svc.Preview(ctx, "m1", "bob")
		if appErr != nil {
			t.Fatalf("preview: %v", appErr)
		}
		if resp.You.CheckedIn {
			t.Fatal("bob has not scanned yet")
		}
		if !resp.Other.CheckedIn || resp.Other.CheckedInAt == nil || !resp.Other.CheckedInAt.Equal(t0) {
			t.Fatalf("other presence = %+v, want checked in at %v", resp.Other, t0)
		}
		if resp.Happened {
			t.Fatal("preview must not report happened before both scans")
		}
	})

	t.Run("preview is read only", func(t *testing.T) {
		svc, repo := newTestAttendance(t, meetingEntity.StatusConfirmed)

		if _, appErr := svc.Preview(ctx, "m1", "alice"); appErr != nil {
			t.Fatalf("preview: %v", appErr)
		}
		if len(repo.records["m1"]) != 0 {
			t.Fatal("preview must not write attendance")
		}
	})

	t.Run("outsider preview rejected", func(t *testing.T) {
		svc, _ := newTestAttendance(t, meetingEntity.StatusConfirmed)

		_, appErr := svc.Preview(ctx, "m1", "eve")
		if appErr == nil || appErr.Code != errors.ErrUnauthorized {
			t.Fatalf("appErr = %v, want %s", appErr, errors.ErrUnauthorized)
		}
	})
}
