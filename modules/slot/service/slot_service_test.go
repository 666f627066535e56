package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"event-networking-api/core/config"
	"event-networking-api/core/errors"
	"event-networking-api/modules/slot/dto"
	"event-networking-api/modules/slot/entity"
)

// ===================== fakes =====================

type fakeSlotRepo struct {
	usage  map[string]*entity.SlotUsage
	tables map[string]map[string]string // slot key -> table id -> meeting id
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{
		usage:  make(map[string]*entity.SlotUsage),
		tables: make(map[string]map[string]string),
	}
}

func (f *fakeSlotRepo) usageKey(eventID string, slot time.Time, mode entity.SlotMode) string {
	return fmt.Sprintf("%s|%d|%s", eventID, slot.Unix(), mode)
}

func (f *fakeSlotRepo) slotKey(eventID string, slot time.Time) string {
	return fmt.Sprintf("%s|%d", eventID, slot.Unix())
}

func (f *fakeSlotRepo) GetUsage(_ context.Context, eventID string, slot time.Time, mode entity.SlotMode) (*entity.SlotUsage, error) {
	u, ok := f.usage[f.usageKey(eventID, slot, mode)]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeSlotRepo) CreateUsage(_ context.Context, usage *entity.SlotUsage) error {
	cp := *usage
	f.usage[f.usageKey(usage.EventID, usage.Slot, usage.Mode)] = &cp
	return nil
}

func (f *fakeSlotRepo) AddUsed(_ context.Context, eventID string, slot time.Time, mode entity.SlotMode, delta int) error {
	u, ok := f.usage[f.usageKey(eventID, slot, mode)]
	if !ok {
		return fmt.Errorf("usage row missing")
	}
	u.Used += delta
	if u.Used < 0 {
		u.Used = 0
	}
	return nil
}

func (f *fakeSlotRepo) UpdateCapacity(_ context.Context, eventID string, slot time.Time, mode entity.SlotMode, capacity, tablePool int) error {
	key := f.usageKey(eventID, slot, mode)
	u, ok := f.usage[key]
	if !ok {
		f.usage[key] = &entity.SlotUsage{
			EventID: eventID, Slot: slot, Mode: mode,
			Capacity: capacity, TablePool: tablePool,
		}
		return nil
	}
	u.Capacity = capacity
	u.TablePool = tablePool
	return nil
}

func (f *fakeSlotRepo) ListUsageRange(_ context.Context, eventID string, from, to time.Time) ([]entity.SlotUsage, error) {
	var out []entity.SlotUsage
	for _, u := range f.usage {
		if u.EventID == eventID && !u.Slot.Before(from) && u.Slot.Before(to) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) ListTables(_ context.Context, eventID string, slot time.Time) ([]entity.SlotTable, error) {
	var out []entity.SlotTable
	for id, meetingID := range f.tables[f.slotKey(eventID, slot)] {
		out = append(out, entity.SlotTable{EventID: eventID, Slot: slot, TableID: id, MeetingID: meetingID})
	}
	return out, nil
}

// InsertTable mirrors the (event_id, slot_ts, table_id) primary key: a second
// insert for the same table is a constraint violation, not an overwrite.
func (f *fakeSlotRepo) InsertTable(_ context.Context, table *entity.SlotTable) error {
	key := f.slotKey(table.EventID, table.Slot)
	if f.tables[key] == nil {
		f.tables[key] = make(map[string]string)
	}
	if _, exists := f.tables[key][table.TableID]; exists {
		return fmt.Errorf("duplicate key (%s, %d, %s)", table.EventID, table.Slot.Unix(), table.TableID)
	}
	f.tables[key][table.TableID] = table.MeetingID
	return nil
}

func (f *fakeSlotRepo) DeleteTable(_ context.Context, eventID string, slot time.Time, tableID string) error {
	delete(f.tables[f.slotKey(eventID, slot)], tableID)
	return nil
}

// ===================== helpers =====================

func testDefaults() config.SlotConfig {
	return config.SlotConfig{
		PhysicalCapacity:       2,
		HybridCapacity:         1,
		TablesPerSlot:          2,
		DurationMinutes:        20,
		SuggestionHorizonHours: 2,
	}
}

func testSlot() time.Time {
	return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
}

// ===================== tests =====================

func TestNormalizeSlot(t *testing.T) {
	svc := NewSlotService(newFakeSlotRepo(), nil, testDefaults())

	in := time.Date(2026, 3, 14, 10, 17, 42, 0, time.UTC)
	got := svc.NormalizeSlot(in)
	want := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("NormalizeSlot(%v) = %v, want %v", in, got, want)
	}
}

func TestReserveAndRelease(t *testing.T) {
	ctx := context.Background()
	slot := testSlot()

	t.Run("round trip restores headroom", func(t *testing.T) {
		repo := newFakeSlotRepo()
		svc := NewSlotService(repo, nil, testDefaults())

		if appErr := svc.Reserve(ctx, "ev1", slot, entity.ModeHybrid); appErr != nil {
			t.Fatalf("first reserve: %v", appErr)
		}
		// Hybrid capacity is 1, so the slot is now full.
		if appErr := svc.Reserve(ctx, "ev1", slot, entity.ModeHybrid); appErr == nil {
			t.Fatal("second reserve should fail")
		} else if appErr.Code != errors.ErrCapacityExceeded {
			t.Fatalf("second reserve code = %s, want %s", appErr.Code, errors.ErrCapacityExceeded)
		}

		if appErr := svc.Release(ctx, "ev1", slot, entity.ModeHybrid); appErr != nil {
			t.Fatalf("release: %v", appErr)
		}
		if appErr := svc.Reserve(ctx, "ev1", slot, entity.ModeHybrid); appErr != nil {
			t.Fatalf("reserve after release: %v", appErr)
		}
	})

	t.Run("virtual is uncapped", func(t *testing.T) {
		repo := newFakeSlotRepo()
		svc := NewSlotService(repo, nil, testDefaults())

		for i := 0; i < 50; i++ {
			if appErr := svc.Reserve(ctx, "ev1", slot, entity.ModeVirtual); appErr != nil {
				t.Fatalf("virtual reserve %d: %v", i, appErr)
			}
		}
		u, _ := repo.GetUsage(ctx, "ev1", slot, entity.ModeVirtual)
		if u.Used != 50 {
			t.Fatalf("virtual used = %d, want 50", u.Used)
		}
	})

	t.Run("release on unknown slot is a no-op", func(t *testing.T) {
		svc := NewSlotService(newFakeSlotRepo(), nil, testDefaults())
		if appErr := svc.Release(ctx, "ev1", slot, entity.ModePhysical); appErr != nil {
			t.Fatalf("release on unknown slot: %v", appErr)
		}
	})
}

func TestAllocateTable(t *testing.T) {
	ctx := context.Background()
	slot := testSlot()

	t.Run("lowest free identifier", func(t *testing.T) {
		svc := NewSlotService(newFakeSlotRepo(), nil, testDefaults())

		id1, appErr := svc.AllocateTable(ctx, "ev1", slot, "m1")
		if appErr != nil {
			t.Fatalf("allocate m1: %v", appErr)
		}
		if id1 != "T01" {
			t.Fatalf("first table = %s, want T01", id1)
		}

		id2, appErr := svc.AllocateTable(ctx, "ev1", slot, "m2")
		if appErr != nil {
			t.Fatalf("allocate m2: %v", appErr)
		}
		if id2 != "T02" {
			t.Fatalf("second table = %s, want T02", id2)
		}

		// Freeing T01 makes it the lowest free again.
		if appErr := svc.FreeTable(ctx, "ev1", slot, "T01"); appErr != nil {
			t.Fatalf("free: %v", appErr)
		}
		id3, appErr := svc.AllocateTable(ctx, "ev1", slot, "m3")
		if appErr != nil {
			t.Fatalf("allocate m3: %v", appErr)
		}
		if id3 != "T01" {
			t.Fatalf("reallocated table = %s, want T01", id3)
		}
	})

	t.Run("pool exhaustion", func(t *testing.T) {
		svc := NewSlotService(newFakeSlotRepo(), nil, testDefaults())

		if _, appErr := svc.AllocateTable(ctx, "ev1", slot, "m1"); appErr != nil {
			t.Fatalf("allocate m1: %v", appErr)
		}
		if _, appErr := svc.AllocateTable(ctx, "ev1", slot, "m2"); appErr != nil {
			t.Fatalf("allocate m2: %v", appErr)
		}
		_, appErr := svc.AllocateTable(ctx, "ev1", slot, "m3")
		if appErr == nil {
			t.Fatal("third allocate should fail")
		}
		if appErr.Code != errors.ErrNoTableAvailable {
			t.Fatalf("code = %s, want %s", appErr.Code, errors.ErrNoTableAvailable)
		}
	})
}

func TestAssignTable(t *testing.T) {
	ctx := context.Background()
	slot := testSlot()
	svc := NewSlotService(newFakeSlotRepo(), nil, testDefaults())

	// Operators may assign identifiers outside the default pool.
	if appErr := svc.AssignTable(ctx, "ev1", slot, "m1", "VIP-1"); appErr != nil {
		t.Fatalf("assign: %v", appErr)
	}

	// Re-assigning the same table to the same meeting is fine.
	if appErr := svc.AssignTable(ctx, "ev1", slot, "m1", "VIP-1"); appErr != nil {
		t.Fatalf("reassign to holder: %v", appErr)
	}

	appErr := svc.AssignTable(ctx, "ev1", slot, "m2", "VIP-1")
	if appErr == nil {
		t.Fatal("assigning a held table to another meeting should fail")
	}
	if appErr.Code != errors.ErrAlreadyExists {
		t.Fatalf("code = %s, want %s", appErr.Code, errors.ErrAlreadyExists)
	}
}

func TestConfigureSlot(t *testing.T) {
	ctx := context.Background()
	slot := testSlot()

	t.Run("shrink below usage rejected", func(t *testing.T) {
		repo := newFakeSlotRepo()
		svc := NewSlotService(repo, nil, testDefaults())

		if appErr := svc.Reserve(ctx, "ev1", slot, entity.ModePhysical); appErr != nil {
			t.Fatalf("reserve: %v", appErr)
		}
		if appErr := svc.Reserve(ctx, "ev1", slot, entity.ModePhysical); appErr != nil {
			t.Fatalf("reserve: %v", appErr)
		}

		appErr := svc.ConfigureSlot(ctx, "ev1", &dto.ConfigureSlotRequest{
			Slot:             slot.Format(time.RFC3339),
			PhysicalCapacity: 1, // below the two reservations already taken
			HybridCapacity:   1,
			Tables:           2,
		})
		if appErr == nil {
			t.Fatal("shrinking below usage should fail")
		}
		if appErr.Code != errors.ErrInvalidInput {
			t.Fatalf("code = %s, want %s", appErr.Code, errors.ErrInvalidInput)
		}
	})

	t.Run("failed shrink leaves the sibling mode untouched", func(t *testing.T) {
		repo := newFakeSlotRepo()
		svc := NewSlotService(repo, nil, testDefaults())

		if appErr := svc.Reserve(ctx, "ev1", slot, entity.ModeHybrid); appErr != nil {
			t.Fatalf("reserve: %v", appErr)
		}

		// Hybrid shrinks below its usage, so the whole resize must be rejected
		// before the physical counter is rewritten.
		appErr := svc.ConfigureSlot(ctx, "ev1", &dto.ConfigureSlotRequest{
			Slot:             slot.Format(time.RFC3339),
			PhysicalCapacity: 40,
			HybridCapacity:   0,
			Tables:           2,
		})
		if appErr == nil || appErr.Code != errors.ErrInvalidInput {
			t.Fatalf("appErr = %v, want %s", appErr, errors.ErrInvalidInput)
		}

		if u, _ := repo.GetUsage(ctx, "ev1", slot, entity.ModePhysical); u != nil {
			t.Fatalf("physical row = %+v, want none after a rejected resize", u)
		}
		u, _ := repo.GetUsage(ctx, "ev1", slot, entity.ModeHybrid)
		if u == nil || u.Capacity != testDefaults().HybridCapacity {
			t.Fatalf("hybrid row = %+v, want untouched capacity %d", u, testDefaults().HybridCapacity)
		}
	})

	t.Run("grow applies to counters and pool", func(t *testing.T) {
		repo := newFakeSlotRepo()
		svc := NewSlotService(repo, nil, testDefaults())

		appErr := svc.ConfigureSlot(ctx, "ev1", &dto.ConfigureSlotRequest{
			Slot:             slot.Format(time.RFC3339),
			PhysicalCapacity: 40,
			HybridCapacity:   15,
			Tables:           50,
		})
		if appErr != nil {
			t.Fatalf("configure: %v", appErr)
		}

		u, _ := repo.GetUsage(ctx, "ev1", slot, entity.ModePhysical)
		if u == nil || u.Capacity != 40 || u.TablePool != 50 {
			t.Fatalf("physical row = %+v, want capacity 40 pool 50", u)
		}
		u, _ = repo.GetUsage(ctx, "ev1", slot, entity.ModeHybrid)
		if u == nil || u.Capacity != 15 {
			t.Fatalf("hybrid row = %+v, want capacity 15", u)
		}
	})
}

func TestListUsage(t *testing.T) {
	ctx := context.Background()
	from := testSlot()
	to := from.Add(40 * time.Minute)

	repo := newFakeSlotRepo()
	svc := NewSlotService(repo, nil, testDefaults())

	// Rows on both boundaries: the range is half open, from inclusive.
	repo.usage[repo.usageKey("ev1", from, entity.ModePhysical)] = &entity.SlotUsage{
		EventID: "ev1", Slot: from, Mode: entity.ModePhysical, Used: 1, Capacity: 2,
	}
	repo.usage[repo.usageKey("ev1", to, entity.ModePhysical)] = &entity.SlotUsage{
		EventID: "ev1", Slot: to, Mode: entity.ModePhysical, Used: 2, Capacity: 2,
	}

	resp, appErr := svc.ListUsage(ctx, "ev1", from, to)
	if appErr != nil {
		t.Fatalf("list usage: %v", appErr)
	}
	if len(resp.Slots) != 1 {
		t.Fatalf("slots = %d, want 1 (end of range excluded)", len(resp.Slots))
	}
	if !resp.Slots[0].Slot.Equal(from) || resp.Slots[0].Physical.Used != 1 {
		t.Fatalf("row = %+v, want the start-of-range counter", resp.Slots[0])
	}
}

func TestNextAvailableSlot(t *testing.T) {
	ctx := context.Background()
	from := testSlot()

	t.Run("unseen slots have default headroom", func(t *testing.T) {
		svc := NewSlotService(newFakeSlotRepo(), nil, testDefaults())

		got, appErr := svc.NextAvailableSlot(ctx, "ev1", from)
		if appErr != nil {
			t.Fatalf("next slot: %v", appErr)
		}
		if got == nil {
			t.Fatal("expected a slot, got nil")
		}
		want := from.Add(20 * time.Minute)
		if !got.Equal(want) {
			t.Fatalf("next slot = %v, want %v", got, want)
		}
	})

	t.Run("full horizon yields nil", func(t *testing.T) {
		repo := newFakeSlotRepo()
		defaults := testDefaults()
		svc := NewSlotService(repo, nil, defaults)

		// Fill every non-virtual slot inside the horizon.
		step := time.Duration(defaults.DurationMinutes) * time.Minute
		horizon := time.Duration(defaults.SuggestionHorizonHours) * time.Hour
		for ts := from; ts.Before(from.Add(horizon).Add(step)); ts = ts.Add(step) {
			repo.usage[repo.usageKey("ev1", ts, entity.ModePhysical)] = &entity.SlotUsage{
				EventID: "ev1", Slot: ts, Mode: entity.ModePhysical, Used: 2, Capacity: 2,
			}
			repo.usage[repo.usageKey("ev1", ts, entity.ModeHybrid)] = &entity.SlotUsage{
				EventID: "ev1", Slot: ts, Mode: entity.ModeHybrid, Used: 1, Capacity: 1,
			}
		}

		got, appErr := svc.NextAvailableSlot(ctx, "ev1", from)
		if appErr != nil {
			t.Fatalf("next slot: %v", appErr)
		}
		if got != nil {
			t.Fatalf("expected nil for full horizon, got %v", got)
		}
	})
}
