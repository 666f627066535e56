package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"event-networking-api/core/config"
	"event-networking-api/core/errors"
	"event-networking-api/core/locks"
	"event-networking-api/core/logger"
	"event-networking-api/modules/slot/dto"
	"event-networking-api/modules/slot/entity"
	"event-networking-api/modules/slot/repository"

	"github.com/redis/go-redis/v9"
)

const usageCacheTTL = 15 * time.Second

// SlotService is the capacity ledger: it owns seat counters and the table
// pool for every (event, slot, mode) and is the single source of truth the
// dashboard projection is derived from.
type SlotService struct {
	repo       repository.SlotRepositoryInterface
	cache      *redis.Client // nil disables the usage projection cache
	defaults   config.SlotConfig
	slotLocks  *locks.KeyedMutex // one key per (event, slot, mode)
	tableLocks *locks.KeyedMutex // one key per (event, slot)
}

// SlotServiceInterface is the ledger contract consumed by the negotiation
// engine and the suggestion feed.
type SlotServiceInterface interface {
	NormalizeSlot(t time.Time) time.Time
	Reserve(ctx context.Context, eventID string, slot time.Time, mode entity.SlotMode) *errors.AppError
	Release(ctx context.Context, eventID string, slot time.Time, mode entity.SlotMode) *errors.AppError
	AllocateTable(ctx context.Context, eventID string, slot time.Time, meetingID string) (string, *errors.AppError)
	FreeTable(ctx context.Context, eventID string, slot time.Time, tableID string) *errors.AppError
	AssignTable(ctx context.Context, eventID string, slot time.Time, meetingID, tableID string) *errors.AppError
	ListUsage(ctx context.Context, eventID string, from, to time.Time) (*dto.UsageResponse, *errors.AppError)
	ConfigureSlot(ctx context.Context, eventID string, req *dto.ConfigureSlotRequest) *errors.AppError
	NextAvailableSlot(ctx context.Context, eventID string, from time.Time) (*time.Time, *errors.AppError)
}

func NewSlotService(repo repository.SlotRepositoryInterface, cache *redis.Client, defaults config.SlotConfig) SlotServiceInterface {
	return &SlotService{
		repo:       repo,
		cache:      cache,
		defaults:   defaults,
		slotLocks:  locks.NewKeyedMutex(),
		tableLocks: locks.NewKeyedMutex(),
	}
}

func usageKey(eventID string, slot time.Time, mode entity.SlotMode) string {
	return fmt.Sprintf("%s|%d|%s", eventID, slot.Unix(), mode)
}

func tableKey(eventID string, slot time.Time) string {
	return fmt.Sprintf("%s|%d", eventID, slot.Unix())
}

// NormalizeSlot truncates a timestamp to the event's slot grid.
func (s *SlotService) NormalizeSlot(t time.Time) time.Time {
	step := time.Duration(s.defaults.DurationMinutes) * time.Minute
	return t.UTC().Truncate(step)
}

func (s *SlotService) defaultCapacity(mode entity.SlotMode) int {
	switch mode {
	case entity.ModePhysical:
		return s.defaults.PhysicalCapacity
	case entity.ModeHybrid:
		return s.defaults.HybridCapacity
	default:
		return 0 // virtual is uncapped; capacity column unused
	}
}

// Reserve takes one capacity unit for (event, slot, mode). Virtual mode never
// fails: its counter exists for reporting only.
func (s *SlotService) Reserve(ctx context.Context, eventID string, slot time.Time, mode entity.SlotMode) *errors.AppError {
	unlock := s.slotLocks.Lock(usageKey(eventID, slot, mode))
	defer unlock()

	usage, err := s.repo.GetUsage(ctx, eventID, slot, mode)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to read slot usage", err)
	}

	if usage == nil {
		capacity := s.defaultCapacity(mode)
		if mode != entity.ModeVirtual && capacity < 1 {
			return errors.NewAppError(errors.ErrCapacityExceeded, "No capacity configured for this slot", nil)
		}
		usage = &entity.SlotUsage{
			EventID:   eventID,
			Slot:      slot,
			Mode:      mode,
			Used:      1,
			Capacity:  capacity,
			TablePool: s.defaults.TablesPerSlot,
		}
		if err := s.repo.CreateUsage(ctx, usage); err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to create slot usage", err)
		}
		return nil
	}

	if mode != entity.ModeVirtual && usage.Used >= usage.Capacity {
		return errors.NewAppError(errors.ErrCapacityExceeded, "Slot is fully booked for this mode", nil)
	}

	if err := s.repo.AddUsed(ctx, eventID, slot, mode, 1); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to reserve slot", err)
	}
	return nil
}

// Release returns one capacity unit; counters floor at zero.
func (s *SlotService) Release(ctx context.Context, eventID string, slot time.Time, mode entity.SlotMode) *errors.AppError {
	unlock := s.slotLocks.Lock(usageKey(eventID, slot, mode))
	defer unlock()

	usage, err := s.repo.GetUsage(ctx, eventID, slot, mode)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to read slot usage", err)
	}
	if usage == nil {
		logger.Warn("SlotService:Release on unknown slot", "event_id", eventID, "slot", slot, "mode", mode)
		return nil
	}

	if err := s.repo.AddUsed(ctx, eventID, slot, mode, -1); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to release slot", err)
	}
	return nil
}

// poolSize resolves how many tables a slot offers. A configured slot carries
// its pool on the non-virtual usage rows; an unseen slot uses the default.
func (s *SlotService) poolSize(ctx context.Context, eventID string, slot time.Time) (int, error) {
	size := 0
	seen := false
	for _, mode := range []entity.SlotMode{entity.ModePhysical, entity.ModeHybrid} {
		usage, err := s.repo.GetUsage(ctx, eventID, slot, mode)
		if err != nil {
			return 0, err
		}
		if usage != nil {
			seen = true
			if usage.TablePool > size {
				size = usage.TablePool
			}
		}
	}
	if !seen {
		return s.defaults.TablesPerSlot, nil
	}
	return size, nil
}

// AllocateTable hands out the lowest free identifier in the slot's pool.
// Deterministic on purpose: stable for tests and easy to eyeball on the floor
// plan.
func (s *SlotService) AllocateTable(ctx context.Context, eventID string, slot time.Time, meetingID string) (string, *errors.AppError) {
	unlock := s.tableLocks.Lock(tableKey(eventID, slot))
	defer unlock()

	pool, err := s.poolSize(ctx, eventID, slot)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to resolve table pool", err)
	}

	held, err := s.repo.ListTables(ctx, eventID, slot)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to list tables", err)
	}
	taken := make(map[string]bool, len(held))
	for _, t := range held {
		taken[t.TableID] = true
	}

	for i := 1; i <= pool; i++ {
		id := fmt.Sprintf("T%02d", i)
		if taken[id] {
			continue
		}
		table := &entity.SlotTable{EventID: eventID, Slot: slot, TableID: id, MeetingID: meetingID}
		if err := s.repo.InsertTable(ctx, table); err != nil {
			return "", errors.NewAppError(errors.ErrInternalServer, "Failed to allocate table", err)
		}
		return id, nil
	}

	// Seats were available but tables ran out: seat and table counts disagree.
	return "", errors.NewAppError(errors.ErrNoTableAvailable, "Table pool exhausted for this slot", nil)
}

func (s *SlotService) FreeTable(ctx context.Context, eventID string, slot time.Time, tableID string) *errors.AppError {
	unlock := s.tableLocks.Lock(tableKey(eventID, slot))
	defer unlock()

	if err := s.repo.DeleteTable(ctx, eventID, slot, tableID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to free table", err)
	}
	return nil
}

// AssignTable is the operator override: any identifier is allowed, in or out
// of the pool, as long as no other meeting holds it in that slot.
func (s *SlotService) AssignTable(ctx context.Context, eventID string, slot time.Time, meetingID, tableID string) *errors.AppError {
	unlock := s.tableLocks.Lock(tableKey(eventID, slot))
	defer unlock()

	held, err := s.repo.ListTables(ctx, eventID, slot)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to list tables", err)
	}
	for _, t := range held {
		if t.TableID != tableID {
			continue
		}
		if t.MeetingID != meetingID {
			return errors.NewAppError(errors.ErrAlreadyExists, "Table is already held in this slot", nil)
		}
		// Already held by this meeting; inserting again would trip the
		// (event_id, slot_ts, table_id) primary key.
		return nil
	}

	table := &entity.SlotTable{EventID: eventID, Slot: slot, TableID: tableID, MeetingID: meetingID}
	if err := s.repo.InsertTable(ctx, table); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to assign table", err)
	}
	return nil
}

// ListUsage serves the dashboard rollup. The redis projection is a short-TTL
// cache over a single consistent SELECT; it is recomputed on miss, never
// mutated in place.
func (s *SlotService) ListUsage(ctx context.Context, eventID string, from, to time.Time) (*dto.UsageResponse, *errors.AppError) {
	cacheKey := fmt.Sprintf("slot_usage:%s:%d:%d", eventID, from.Unix(), to.Unix())

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached dto.UsageResponse
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	usages, err := s.repo.ListUsageRange(ctx, eventID, from, to)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list slot usage", err)
	}

	rows := rollUp(usages)
	resp := &dto.UsageResponse{EventID: eventID, From: from, To: to, Slots: rows}

	if s.cache != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(ctx, cacheKey, raw, usageCacheTTL).Err(); err != nil {
				logger.Warn("SlotService:ListUsage cache set failed", "error", err)
			}
		}
	}
	return resp, nil
}

func rollUp(usages []entity.SlotUsage) []entity.UsageRow {
	byTS := make(map[int64]*entity.UsageRow)
	for _, u := range usages {
		row, ok := byTS[u.Slot.Unix()]
		if !ok {
			row = &entity.UsageRow{Slot: u.Slot}
			byTS[u.Slot.Unix()] = row
		}
		switch u.Mode {
		case entity.ModePhysical:
			row.Physical = entity.ModeUsage{Used: u.Used, Capacity: u.Capacity}
		case entity.ModeHybrid:
			row.Hybrid = entity.ModeUsage{Used: u.Used, Capacity: u.Capacity}
		case entity.ModeVirtual:
			row.Virtual = entity.ModeUsage{Used: u.Used}
		}
	}

	rows := make([]entity.UsageRow, 0, len(byTS))
	for _, row := range byTS {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Slot.Before(rows[j].Slot) })
	return rows
}

// ConfigureSlot pre-seeds or resizes capacity and the table pool. Shrinking
// below current usage is rejected.
func (s *SlotService) ConfigureSlot(ctx context.Context, eventID string, req *dto.ConfigureSlotRequest) *errors.AppError {
	slotTS, err := time.Parse(time.RFC3339, req.Slot)
	if err != nil {
		return errors.NewAppError(errors.ErrInvalidInput, "Slot must be an RFC3339 timestamp", err)
	}
	slot := s.NormalizeSlot(slotTS)

	modes := []struct {
		mode     entity.SlotMode
		capacity int
	}{
		{entity.ModePhysical, req.PhysicalCapacity},
		{entity.ModeHybrid, req.HybridCapacity},
	}

	// Both counters are held and validated before either is rewritten, so a
	// rejected resize leaves the slot exactly as it was. Lock order is fixed
	// to stay deadlock free against concurrent reservations.
	for _, m := range modes {
		unlock := s.slotLocks.Lock(usageKey(eventID, slot, m.mode))
		defer unlock()
	}

	for _, m := range modes {
		usage, err := s.repo.GetUsage(ctx, eventID, slot, m.mode)
		if err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to read slot usage", err)
		}
		if usage != nil && usage.Used > m.capacity {
			return errors.NewAppError(errors.ErrInvalidInput,
				fmt.Sprintf("Cannot shrink %s capacity below current usage (%d)", m.mode, usage.Used), nil)
		}
	}

	for _, m := range modes {
		if err := s.repo.UpdateCapacity(ctx, eventID, slot, m.mode, m.capacity, req.Tables); err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to configure slot", err)
		}
	}

	logger.Info("SlotService:ConfigureSlot",
		"event_id", eventID,
		"slot", slot,
		"physical", req.PhysicalCapacity,
		"hybrid", req.HybridCapacity,
		"tables", req.Tables,
	)
	return nil
}

// NextAvailableSlot returns the earliest slot within the suggestion horizon
// that still has non-virtual headroom, or nil when everything is full.
func (s *SlotService) NextAvailableSlot(ctx context.Context, eventID string, from time.Time) (*time.Time, *errors.AppError) {
	step := time.Duration(s.defaults.DurationMinutes) * time.Minute
	horizon := time.Duration(s.defaults.SuggestionHorizonHours) * time.Hour

	for t := s.NormalizeSlot(from).Add(step); t.Before(from.Add(horizon)); t = t.Add(step) {
		for _, mode := range []entity.SlotMode{entity.ModePhysical, entity.ModeHybrid} {
			usage, err := s.repo.GetUsage(ctx, eventID, t, mode)
			if err != nil {
				return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to read slot usage", err)
			}
			if usage == nil {
				if s.defaultCapacity(mode) > 0 {
					slot := t
					return &slot, nil
				}
				continue
			}
			if usage.Used < usage.Capacity {
				slot := t
				return &slot, nil
			}
		}
	}
	return nil, nil
}
