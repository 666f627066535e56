package service

import (
	"context"
	"time"

	"event-networking-api/core/errors"
	"event-networking-api/core/locks"
	"event-networking-api/core/logger"
	"event-networking-api/core/queue"
	"event-networking-api/core/utils"
	"event-networking-api/modules/meeting/dto"
	"event-networking-api/modules/meeting/entity"
	"event-networking-api/modules/meeting/repository"
	slotEntity "event-networking-api/modules/slot/entity"
	slotService "event-networking-api/modules/slot/service"
)

// Notifier dispatches transition notifications; best-effort, never blocking.
type Notifier interface {
	EnqueueMeetingTransition(ctx context.Context, payload queue.MeetingTransitionPayload)
}

// MeetingService is the negotiation engine: it owns the legal transitions of
// the meeting aggregate and coordinates with the slot ledger for capacity and
// tables. Every mutation runs under the per-meeting lock; ledger locks are
// only held inside the ledger calls themselves.
type MeetingService struct {
	repo     repository.MeetingRepositoryInterface
	ledger   slotService.SlotServiceInterface
	notifier Notifier // nil disables notifications
	policy   TransitionPolicy
	locks    *locks.KeyedMutex
}

// MeetingServiceInterface defines the service contract.
type MeetingServiceInterface interface {
	Create(ctx context.Context, eventID string, actor Actor, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, *errors.AppError)
	Get(ctx context.Context, meetingID string, actor Actor) (*dto.MeetingResponse, *errors.AppError)
	ListByActor(ctx context.Context, eventID string, actorID string) ([]dto.MeetingResponse, *errors.AppError)
	Propose(ctx context.Context, meetingID string, actor Actor, req *dto.ProposeRequest) (*dto.MeetingResponse, *errors.AppError)
	Confirm(ctx context.Context, meetingID string, actor Actor) (*dto.MeetingResponse, *errors.AppError)
	Reject(ctx context.Context, meetingID string, actor Actor) (*dto.MeetingResponse, *errors.AppError)
	Cancel(ctx context.Context, meetingID string, actor Actor) (*dto.MeetingResponse, *errors.AppError)
	Delete(ctx context.Context, meetingID string, actor Actor) *errors.AppError
	SetTable(ctx context.Context, meetingID string, actor Actor, req *dto.SetTableRequest) (*dto.MeetingResponse, *errors.AppError)
	SetJoinLink(ctx context.Context, meetingID string, actor Actor, req *dto.SetJoinLinkRequest) (*dto.MeetingResponse, *errors.AppError)
}

func NewMeetingService(
	repo repository.MeetingRepositoryInterface,
	ledger slotService.SlotServiceInterface,
	notifier Notifier,
	policy TransitionPolicy,
	meetingLocks *locks.KeyedMutex,
) MeetingServiceInterface {
	if policy == nil {
		policy = DefaultPolicy
	}
	return &MeetingService{
		repo:     repo,
		ledger:   ledger,
		notifier: notifier,
		policy:   policy,
		locks:    meetingLocks,
	}
}

// Create opens a meeting request in pending, reserving one capacity unit and,
// for table-bearing modes, one table.
func (s *MeetingService) Create(ctx context.Context, eventID string, actor Actor, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, *errors.AppError) {
	if eventID == "" || req.ReceiverID == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Event and receiver are required", nil)
	}
	if req.ReceiverID == actor.ID {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Cannot request a meeting with yourself", nil)
	}

	mode := slotEntity.SlotMode(req.Mode)
	if !mode.Valid() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Mode must be physical, hybrid or virtual", nil)
	}

	slotTS, err := time.Parse(time.RFC3339, req.Slot)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Slot must be an RFC3339 timestamp", err)
	}
	slot := s.ledger.NormalizeSlot(slotTS)

	if appErr := s.ledger.Reserve(ctx, eventID, slot, mode); appErr != nil {
		return nil, appErr
	}

	meeting := &entity.Meeting{
		ID:           utils.GenerateID(),
		EventID:      eventID,
		SenderID:     actor.ID,
		SenderRole:   actor.Role,
		ReceiverID:   req.ReceiverID,
		ReceiverRole: req.ReceiverRole,
		Mode:         mode,
		Slot:         slot,
		Status:       entity.StatusPending,
		Subject:      req.Subject,
		Message:      req.Message,
	}

	if mode.NeedsTable() {
		tableID, appErr := s.ledger.AllocateTable(ctx, eventID, slot, meeting.ID)
		if appErr != nil {
			s.rollbackReserve(ctx, eventID, slot, mode)
			return nil, appErr
		}
		meeting.TableID = &tableID
	}

	if err := s.repo.Create(ctx, meeting); err != nil {
		if meeting.TableID != nil {
			s.rollbackTable(ctx, eventID, slot, *meeting.TableID)
		}
		s.rollbackReserve(ctx, eventID, slot, mode)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create meeting", err)
	}

	logger.Info("MeetingService:Create",
		"meeting_id", meeting.ID,
		"event_id", eventID,
		"sender_id", actor.ID,
		"receiver_id", req.ReceiverID,
		"mode", mode,
		"slot", slot,
	)
	s.notify(ctx, meeting, actor.ID)
	return dto.ToMeetingResponse(meeting), nil
}

func (s *MeetingService) Get(ctx context.Context, meetingID string, actor Actor) (*dto.MeetingResponse, *errors.AppError) {
	meeting, appErr := s.load(ctx, meetingID)
	if appErr != nil {
		return nil, appErr
	}
	if !actor.Admin && !meeting.IsParticipant(actor.ID) {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Not a participant of this meeting", nil)
	}
	return dto.ToMeetingResponse(meeting), nil
}

func (s *MeetingService) ListByActor(ctx context.Context, eventID string, actorID string) ([]dto.MeetingResponse, *errors.AppError) {
	meetings, err := s.repo.ListByActor(ctx, eventID, actorID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list meetings", err)
	}

	result := make([]dto.MeetingResponse, 0, len(meetings))
	for i := range meetings {
		result = append(result, *dto.ToMeetingResponse(&meetings[i]))
	}
	return result, nil
}

// Propose moves a pending or confirmed meeting into rescheduled with an
// alternate slot. The new slot's capacity is deliberately not reserved yet:
// holding two units for one meeting during negotiation would starve the slot.
func (s *MeetingService) Propose(ctx context.Context, meetingID string, actor Actor, req *dto.ProposeRequest) (*dto.MeetingResponse, *errors.AppError) {
	slotTS, err := time.Parse(time.RFC3339, req.Slot)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Slot must be an RFC3339 timestamp", err)
	}

	unlock := s.locks.Lock(meetingID)
	defer unlock()

	meeting, appErr := s.load(ctx, meetingID)
	if appErr != nil {
		return nil, appErr
	}
	if !s.policy(meeting, ActionPropose, actor) {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Not allowed to reschedule this meeting", nil)
	}
	if meeting.Status != entity.StatusPending && meeting.Status != entity.StatusConfirmed {
		return nil, errors.NewAppError(errors.ErrInvalidTransition,
			"Only pending or confirmed meetings can be rescheduled", nil)
	}

	proposed := s.ledger.NormalizeSlot(slotTS)
	meeting.ProposedSlot = &proposed
	meeting.Status = entity.StatusRescheduled

	if err := s.repo.Update(ctx, meeting); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update meeting", err)
	}

	s.notify(ctx, meeting, actor.ID)
	return dto.ToMeetingResponse(meeting), nil
}

// Confirm settles a rescheduled meeting onto its proposed slot. The new slot
// is reserved before the old one is released, so a capacity failure leaves
// the meeting exactly as it was: still rescheduled, old reservation intact.
func (s *MeetingService) Confirm(ctx context.Context, meetingID string, actor Actor) (*dto.MeetingResponse, *errors.AppError) {
	unlock := s.locks.Lock(meetingID)
	defer unlock()

	meeting, appErr := s.load(ctx, meetingID)
	if appErr != nil {
		return nil, appErr
	}
	if !s.policy(meeting, ActionConfirm, actor) {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Not allowed to confirm this meeting", nil)
	}
	if meeting.Status != entity.StatusRescheduled {
		return nil, errors.NewAppError(errors.ErrInvalidTransition, "Only rescheduled meetings can be confirmed", nil)
	}
	if meeting.ProposedSlot == nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Rescheduled meeting has no proposed slot", nil)
	}

	newSlot := *meeting.ProposedSlot
	oldSlot := meeting.Slot
	oldTable := meeting.TableID

	if !newSlot.Equal(oldSlot) {
		if appErr := s.ledger.Reserve(ctx, meeting.EventID, newSlot, meeting.Mode); appErr != nil {
			return nil, appErr
		}

		if meeting.Mode.NeedsTable() {
			tableID, appErr := s.ledger.AllocateTable(ctx, meeting.EventID, newSlot, meeting.ID)
			if appErr != nil {
				s.rollbackReserve(ctx, meeting.EventID, newSlot, meeting.Mode)
				return nil, appErr
			}
			meeting.TableID = &tableID
		}

		s.rollbackReserve(ctx, meeting.EventID, oldSlot, meeting.Mode)
		if oldTable != nil {
			s.rollbackTable(ctx, meeting.EventID, oldSlot, *oldTable)
		}
		meeting.Slot = newSlot
	}

	meeting.ProposedSlot = nil
	meeting.Status = entity.StatusConfirmed

	if err := s.repo.Update(ctx, meeting); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update meeting", err)
	}

	logger.Info("MeetingService:Confirm", "meeting_id", meeting.ID, "slot", meeting.Slot)
	s.notify(ctx, meeting, actor.ID)
	return dto.ToMeetingResponse(meeting), nil
}

func (s *MeetingService) Reject(ctx context.Context, meetingID string, actor Actor) (*dto.MeetingResponse, *errors.AppError) {
	return s.close(ctx, meetingID, actor, ActionReject,
		[]entity.MeetingStatus{entity.StatusPending, entity.StatusRescheduled}, entity.StatusRejected)
}

func (s *MeetingService) Cancel(ctx context.Context, meetingID string, actor Actor) (*dto.MeetingResponse, *errors.AppError) {
	return s.close(ctx, meetingID, actor, ActionCancel,
		[]entity.MeetingStatus{entity.StatusConfirmed, entity.StatusRescheduled}, entity.StatusCancelled)
}

// close is the shared terminal transition: release the committed reservation
// and table, record who closed the thread.
func (s *MeetingService) close(ctx context.Context, meetingID string, actor Actor, action Action,
	from []entity.MeetingStatus, to entity.MeetingStatus) (*dto.MeetingResponse, *errors.AppError) {

	unlock := s.locks.Lock(meetingID)
	defer unlock()

	meeting, appErr := s.load(ctx, meetingID)
	if appErr != nil {
		return nil, appErr
	}
	if !s.policy(meeting, action, actor) {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Not allowed to close this meeting", nil)
	}

	allowed := false
	for _, st := range from {
		if meeting.Status == st {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, errors.NewAppError(errors.ErrInvalidTransition,
			"Meeting cannot be closed from status "+string(meeting.Status), nil)
	}

	s.rollbackReserve(ctx, meeting.EventID, meeting.Slot, meeting.Mode)
	if meeting.TableID != nil {
		s.rollbackTable(ctx, meeting.EventID, meeting.Slot, *meeting.TableID)
		meeting.TableID = nil
	}

	closedBy := actor.ID
	meeting.Status = to
	meeting.ProposedSlot = nil
	meeting.ClosedBy = &closedBy

	if err := s.repo.Update(ctx, meeting); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update meeting", err)
	}

	logger.Info("MeetingService:Close", "meeting_id", meeting.ID, "status", to, "closed_by", closedBy)
	s.notify(ctx, meeting, actor.ID)
	return dto.ToMeetingResponse(meeting), nil
}

// Delete discards a closed thread. Only the party on the receiving end of the
// rejection/cancellation may do it; the closer keeps the record visible to
// the other side until then. Capacity was already released at close time.
func (s *MeetingService) Delete(ctx context.Context, meetingID string, actor Actor) *errors.AppError {
	unlock := s.locks.Lock(meetingID)
	defer unlock()

	meeting, appErr := s.load(ctx, meetingID)
	if appErr != nil {
		return appErr
	}
	if !meeting.IsTerminal() {
		return errors.NewAppError(errors.ErrInvalidTransition, "Only rejected or cancelled meetings can be deleted", nil)
	}
	if !meeting.IsParticipant(actor.ID) {
		return errors.NewAppError(errors.ErrUnauthorized, "Not a participant of this meeting", nil)
	}
	if meeting.ClosedBy != nil && *meeting.ClosedBy == actor.ID {
		return errors.NewAppError(errors.ErrUnauthorized, "The party who closed the meeting cannot delete it", nil)
	}

	if err := s.repo.Delete(ctx, meetingID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete meeting", err)
	}

	logger.Info("MeetingService:Delete", "meeting_id", meetingID, "requester_id", actor.ID)
	return nil
}

// SetTable is the operator override onto a specific table in the committed slot.
func (s *MeetingService) SetTable(ctx context.Context, meetingID string, actor Actor, req *dto.SetTableRequest) (*dto.MeetingResponse, *errors.AppError) {
	if req.TableID == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Table ID is required", nil)
	}

	unlock := s.locks.Lock(meetingID)
	defer unlock()

	meeting, appErr := s.load(ctx, meetingID)
	if appErr != nil {
		return nil, appErr
	}
	if !s.policy(meeting, ActionSetTable, actor) {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Table assignment is an operator action", nil)
	}
	if meeting.IsTerminal() {
		return nil, errors.NewAppError(errors.ErrInvalidTransition, "Meeting is closed", nil)
	}
	if !meeting.Mode.NeedsTable() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Virtual meetings have no table", nil)
	}

	if appErr := s.ledger.AssignTable(ctx, meeting.EventID, meeting.Slot, meeting.ID, req.TableID); appErr != nil {
		return nil, appErr
	}
	if meeting.TableID != nil && *meeting.TableID != req.TableID {
		s.rollbackTable(ctx, meeting.EventID, meeting.Slot, *meeting.TableID)
	}

	tableID := req.TableID
	meeting.TableID = &tableID
	if err := s.repo.Update(ctx, meeting); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update meeting", err)
	}

	logger.Info("MeetingService:SetTable", "meeting_id", meeting.ID, "table_id", tableID)
	return dto.ToMeetingResponse(meeting), nil
}

// SetJoinLink stores the opaque room link once; repeat calls are a no-op
// returning the stored value.
func (s *MeetingService) SetJoinLink(ctx context.Context, meetingID string, actor Actor, req *dto.SetJoinLinkRequest) (*dto.MeetingResponse, *errors.AppError) {
	if req.JoinLink == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Join link is required", nil)
	}

	unlock := s.locks.Lock(meetingID)
	defer unlock()

	meeting, appErr := s.load(ctx, meetingID)
	if appErr != nil {
		return nil, appErr
	}
	if !s.policy(meeting, ActionSetJoinLink, actor) {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Not allowed to set the join link", nil)
	}
	if meeting.Mode == slotEntity.ModePhysical {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Physical meetings have no join link", nil)
	}

	if meeting.JoinLink != nil {
		return dto.ToMeetingResponse(meeting), nil
	}

	link := req.JoinLink
	meeting.JoinLink = &link
	if err := s.repo.Update(ctx, meeting); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update meeting", err)
	}
	return dto.ToMeetingResponse(meeting), nil
}

// ===================== helpers =====================

func (s *MeetingService) load(ctx context.Context, meetingID string) (*entity.Meeting, *errors.AppError) {
	if meetingID == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Meeting ID is required", nil)
	}
	meeting, err := s.repo.GetByID(ctx, meetingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get meeting", err)
	}
	if meeting == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Meeting not found", nil)
	}
	return meeting, nil
}

// rollbackReserve / rollbackTable are release calls whose own failure can only
// be logged; the transition has already committed its decision.
func (s *MeetingService) rollbackReserve(ctx context.Context, eventID string, slot time.Time, mode slotEntity.SlotMode) {
	if appErr := s.ledger.Release(ctx, eventID, slot, mode); appErr != nil {
		logger.Error("MeetingService:ReleaseFailed", "event_id", eventID, "slot", slot, "error", appErr)
	}
}

func (s *MeetingService) rollbackTable(ctx context.Context, eventID string, slot time.Time, tableID string) {
	if appErr := s.ledger.FreeTable(ctx, eventID, slot, tableID); appErr != nil {
		logger.Error("MeetingService:FreeTableFailed", "event_id", eventID, "table_id", tableID, "error", appErr)
	}
}

func (s *MeetingService) notify(ctx context.Context, m *entity.Meeting, actorID string) {
	if s.notifier == nil {
		return
	}
	recipient := m.OtherParticipant(actorID)
	if recipient == "" {
		// Operator-driven transition: tell the receiver side.
		recipient = m.ReceiverID
	}
	s.notifier.EnqueueMeetingTransition(ctx, queue.MeetingTransitionPayload{
		MeetingID:   m.ID,
		EventID:     m.EventID,
		RecipientID: recipient,
		ActorID:     actorID,
		Status:      string(m.Status),
		Subject:     m.Subject,
	})
}
