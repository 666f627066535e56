package service

import (
	"context"
	"time"

	"event-networking-api/core/errors"
	"event-networking-api/core/locks"
	"event-networking-api/core/logger"
	"event-networking-api/modules/attendance/dto"
	"event-networking-api/modules/attendance/entity"
	"event-networking-api/modules/attendance/repository"
	meetingEntity "event-networking-api/modules/meeting/entity"
	meetingRepo "event-networking-api/modules/meeting/repository"
)

// AttendanceService reconciles the two independent badge scans of a meeting
// into one ground truth: did it happen, and who arrived first.
type AttendanceService struct {
	repo     repository.AttendanceRepositoryInterface
	meetings meetingRepo.MeetingRepositoryInterface
	locks    *locks.KeyedMutex // shared with the negotiation engine
	now      func() time.Time
}

// AttendanceServiceInterface defines the service contract.
type AttendanceServiceInterface interface {
	Preview(ctx context.Context, meetingID, selfActorID string) (*dto.PreviewResponse, *errors.AppError)
	Confirm(ctx context.Context, meetingID, actorID string, req *dto.ConfirmScanRequest) (*dto.ConfirmResponse, *errors.AppError)
}

func NewAttendanceService(
	repo repository.AttendanceRepositoryInterface,
	meetings meetingRepo.MeetingRepositoryInterface,
	meetingLocks *locks.KeyedMutex,
) AttendanceServiceInterface {
	return &AttendanceService{
		repo:     repo,
		meetings: meetings,
		locks:    meetingLocks,
		now:      time.Now,
	}
}

// Preview is a pure read backing the pre-scan confirmation screen.
func (s *AttendanceService) Preview(ctx context.Context, meetingID, selfActorID string) (*dto.PreviewResponse, *errors.AppError) {
	meeting, appErr := s.loadMeeting(ctx, meetingID)
	if appErr != nil {
		return nil, appErr
	}
	if !meeting.IsParticipant(selfActorID) {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Not a participant of this meeting", nil)
	}

	records, err := s.repo.ListByMeeting(ctx, meetingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to read attendance", err)
	}

	first, happened := derive(records)
	resp := &dto.PreviewResponse{
		You:                 presenceOf(records, selfActorID),
		Other:               presenceOf(records, meeting.OtherParticipant(selfActorID)),
		FirstArrivedActorID: first,
		Happened:            happened,
	}
	return resp, nil
}

// Confirm commits a scan. Idempotent: an actor who already checked in only
// refreshes scanner metadata, and the reported state does not change. A scan
// against a meeting that is not administratively confirmed is recorded with a
// warning rather than rejected: physical presence outranks paperwork state.
func (s *AttendanceService) Confirm(ctx context.Context, meetingID, actorID string, req *dto.ConfirmScanRequest) (*dto.ConfirmResponse, *errors.AppError) {
	unlock := s.locks.Lock(meetingID)
	defer unlock()

	meeting, appErr := s.loadMeeting(ctx, meetingID)
	if appErr != nil {
		return nil, appErr
	}
	if !meeting.IsParticipant(actorID) {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Not a participant of this meeting", nil)
	}

	record := &entity.Attendance{
		MeetingID:   meetingID,
		ActorID:     actorID,
		CheckedInAt: s.now().UTC(),
		ScannerID:   req.ScannerID,
		Source:      req.Source,
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to record scan", err)
	}

	records, err := s.repo.ListByMeeting(ctx, meetingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to read attendance", err)
	}
	first, happened := derive(records)

	resp := &dto.ConfirmResponse{Happened: happened, FirstArrivedActorID: first}
	if meeting.Status != meetingEntity.StatusConfirmed {
		resp.StatusWarning = "meeting is not confirmed; scan recorded anyway"
		logger.Warn("AttendanceService:Confirm on unconfirmed meeting",
			"meeting_id", meetingID,
			"actor_id", actorID,
			"status", meeting.Status,
		)
	}

	logger.Info("AttendanceService:Confirm",
		"meeting_id", meetingID,
		"actor_id", actorID,
		"happened", happened,
		"source", req.Source,
	)
	return resp, nil
}

func (s *AttendanceService) loadMeeting(ctx context.Context, meetingID string) (*meetingEntity.Meeting, *errors.AppError) {
	if meetingID == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Meeting ID is required", nil)
	}
	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get meeting", err)
	}
	if meeting == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Meeting not found", nil)
	}
	return meeting, nil
}

// derive computes the reconciled state. happened is a simple conjunction of
// both check-ins; first arrival is the strictly earliest timestamp, ties
// broken by lexical actor id for determinism.
func derive(records []entity.Attendance) (firstArrived string, happened bool) {
	var first *entity.Attendance
	for i := range records {
		r := &records[i]
		if first == nil {
			first = r
			continue
		}
		if r.CheckedInAt.Before(first.CheckedInAt) ||
			(r.CheckedInAt.Equal(first.CheckedInAt) && r.ActorID < first.ActorID) {
			first = r
		}
	}
	if first != nil {
		firstArrived = first.ActorID
	}
	return firstArrived, len(records) >= 2
}

func presenceOf(records []entity.Attendance, actorID string) dto.ParticipantPresence {
	for i := range records {
		if records[i].ActorID == actorID {
			at := records[i].CheckedInAt
			return dto.ParticipantPresence{CheckedIn: true, CheckedInAt: &at}
		}
	}
	return dto.ParticipantPresence{}
}
