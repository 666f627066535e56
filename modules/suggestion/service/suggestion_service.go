package service

import (
	"context"
	"sort"
	"time"

	"event-networking-api/core/errors"
	meetingRepo "event-networking-api/modules/meeting/repository"
	slotService "event-networking-api/modules/slot/service"
	"event-networking-api/modules/suggestion/dto"
	"event-networking-api/modules/suggestion/repository"
)

// SuggestionService emits scored candidate pairings for the operator
// matchmaking screen. Stateless: approving a suggestion goes through the
// normal meeting create operation and the feed remembers nothing.
type SuggestionService struct {
	participants repository.ParticipantRepositoryInterface
	meetings     meetingRepo.MeetingRepositoryInterface
	ledger       slotService.SlotServiceInterface
	scorer       Scorer
	now          func() time.Time
}

// SuggestionServiceInterface defines the service contract.
type SuggestionServiceInterface interface {
	NextBatch(ctx context.Context, eventID string, count int) (*dto.SuggestionsResponse, *errors.AppError)
}

func NewSuggestionService(
	participants repository.ParticipantRepositoryInterface,
	meetings meetingRepo.MeetingRepositoryInterface,
	ledger slotService.SlotServiceInterface,
	scorer Scorer,
) SuggestionServiceInterface {
	if scorer == nil {
		scorer = NewDefaultScorer()
	}
	return &SuggestionService{
		participants: participants,
		meetings:     meetings,
		ledger:       ledger,
		scorer:       scorer,
		now:          time.Now,
	}
}

// NextBatch scores every candidate pair without a live meeting and returns
// the top count, ordered by score then lexical pair ids for determinism. The
// default slot hint is the earliest slot with non-virtual headroom, or nil
// when the horizon is full (the operator then picks manually).
func (s *SuggestionService) NextBatch(ctx context.Context, eventID string, count int) (*dto.SuggestionsResponse, *errors.AppError) {
	if eventID == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Event ID is required", nil)
	}
	if count < 1 {
		count = 10
	}

	participants, err := s.participants.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list participants", err)
	}

	live, err := s.meetings.ListActiveByEvent(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list meetings", err)
	}
	paired := make(map[[2]string]bool, len(live))
	for _, m := range live {
		paired[pairKey(m.SenderID, m.ReceiverID)] = true
	}

	suggestions := make([]dto.Suggestion, 0)
	for i := 0; i < len(participants); i++ {
		for j := i + 1; j < len(participants); j++ {
			a, b := participants[i], participants[j]
			if a.ActorID == b.ActorID || paired[pairKey(a.ActorID, b.ActorID)] {
				continue
			}
			suggestions = append(suggestions, dto.Suggestion{
				ActorA:     a.ActorID,
				ActorARole: a.Role,
				ActorB:     b.ActorID,
				ActorBRole: b.Role,
				Score:      s.scorer.Score(a, b),
			})
		}
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		if suggestions[i].ActorA != suggestions[j].ActorA {
			return suggestions[i].ActorA < suggestions[j].ActorA
		}
		return suggestions[i].ActorB < suggestions[j].ActorB
	})
	if len(suggestions) > count {
		suggestions = suggestions[:count]
	}

	defaultSlot, appErr := s.ledger.NextAvailableSlot(ctx, eventID, s.now())
	if appErr != nil {
		return nil, appErr
	}
	for i := range suggestions {
		suggestions[i].DefaultSlot = defaultSlot
	}

	return &dto.SuggestionsResponse{EventID: eventID, Suggestions: suggestions}, nil
}

func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}
