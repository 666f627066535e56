package service

import "event-networking-api/modules/suggestion/entity"

// Scorer ranks a candidate pairing. Implementations must be deterministic for
// a fixed participant snapshot so operator views and fixtures are stable.
type Scorer interface {
	Score(a, b entity.Participant) float64
}

// roleAffinityScorer is the default heuristic: complementary roles first,
// shared interests as a tiebreaker. Values are arbitrary but fixed.
type roleAffinityScorer struct{}

func NewDefaultScorer() Scorer {
	return roleAffinityScorer{}
}

var roleAffinity = map[[2]string]float64{
	{"attendee", "exhibitor"}:  1.0,
	{"attendee", "speaker"}:    0.8,
	{"exhibitor", "speaker"}:   0.6,
	{"attendee", "attendee"}:   0.5,
	{"exhibitor", "exhibitor"}: 0.3,
	{"speaker", "speaker"}:     0.3,
}

func (roleAffinityScorer) Score(a, b entity.Participant) float64 {
	r1, r2 := a.Role, b.Role
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	score := roleAffinity[[2]string{r1, r2}]

	shared := 0
	tags := make(map[string]bool, len(a.Interests))
	for _, t := range a.Interests {
		tags[t] = true
	}
	for _, t := range b.Interests {
		if tags[t] {
			shared++
		}
	}
	// Each shared interest adds a small, bounded bump.
	score += 0.1 * float64(min(shared, 5))

	return score
}
