package translate

import (
	"strings"

	"github.com/ALLiDoizCode/adp-relay/core"
)

// Match is a scored handler candidate.
type Match struct {
	Handler    *core.HandlerDescriptor
	Confidence float64
}

// Matcher scores an actor's declared handlers against free-form request
// text. Scoring is rule-based: action-name substring, description word
// overlap, declared parameter mentions, and a domain-synonym bonus.
type Matcher struct {
	// Threshold is the minimum score a candidate must exceed.
	Threshold float64
}

// NewMatcher creates a Matcher with the given acceptance threshold.
func NewMatcher(threshold float64) *Matcher {
	return &Matcher{Threshold: threshold}
}

// Match returns the best-scoring handler with its confidence, or nil when
// no handler's score exceeds the threshold. Ties between equal top scores
// resolve to the first handler in declaration order.
func (m *Matcher) Match(request string, handlers []core.HandlerDescriptor) *Match {
	req := normalize(request)
	if req == "" || len(handlers) == 0 {
		return nil
	}

	var best *Match
	for i := range handlers {
		score := m.score(req, &handlers[i])
		if best == nil || score > best.Confidence {
			best = &Match{Handler: &handlers[i], Confidence: score}
		}
	}

	if best == nil || best.Confidence <= m.Threshold {
		return nil
	}
	return best
}

// score computes: 0.6 when the action name appears as a substring of the
// request, 0.3 times the fraction of description words also present,
// 0.1 per declared parameter name mentioned, and a 0.4 bonus when any
// domain synonym for the action appears.
func (m *Matcher) score(req string, h *core.HandlerDescriptor) float64 {
	var score float64

	if strings.Contains(req, strings.ToLower(h.Action)) {
		score += 0.6
	}

	if words := strings.Fields(normalize(h.Description)); len(words) > 0 {
		present := 0
		for _, w := range words {
			if strings.Contains(req, w) {
				present++
			}
		}
		score += 0.3 * float64(present) / float64(len(words))
	}

	for _, p := range h.Parameters {
		if strings.Contains(req, strings.ToLower(p.Name)) {
			score += 0.1
		}
	}

	for _, syn := range synonymsFor(h.Action) {
		if strings.Contains(req, syn) {
			score += 0.4
			break
		}
	}

	return score
}
