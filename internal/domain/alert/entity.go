// Package alert contains the repeated-pattern detection rule and the
// severity mapping used to notify counselors about concerning students.
//
// The rule is strict: an alert fires only when the student's three most
// recent check-ins all carry the same tracked emotion. Mixed sequences of
// any composition never fire, regardless of how negative they look.
package alert

import (
	"errors"
	"time"

	"github.com/emoclass/emoclass-backend/internal/domain/checkin"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Severity classifies how urgently a detected pattern needs follow-up.
type Severity string

const (
	// SeverityHigh - repeated distress, counseling within 1-2 workdays.
	SeverityHigh Severity = "high"
	// SeverityMedium - repeated fatigue, health check within 2-3 days.
	SeverityMedium Severity = "medium"
	// SeverityLow - repeated flat energy, informal observation.
	SeverityLow Severity = "low"
)

// IsValid checks that the severity is known.
func (s Severity) IsValid() bool {
	return s == SeverityHigh || s == SeverityMedium || s == SeverityLow
}

// PatternWindow is the number of consecutive check-ins the rule inspects.
const PatternWindow = 3

// ══════════════════════════════════════════════════════════════════════════════
// TRACKED SET
// ══════════════════════════════════════════════════════════════════════════════

// trackedSeverities maps each tracked emotion to its severity. Emotions not
// in this map (happy, neutral) never produce alerts.
var trackedSeverities = map[checkin.Emotion]Severity{
	checkin.EmotionStressed: SeverityHigh,
	checkin.EmotionSleepy:   SeverityMedium,
	checkin.EmotionNormal:   SeverityLow,
}

// IsTracked reports whether the detector monitors this emotion for
// repeated-pattern alerts.
func IsTracked(e checkin.Emotion) bool {
	_, ok := trackedSeverities[e]
	return ok
}

// SeverityFor returns the severity for a tracked emotion.
func SeverityFor(e checkin.Emotion) (Severity, bool) {
	s, ok := trackedSeverities[e]
	return s, ok
}

// TrackedEmotions lists the monitored emotions by descending severity.
func TrackedEmotions() []checkin.Emotion {
	return []checkin.Emotion{checkin.EmotionStressed, checkin.EmotionSleepy, checkin.EmotionNormal}
}

// ══════════════════════════════════════════════════════════════════════════════
// ALERT EVENT
// ══════════════════════════════════════════════════════════════════════════════

// Event is the transient result of one detection pass. It lives only for
// the duration of the evaluation and is never persisted.
type Event struct {
	// StudentID - the student whose window matched.
	StudentID string

	// Emotion - the unanimous emotion across the window.
	Emotion checkin.Emotion

	// Severity - the severity mapped from the emotion.
	Severity Severity

	// Triggering - the check-ins that formed the pattern, newest first.
	Triggering []*checkin.Checkin

	// DetectedAt - when the evaluation ran.
	DetectedAt time.Time
}

// ErrNotClassifiable is returned by Classify when the window does not form
// a notifiable pattern.
var ErrNotClassifiable = errors.New("window does not form a notifiable pattern")

// Classify inspects a window of recent check-ins, newest first, and returns
// an alert event when all PatternWindow entries share one tracked emotion.
//
// A window shorter than PatternWindow means insufficient history and is not
// classifiable; neither is any non-unanimous window. This is an exact-match
// rule, not a majority or threshold rule.
func Classify(studentID string, window []*checkin.Checkin) (*Event, error) {
	if len(window) < PatternWindow {
		return nil, ErrNotClassifiable
	}

	window = window[:PatternWindow]
	first := window[0].Emotion
	for _, c := range window[1:] {
		if c.Emotion != first {
			return nil, ErrNotClassifiable
		}
	}

	severity, tracked := trackedSeverities[first]
	if !tracked {
		return nil, ErrNotClassifiable
	}

	return &Event{
		StudentID:  studentID,
		Emotion:    first,
		Severity:   severity,
		Triggering: window,
		DetectedAt: time.Now().UTC(),
	}, nil
}
