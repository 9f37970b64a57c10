// Package checkin contains the daily emotional check-in domain model.
// This is core business logic - no external dependencies here.
package checkin

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Emotion is one of the five fixed mood categories a student can pick.
// Validation is exact-match: no case folding, no whitespace tolerance.
type Emotion string

const (
	EmotionHappy    Emotion = "happy"
	EmotionNeutral  Emotion = "neutral"
	EmotionNormal   Emotion = "normal"
	EmotionStressed Emotion = "stressed"
	EmotionSleepy   Emotion = "sleepy"
)

// AllEmotions lists every valid emotion in display order.
func AllEmotions() []Emotion {
	return []Emotion{EmotionHappy, EmotionNeutral, EmotionNormal, EmotionStressed, EmotionSleepy}
}

// IsValid checks that the emotion is a member of the closed enumeration.
func (e Emotion) IsValid() bool {
	switch e {
	case EmotionHappy, EmotionNeutral, EmotionNormal, EmotionStressed, EmotionSleepy:
		return true
	default:
		return false
	}
}

// String returns the string representation of the emotion.
func (e Emotion) String() string {
	return string(e)
}

// Label returns the Indonesian display label for the emotion.
func (e Emotion) Label() string {
	switch e {
	case EmotionHappy:
		return "Senang"
	case EmotionNeutral:
		return "Baik"
	case EmotionNormal:
		return "Biasa Saja"
	case EmotionStressed:
		return "Sedih"
	case EmotionSleepy:
		return "Mengantuk"
	default:
		return string(e)
	}
}

// Emoji returns the emoji shown next to the emotion.
func (e Emotion) Emoji() string {
	switch e {
	case EmotionHappy:
		return "😊"
	case EmotionNeutral:
		return "👍"
	case EmotionNormal:
		return "😐"
	case EmotionStressed:
		return "😔"
	case EmotionSleepy:
		return "😴"
	default:
		return ""
	}
}

// IsPositive reports whether the emotion counts toward the positive-mood
// share on the dashboard.
func (e Emotion) IsPositive() bool {
	return e == EmotionHappy || e == EmotionNeutral
}

// MaxNoteLength is the maximum note length after trimming whitespace.
const MaxNoteLength = 100

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: CHECKIN
// ══════════════════════════════════════════════════════════════════════════════

// Checkin is one student's daily emotional-state submission. Records are
// immutable once created; the timestamp is server-assigned.
type Checkin struct {
	// ID - unique identifier (UUID in string form).
	ID string

	// StudentID - the student who submitted the check-in.
	StudentID string

	// Emotion - the selected mood category.
	Emotion Emotion

	// Note - optional free-text note, trimmed, at most MaxNoteLength chars.
	Note string

	// CreatedAt - server-assigned creation time. Never updated.
	CreatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidStudentID - the student reference is missing or malformed.
	ErrInvalidStudentID = errors.New("invalid student id")

	// ErrInvalidEmotion - the value is not a member of the fixed enumeration.
	ErrInvalidEmotion = errors.New("invalid emotion: must be one of happy, neutral, normal, stressed, sleepy")

	// ErrNoteTooLong - the note exceeds MaxNoteLength after trimming.
	ErrNoteTooLong = errors.New("note too long: must be at most 100 characters")

	// ErrAlreadyCheckedInToday - the student already has a check-in today.
	ErrAlreadyCheckedInToday = errors.New("student already checked in today")

	// ErrCheckinNotFound - no such check-in.
	ErrCheckinNotFound = errors.New("checkin not found")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewCheckinParams contains parameters for creating a check-in.
type NewCheckinParams struct {
	ID        string
	StudentID string
	Emotion   Emotion
	Note      string
	Now       time.Time
}

// NewCheckin creates a check-in with all fields validated. Validation order
// is fixed: student reference, then emotion, then note length.
func NewCheckin(params NewCheckinParams) (*Checkin, error) {
	if params.ID == "" {
		return nil, errors.New("checkin id is required")
	}

	if strings.TrimSpace(params.StudentID) == "" {
		return nil, ErrInvalidStudentID
	}

	if !params.Emotion.IsValid() {
		return nil, ErrInvalidEmotion
	}

	note := strings.TrimSpace(params.Note)
	if len([]rune(note)) > MaxNoteLength {
		return nil, ErrNoteTooLong
	}

	createdAt := params.Now
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return &Checkin{
		ID:        params.ID,
		StudentID: params.StudentID,
		Emotion:   params.Emotion,
		Note:      note,
		CreatedAt: createdAt,
	}, nil
}

// String returns a string representation for logging.
func (c *Checkin) String() string {
	return fmt.Sprintf("Checkin{ID: %s, Student: %s, Emotion: %s}", c.ID, c.StudentID, c.Emotion)
}
