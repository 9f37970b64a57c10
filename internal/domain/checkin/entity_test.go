package checkin

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCheckin_Valid(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)
	c, err := NewCheckin(NewCheckinParams{
		ID:        "chk-1",
		StudentID: "s-1",
		Emotion:   EmotionHappy,
		Note:      "  siap belajar  ",
		Now:       now,
	})

	require.NoError(t, err)
	assert.Equal(t, "chk-1", c.ID)
	assert.Equal(t, "s-1", c.StudentID)
	assert.Equal(t, EmotionHappy, c.Emotion)
	assert.Equal(t, "siap belajar", c.Note, "note should be trimmed")
	assert.Equal(t, now, c.CreatedAt)
}

func TestNewCheckin_EmptyStudentID(t *testing.T) {
	_, err := NewCheckin(NewCheckinParams{
		ID:        "chk-1",
		StudentID: "   ",
		Emotion:   EmotionHappy,
	})

	assert.ErrorIs(t, err, ErrInvalidStudentID)
}

func TestNewCheckin_InvalidEmotion(t *testing.T) {
	cases := []struct {
		name    string
		emotion Emotion
	}{
		{"unknown value", "angry"},
		{"wrong case", "Happy"},
		{"upper case", "STRESSED"},
		{"whitespace padding", " happy"},
		{"empty", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCheckin(NewCheckinParams{
				ID:        "chk-1",
				StudentID: "s-1",
				Emotion:   tc.emotion,
			})
			assert.ErrorIs(t, err, ErrInvalidEmotion)
		})
	}
}

func TestNewCheckin_ValidationOrder(t *testing.T) {
	// A request broken in several ways reports the student ID problem first.
	_, err := NewCheckin(NewCheckinParams{
		ID:        "chk-1",
		StudentID: "",
		Emotion:   "angry",
		Note:      strings.Repeat("x", MaxNoteLength+1),
	})

	assert.ErrorIs(t, err, ErrInvalidStudentID)
}

func TestNewCheckin_NoteLengthBoundary(t *testing.T) {
	exact := strings.Repeat("a", MaxNoteLength)
	c, err := NewCheckin(NewCheckinParams{
		ID:        "chk-1",
		StudentID: "s-1",
		Emotion:   EmotionNeutral,
		Note:      exact,
	})
	require.NoError(t, err)
	assert.Equal(t, exact, c.Note)

	_, err = NewCheckin(NewCheckinParams{
		ID:        "chk-1",
		StudentID: "s-1",
		Emotion:   EmotionNeutral,
		Note:      strings.Repeat("a", MaxNoteLength+1),
	})
	assert.ErrorIs(t, err, ErrNoteTooLong)
}

func TestNewCheckin_NoteTrimmedBeforeLengthCheck(t *testing.T) {
	// 100 content runes surrounded by whitespace still fit.
	note := "  " + strings.Repeat("b", MaxNoteLength) + "  "
	c, err := NewCheckin(NewCheckinParams{
		ID:        "chk-1",
		StudentID: "s-1",
		Emotion:   EmotionSleepy,
		Note:      note,
	})

	require.NoError(t, err)
	assert.Len(t, []rune(c.Note), MaxNoteLength)
}

func TestNewCheckin_NoteLengthCountsRunes(t *testing.T) {
	// Multibyte characters count as one rune each.
	note := strings.Repeat("é", MaxNoteLength)
	_, err := NewCheckin(NewCheckinParams{
		ID:        "chk-1",
		StudentID: "s-1",
		Emotion:   EmotionStressed,
		Note:      note,
	})

	assert.NoError(t, err)
}

func TestEmotion_IsValid(t *testing.T) {
	for _, e := range AllEmotions() {
		assert.True(t, e.IsValid(), "expected %q to be valid", e)
	}
	assert.False(t, Emotion("sad").IsValid())
	assert.False(t, Emotion("Neutral").IsValid())
}

func TestEmotion_IsPositive(t *testing.T) {
	assert.True(t, EmotionHappy.IsPositive())
	assert.True(t, EmotionNeutral.IsPositive())
	assert.False(t, EmotionNormal.IsPositive())
	assert.False(t, EmotionStressed.IsPositive())
	assert.False(t, EmotionSleepy.IsPositive())
}

func TestEmotion_Label(t *testing.T) {
	assert.Equal(t, "Senang", EmotionHappy.Label())
	assert.Equal(t, "Sedih", EmotionStressed.Label())
	assert.Equal(t, "Mengantuk", EmotionSleepy.Label())
}
