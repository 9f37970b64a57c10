package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emoclass/emoclass-backend/internal/domain/checkin"
	"github.com/emoclass/emoclass-backend/internal/domain/student"
	"github.com/emoclass/emoclass-backend/pkg/timeutil"
)

func dashboardFixture() (*fakeStudentRepo, *fakeClassRepo, *fakeCheckinRepo) {
	studentRepo := &fakeStudentRepo{}
	studentRepo.add("s-1", "Budi Santoso", "c-1")
	studentRepo.add("s-2", "Siti Aminah", "c-1")
	studentRepo.add("s-3", "Rudi Hartono", "c-1")

	classRepo := newFakeClassRepo()
	classRepo.add("c-1", "7A")

	return studentRepo, classRepo, &fakeCheckinRepo{}
}

func TestGetClassDashboard_Aggregation(t *testing.T) {
	studentRepo, classRepo, checkinRepo := dashboardFixture()

	now := timeutil.Now()
	checkinRepo.seed("s-1", checkin.EmotionHappy, now)
	checkinRepo.seed("s-2", checkin.EmotionStressed, now)

	handler := NewGetClassDashboardHandler(studentRepo, classRepo, checkinRepo, nil, nil)

	dto, err := handler.Handle(context.Background(), GetClassDashboardQuery{ClassID: "c-1"})
	require.NoError(t, err)

	assert.Equal(t, "7A", dto.ClassName)
	assert.Equal(t, 3, dto.TotalStudents)
	assert.Equal(t, 2, dto.CheckedIn)
	assert.Equal(t, 1, dto.NotCheckedIn)

	assert.Equal(t, 1, dto.Distribution["happy"])
	assert.Equal(t, 1, dto.Distribution["stressed"])
	assert.Equal(t, 0, dto.Distribution["sleepy"])

	assert.Equal(t, 1, dto.PositiveCount)
	assert.Equal(t, 1, dto.NeedsSupportCount)
	assert.Equal(t, 0, dto.TiredCount)

	require.Len(t, dto.NeedsAttention, 1)
	assert.Equal(t, "s-2", dto.NeedsAttention[0].StudentID)
	assert.Equal(t, "Sedih", dto.NeedsAttention[0].EmotionLabel)
}

func TestGetClassDashboard_RosterIncludesMissingStudents(t *testing.T) {
	studentRepo, classRepo, checkinRepo := dashboardFixture()
	checkinRepo.seed("s-3", checkin.EmotionNeutral, timeutil.Now())

	handler := NewGetClassDashboardHandler(studentRepo, classRepo, checkinRepo, nil, nil)

	dto, err := handler.Handle(context.Background(), GetClassDashboardQuery{ClassID: "c-1"})
	require.NoError(t, err)

	require.Len(t, dto.Students, 3)

	// Checked-in rows come before absent rows.
	assert.True(t, dto.Students[0].CheckedIn)
	assert.False(t, dto.Students[1].CheckedIn)
	assert.False(t, dto.Students[2].CheckedIn)
	assert.Empty(t, dto.Students[1].Emotion)
}

func TestGetClassDashboard_IgnoresOtherDays(t *testing.T) {
	studentRepo, classRepo, checkinRepo := dashboardFixture()

	now := timeutil.Now()
	checkinRepo.seed("s-1", checkin.EmotionStressed, now.AddDate(0, 0, -1))

	handler := NewGetClassDashboardHandler(studentRepo, classRepo, checkinRepo, nil, nil)

	dto, err := handler.Handle(context.Background(), GetClassDashboardQuery{ClassID: "c-1"})
	require.NoError(t, err)

	assert.Equal(t, 0, dto.CheckedIn)
	assert.Equal(t, 3, dto.NotCheckedIn)
}

func TestGetClassDashboard_ClassNotFound(t *testing.T) {
	studentRepo, classRepo, checkinRepo := dashboardFixture()

	handler := NewGetClassDashboardHandler(studentRepo, classRepo, checkinRepo, nil, nil)

	_, err := handler.Handle(context.Background(), GetClassDashboardQuery{ClassID: "ghost"})
	assert.ErrorIs(t, err, student.ErrClassNotFound)
}

func TestGetClassDashboard_MissingClassID(t *testing.T) {
	studentRepo, classRepo, checkinRepo := dashboardFixture()

	handler := NewGetClassDashboardHandler(studentRepo, classRepo, checkinRepo, nil, nil)

	_, err := handler.Handle(context.Background(), GetClassDashboardQuery{})
	assert.Error(t, err)
}

func TestGetClassDashboard_CacheReadThrough(t *testing.T) {
	studentRepo, classRepo, checkinRepo := dashboardFixture()
	checkinRepo.seed("s-1", checkin.EmotionHappy, timeutil.Now())

	cache := newFakeDashboardCache()
	handler := NewGetClassDashboardHandler(studentRepo, classRepo, checkinRepo, cache, nil)

	first, err := handler.Handle(context.Background(), GetClassDashboardQuery{ClassID: "c-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	second, err := handler.Handle(context.Background(), GetClassDashboardQuery{ClassID: "c-1"})
	require.NoError(t, err)

	// Second read is served from the cache without another write.
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 2, cache.gets)
	assert.Equal(t, first, second)
}

func TestGetClassDashboard_CacheFailureFallsBack(t *testing.T) {
	studentRepo, classRepo, checkinRepo := dashboardFixture()
	checkinRepo.seed("s-1", checkin.EmotionHappy, timeutil.Now())

	cache := newFakeDashboardCache()
	cache.getErr = errCacheDown

	handler := NewGetClassDashboardHandler(studentRepo, classRepo, checkinRepo, cache, nil)

	dto, err := handler.Handle(context.Background(), GetClassDashboardQuery{ClassID: "c-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, dto.CheckedIn)
	assert.False(t, errors.Is(err, errCacheDown))
}
