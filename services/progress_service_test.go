package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iismail06/Skincare-tracker-SKYN/models"
)

var testToday = time.Date(2025, time.June, 18, 14, 30, 0, 0, time.UTC) // a Wednesday

func TestTodayProgressNoSteps(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "empty@example.com")
	svc := NewProgressService(db)

	summary, err := svc.TodayProgress(user.ID, testToday)
	require.NoError(t, err)
	assert.Equal(t, ProgressSummary{CompletedSteps: 0, TotalSteps: 0, Percent: 0}, summary)
}

func TestTodayProgressCountsAndPercent(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "morning@example.com")
	routine := createRoutine(t, db, user.ID, "AM", models.RoutineMorning, "Cleanse", "Moisturize")
	svc := NewProgressService(db)

	completeDay(t, db, user.ID, testToday, routine)

	summary, err := svc.TodayProgress(user.ID, testToday)
	require.NoError(t, err)
	assert.Equal(t, ProgressSummary{CompletedSteps: 2, TotalSteps: 2, Percent: 100}, summary)

	// Uncheck "Cleanse": back to 1/2, 50%.
	_, err = svc.ToggleStepCompletion(user.ID, routine.Steps[0].ID, testToday, testToday)
	require.NoError(t, err)

	summary, err = svc.TodayProgress(user.ID, testToday)
	require.NoError(t, err)
	assert.Equal(t, ProgressSummary{CompletedSteps: 1, TotalSteps: 2, Percent: 50}, summary)
}

func TestTodayProgressIgnoresNonDailyRoutines(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "weekly@example.com")
	createRoutine(t, db, user.ID, "Masks", models.RoutineWeekly, "Clay mask")
	svc := NewProgressService(db)

	summary, err := svc.TodayProgress(user.ID, testToday)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalSteps)
}

func TestCurrentStreakZeroWithoutDailySteps(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "nodaily@example.com")
	// A weekly routine full of history must not produce a streak.
	weekly := createRoutine(t, db, user.ID, "Masks", models.RoutineWeekly, "Clay mask")
	for i := 0; i < 10; i++ {
		completeDay(t, db, user.ID, testToday.AddDate(0, 0, -i), weekly)
	}
	svc := NewProgressService(db)

	streak, err := svc.CurrentStreak(user.ID, testToday)
	require.NoError(t, err)
	assert.Equal(t, 0, streak)
}

func TestCurrentStreakConsecutiveDays(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "streak@example.com")
	morning := createRoutine(t, db, user.ID, "AM", models.RoutineMorning, "Cleanse", "SPF")
	evening := createRoutine(t, db, user.ID, "PM", models.RoutineEvening, "Cleanse", "Retinol")
	svc := NewProgressService(db)

	// Five consecutive full days ending today, then a gap.
	for i := 0; i < 5; i++ {
		completeDay(t, db, user.ID, testToday.AddDate(0, 0, -i), morning, evening)
	}
	completeDay(t, db, user.ID, testToday.AddDate(0, 0, -6), morning, evening)

	streak, err := svc.CurrentStreak(user.ID, testToday)
	require.NoError(t, err)
	assert.Equal(t, 5, streak)
}

func TestCurrentStreakBreaksOnPartialDay(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "partial@example.com")
	morning := createRoutine(t, db, user.ID, "AM", models.RoutineMorning, "Cleanse", "SPF")
	svc := NewProgressService(db)

	completeDay(t, db, user.ID, testToday, morning)
	// Yesterday only one of two steps was done.
	yesterday := testToday.AddDate(0, 0, -1)
	ts := yesterday.Add(time.Hour)
	require.NoError(t, db.Create(&models.DailyCompletion{
		UserID:        user.ID,
		RoutineStepID: morning.Steps[0].ID,
		Date:          DateOnly(yesterday),
		Completed:     true,
		CompletedAt:   &ts,
	}).Error)

	streak, err := svc.CurrentStreak(user.ID, testToday)
	require.NoError(t, err)
	assert.Equal(t, 1, streak)
}

func TestToggleStepCompletionIsInvolution(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "toggle@example.com")
	routine := createRoutine(t, db, user.ID, "AM", models.RoutineMorning, "Cleanse")
	svc := NewProgressService(db)
	stepID := routine.Steps[0].ID

	first, err := svc.ToggleStepCompletion(user.ID, stepID, testToday, testToday)
	require.NoError(t, err)
	assert.True(t, first.Completed)
	assert.Equal(t, "Cleanse", first.StepName)

	second, err := svc.ToggleStepCompletion(user.ID, stepID, testToday, testToday)
	require.NoError(t, err)
	assert.False(t, second.Completed)

	// Exactly one row for the (user, step, date) triple, with CompletedAt cleared.
	var rows []models.DailyCompletion
	require.NoError(t, db.Where("routine_step_id = ?", stepID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Completed)
	assert.Nil(t, rows[0].CompletedAt)
}

func TestToggleStepCompletionRejectsForeignStep(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner@example.com")
	other := createUser(t, db, "other@example.com")
	routine := createRoutine(t, db, owner.ID, "AM", models.RoutineMorning, "Cleanse")
	svc := NewProgressService(db)

	_, err := svc.ToggleStepCompletion(other.ID, routine.Steps[0].ID, testToday, testToday)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkRoutineCompleteForcesAllSteps(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "mark@example.com")
	routine := createRoutine(t, db, user.ID, "PM", models.RoutineEvening, "Cleanse", "Serum", "Moisturize")
	svc := NewProgressService(db)

	// One step already done; its CompletedAt must survive.
	earlier := testToday.Add(-2 * time.Hour)
	require.NoError(t, db.Create(&models.DailyCompletion{
		UserID:        user.ID,
		RoutineStepID: routine.Steps[0].ID,
		Date:          DateOnly(testToday),
		Completed:     true,
		CompletedAt:   &earlier,
	}).Error)

	count, err := svc.MarkRoutineComplete(user.ID, routine.ID, testToday, testToday)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	summary, err := svc.TodayProgress(user.ID, testToday)
	require.NoError(t, err)
	assert.Equal(t, 100, summary.Percent)

	var first models.DailyCompletion
	require.NoError(t, db.Where("routine_step_id = ?", routine.Steps[0].ID).First(&first).Error)
	require.NotNil(t, first.CompletedAt)
	assert.True(t, first.CompletedAt.Equal(earlier))

	// Never un-completes: a second call leaves everything done.
	count, err = svc.MarkRoutineComplete(user.ID, routine.ID, testToday, testToday)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	summary, err = svc.TodayProgress(user.ID, testToday)
	require.NoError(t, err)
	assert.Equal(t, 100, summary.Percent)
}

func TestMarkRoutineCompleteRejectsForeignRoutine(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner2@example.com")
	other := createUser(t, db, "other2@example.com")
	routine := createRoutine(t, db, owner.ID, "AM", models.RoutineMorning, "Cleanse")
	svc := NewProgressService(db)

	_, err := svc.MarkRoutineComplete(other.ID, routine.ID, testToday, testToday)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWeekStripStatuses(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "week@example.com")
	morning := createRoutine(t, db, user.ID, "AM", models.RoutineMorning, "Cleanse")
	svc := NewProgressService(db)

	// testToday is Wednesday. Monday fully done, Tuesday untouched.
	completeDay(t, db, user.ID, testToday.AddDate(0, 0, -2), morning)

	strip, err := svc.WeekStrip(user.ID, testToday)
	require.NoError(t, err)
	require.Len(t, strip, 7)

	letters := make([]string, 0, 7)
	statuses := make([]string, 0, 7)
	for _, day := range strip {
		letters = append(letters, day.Letter)
		statuses = append(statuses, day.Status)
	}
	assert.Equal(t, []string{"M", "T", "W", "T", "F", "S", "S"}, letters)
	assert.Equal(t, []string{
		WeekCompleted, WeekIncomplete, WeekCurrent,
		WeekFuture, WeekFuture, WeekFuture, WeekFuture,
	}, statuses)
	assert.Equal(t, "2025-06-16", strip[0].Date)
	assert.Equal(t, "2025-06-22", strip[6].Date)
}

func TestWeekStripStartsMondayWhenTodayIsSunday(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "sunday@example.com")
	svc := NewProgressService(db)

	sunday := time.Date(2025, time.June, 22, 10, 0, 0, 0, time.UTC)
	strip, err := svc.WeekStrip(user.ID, sunday)
	require.NoError(t, err)
	require.Len(t, strip, 7)
	assert.Equal(t, "2025-06-16", strip[0].Date)
	assert.Equal(t, WeekCurrent, strip[6].Status)
}

func TestMonthCalendarFebruaryHas28Days(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "feb@example.com")
	svc := NewProgressService(db)

	cal, err := svc.MonthCalendar(user.ID, 2025, time.February)
	require.NoError(t, err)
	require.Len(t, cal.Days, 28)
	valid := map[string]bool{DayNotDone: true, DayMorning: true, DayEvening: true, DayCompleted: true}
	for _, day := range cal.Days {
		assert.True(t, valid[day.Status], "unexpected status %q on %s", day.Status, day.Date)
	}
	assert.Equal(t, "2025-02-01", cal.Days[0].Date)
	assert.Equal(t, "2025-02-28", cal.Days[27].Date)
}

func TestMonthCalendarStatusesUseAnyCompletion(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "cal@example.com")
	morning := createRoutine(t, db, user.ID, "AM", models.RoutineMorning, "Cleanse", "SPF")
	evening := createRoutine(t, db, user.ID, "PM", models.RoutineEvening, "Cleanse")
	svc := NewProgressService(db)

	// June 2: only one of two morning steps done. The calendar's any-completion
	// rule still colors the day "morning" even though the streak rule would not.
	day2 := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	ts := day2.Add(time.Hour)
	require.NoError(t, db.Create(&models.DailyCompletion{
		UserID:        user.ID,
		RoutineStepID: morning.Steps[0].ID,
		Date:          day2,
		Completed:     true,
		CompletedAt:   &ts,
	}).Error)

	// June 3: evening only.
	completeDay(t, db, user.ID, day2.AddDate(0, 0, 1), evening)
	// June 4: both.
	completeDay(t, db, user.ID, day2.AddDate(0, 0, 2), morning, evening)

	cal, err := svc.MonthCalendar(user.ID, 2025, time.June)
	require.NoError(t, err)
	require.Len(t, cal.Days, 30)
	assert.Equal(t, DayNotDone, cal.Days[0].Status)
	assert.Equal(t, DayMorning, cal.Days[1].Status)
	assert.Equal(t, DayEvening, cal.Days[2].Status)
	assert.Equal(t, DayCompleted, cal.Days[3].Status)
}

func TestMonthCalendarDueMarkers(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "due@example.com")
	createRoutine(t, db, user.ID, "Masks", models.RoutineWeekly, "Clay mask")
	createRoutine(t, db, user.ID, "Peel", models.RoutineMonthly, "Chemical peel")
	svc := NewProgressService(db)

	cal, err := svc.MonthCalendar(user.ID, 2025, time.June)
	require.NoError(t, err)

	// June 2025 has five Mondays: 2, 9, 16, 23, 30.
	require.Len(t, cal.WeeklyDue, 5)
	assert.Equal(t, "2025-06-02", cal.WeeklyDue[0].Date)
	assert.Equal(t, "2025-06-30", cal.WeeklyDue[4].Date)
	assert.Equal(t, "Clay mask", cal.WeeklyDue[0].StepName)
	assert.Equal(t, models.RoutineWeekly, cal.WeeklyDue[0].RoutineType)

	require.Len(t, cal.MonthlyDue, 1)
	assert.Equal(t, "2025-06-01", cal.MonthlyDue[0].Date)
	assert.Equal(t, "Chemical peel", cal.MonthlyDue[0].StepName)
}
