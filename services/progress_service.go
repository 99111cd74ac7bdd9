package services

import (
	"errors"
	"time"

	"github.com/iismail06/Skincare-tracker-SKYN/models"

	"gorm.io/gorm"
)

// Day statuses in the month calendar.
const (
	DayNotDone   = "not_done"
	DayMorning   = "morning"
	DayEvening   = "evening"
	DayCompleted = "completed"
)

// Day statuses in the weekly strip.
const (
	WeekFuture     = "future"
	WeekCurrent    = "current"
	WeekCompleted  = "completed"
	WeekIncomplete = "incomplete"
)

// ProgressSummary is today's completion count across the user's morning and
// evening routines.
type ProgressSummary struct {
	CompletedSteps int `json:"completed_steps"`
	TotalSteps     int `json:"total_steps"`
	Percent        int `json:"progress_percent"`
}

// WeekDay is one entry of the 7-day strip for the current ISO week.
type WeekDay struct {
	Date   string `json:"date"`
	Letter string `json:"letter"`
	Status string `json:"status"`
}

// CalendarDay is one entry of the month calendar payload.
type CalendarDay struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

// DueItem marks a recurring step due on a particular date.
type DueItem struct {
	Date        string `json:"date"`
	StepName    string `json:"step_name"`
	RoutineType string `json:"routine_type"`
}

// MonthCalendar is the full calendar payload for one month.
type MonthCalendar struct {
	Days       []CalendarDay `json:"days"`
	WeeklyDue  []DueItem     `json:"weekly_due"`
	MonthlyDue []DueItem     `json:"monthly_due"`
}

// ToggleResult reports the new state after toggling a step's completion.
type ToggleResult struct {
	Completed bool
	StepName  string
}

// ProgressService derives dashboard metrics from the completion history and
// applies UI-driven completion writes. Dates are always passed in explicitly;
// nothing here reads the system clock.
type ProgressService struct {
	db *gorm.DB
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{db: db}
}

// DateOnly truncates t to its calendar day in UTC. Every DailyCompletion date
// is stored and queried through this normalization.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// dailyRoutines loads the user's morning and evening routines with their steps.
func (s *ProgressService) dailyRoutines(userID uint) ([]models.Routine, error) {
	var routines []models.Routine
	err := s.db.
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_order ASC") }).
		Where("user_id = ? AND routine_type IN ?", userID, []string{models.RoutineMorning, models.RoutineEvening}).
		Find(&routines).Error
	return routines, err
}

// completedStepIDs returns the IDs among stepIDs that have a completed row for
// the given day.
func (s *ProgressService) completedStepIDs(userID uint, stepIDs []uint, day time.Time) (map[uint]bool, error) {
	done := make(map[uint]bool)
	if len(stepIDs) == 0 {
		return done, nil
	}
	var rows []models.DailyCompletion
	err := s.db.
		Where("user_id = ? AND date = ? AND completed = ? AND routine_step_id IN ?",
			userID, DateOnly(day), true, stepIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		done[row.RoutineStepID] = true
	}
	return done, nil
}

// dayCounts computes (total, completed) across the given routines for one day.
func (s *ProgressService) dayCounts(userID uint, routines []models.Routine, day time.Time) (int, int, error) {
	var stepIDs []uint
	for _, r := range routines {
		for _, st := range r.Steps {
			stepIDs = append(stepIDs, st.ID)
		}
	}
	done, err := s.completedStepIDs(userID, stepIDs, day)
	if err != nil {
		return 0, 0, err
	}
	return len(stepIDs), len(done), nil
}

// TodayProgress counts today's completed steps across the user's morning and
// evening routines. Percent is floor(100*completed/total), 0 when there are no
// steps. Never divides by zero, never exceeds 100.
func (s *ProgressService) TodayProgress(userID uint, today time.Time) (ProgressSummary, error) {
	routines, err := s.dailyRoutines(userID)
	if err != nil {
		return ProgressSummary{}, err
	}
	total, completed, err := s.dayCounts(userID, routines, today)
	if err != nil {
		return ProgressSummary{}, err
	}
	summary := ProgressSummary{CompletedSteps: completed, TotalSteps: total}
	if total > 0 {
		summary.Percent = 100 * completed / total
	}
	return summary, nil
}

// CurrentStreak counts consecutive fully-completed days walking backward from
// today. A day counts only when the user had at least one morning/evening step
// and every one of them was completed, so a user with no daily routines always
// has streak 0. Runs in O(streak length) day queries.
func (s *ProgressService) CurrentStreak(userID uint, today time.Time) (int, error) {
	routines, err := s.dailyRoutines(userID)
	if err != nil {
		return 0, err
	}
	streak := 0
	day := DateOnly(today)
	for {
		total, completed, err := s.dayCounts(userID, routines, day)
		if err != nil {
			return 0, err
		}
		if total == 0 || completed < total {
			return streak, nil
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// dayLetters are Monday-first single-letter labels for the weekly strip.
var dayLetters = []string{"M", "T", "W", "T", "F", "S", "S"}

// weekStart returns the Monday of the ISO week containing day.
func weekStart(day time.Time) time.Time {
	day = DateOnly(day)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return day.AddDate(0, 0, -offset)
}

// WeekStrip produces the 7-day status strip for the ISO week containing today.
func (s *ProgressService) WeekStrip(userID uint, today time.Time) ([]WeekDay, error) {
	routines, err := s.dailyRoutines(userID)
	if err != nil {
		return nil, err
	}
	today = DateOnly(today)
	start := weekStart(today)
	strip := make([]WeekDay, 0, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		entry := WeekDay{Date: day.Format("2006-01-02"), Letter: dayLetters[i]}
		switch {
		case day.After(today):
			entry.Status = WeekFuture
		case day.Equal(today):
			entry.Status = WeekCurrent
		default:
			total, completed, err := s.dayCounts(userID, routines, day)
			if err != nil {
				return nil, err
			}
			if total > 0 && completed == total {
				entry.Status = WeekCompleted
			} else {
				entry.Status = WeekIncomplete
			}
		}
		strip = append(strip, entry)
	}
	return strip, nil
}

// MonthCalendar derives a status for every day of the given month plus the
// recurring due-date markers (weekly steps due each Monday, monthly steps on
// the 1st).
//
// The per-day status deliberately uses a looser rule than the streak: a
// routine counts as done on a day if ANY of its steps has a completed row that
// day, not all of them. The strict all-steps rule lives in dayCounts and backs
// the streak and the weekly strip; both semantics are kept side by side
// because the dashboard has always shown them this way.
func (s *ProgressService) MonthCalendar(userID uint, year int, month time.Month) (MonthCalendar, error) {
	var routines []models.Routine
	err := s.db.
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_order ASC") }).
		Where("user_id = ?", userID).
		Find(&routines).Error
	if err != nil {
		return MonthCalendar{}, err
	}

	// Map step IDs to the routine type they belong to.
	morningSteps := make(map[uint]bool)
	eveningSteps := make(map[uint]bool)
	for _, r := range routines {
		for _, st := range r.Steps {
			switch r.RoutineType {
			case models.RoutineMorning:
				morningSteps[st.ID] = true
			case models.RoutineEvening:
				eveningSteps[st.ID] = true
			}
		}
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	// One query for the whole month, bucketed by day.
	var rows []models.DailyCompletion
	err = s.db.
		Where("user_id = ? AND completed = ? AND date >= ? AND date < ?", userID, true, first, next).
		Find(&rows).Error
	if err != nil {
		return MonthCalendar{}, err
	}
	morningDone := make(map[string]bool)
	eveningDone := make(map[string]bool)
	for _, row := range rows {
		key := DateOnly(row.Date).Format("2006-01-02")
		if morningSteps[row.RoutineStepID] {
			morningDone[key] = true
		}
		if eveningSteps[row.RoutineStepID] {
			eveningDone[key] = true
		}
	}

	cal := MonthCalendar{
		Days:       make([]CalendarDay, 0, 31),
		WeeklyDue:  []DueItem{},
		MonthlyDue: []DueItem{},
	}
	for day := first; day.Before(next); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		status := DayNotDone
		switch {
		case morningDone[key] && eveningDone[key]:
			status = DayCompleted
		case morningDone[key]:
			status = DayMorning
		case eveningDone[key]:
			status = DayEvening
		}
		cal.Days = append(cal.Days, CalendarDay{Date: key, Status: status})
	}

	for _, r := range routines {
		for _, st := range r.Steps {
			switch st.Frequency {
			case models.FrequencyWeekly:
				for day := first; day.Before(next); day = day.AddDate(0, 0, 1) {
					if day.Weekday() == time.Monday {
						cal.WeeklyDue = append(cal.WeeklyDue, DueItem{
							Date:        day.Format("2006-01-02"),
							StepName:    st.StepName,
							RoutineType: r.RoutineType,
						})
					}
				}
			case models.FrequencyMonthly:
				cal.MonthlyDue = append(cal.MonthlyDue, DueItem{
					Date:        first.Format("2006-01-02"),
					StepName:    st.StepName,
					RoutineType: r.RoutineType,
				})
			}
		}
	}

	return cal, nil
}

// userStep loads a step only if its routine belongs to the user.
func (s *ProgressService) userStep(userID, stepID uint) (*models.RoutineStep, error) {
	var step models.RoutineStep
	err := s.db.
		Joins("JOIN routines ON routines.id = routine_steps.routine_id").
		Where("routine_steps.id = ? AND routines.user_id = ?", stepID, userID).
		First(&step).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &step, nil
}

// ToggleStepCompletion flips the completed flag of the step's completion row
// for the given date, creating the row if it does not exist yet. The get-or-
// create and the flip run in one transaction; the (user, step, date) unique
// index backstops concurrent toggles.
func (s *ProgressService) ToggleStepCompletion(userID, stepID uint, date, now time.Time) (ToggleResult, error) {
	step, err := s.userStep(userID, stepID)
	if err != nil {
		return ToggleResult{}, err
	}

	var result ToggleResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var dc models.DailyCompletion
		err := tx.
			Where(models.DailyCompletion{UserID: userID, RoutineStepID: step.ID, Date: DateOnly(date)}).
			FirstOrCreate(&dc).Error
		if err != nil {
			return err
		}
		dc.Completed = !dc.Completed
		if dc.Completed {
			ts := now
			dc.CompletedAt = &ts
		} else {
			dc.CompletedAt = nil
		}
		if err := tx.Save(&dc).Error; err != nil {
			return err
		}
		result = ToggleResult{Completed: dc.Completed, StepName: step.StepName}
		return nil
	})
	if err != nil {
		return ToggleResult{}, err
	}
	return result, nil
}

// MarkRoutineComplete forces today's completion row of every step in the
// routine to completed. Steps already done keep their original CompletedAt;
// nothing is ever un-completed. Returns the number of steps processed.
func (s *ProgressService) MarkRoutineComplete(userID, routineID uint, date, now time.Time) (int, error) {
	var routine models.Routine
	err := s.db.
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_order ASC") }).
		Where("id = ? AND user_id = ?", routineID, userID).
		First(&routine).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, step := range routine.Steps {
			var dc models.DailyCompletion
			err := tx.
				Where(models.DailyCompletion{UserID: userID, RoutineStepID: step.ID, Date: DateOnly(date)}).
				FirstOrCreate(&dc).Error
			if err != nil {
				return err
			}
			if !dc.Completed {
				dc.Completed = true
				ts := now
				dc.CompletedAt = &ts
				if err := tx.Save(&dc).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(routine.Steps), nil
}
