package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/iismail06/Skincare-tracker-SKYN/logger"
	"github.com/iismail06/Skincare-tracker-SKYN/middleware"
	"github.com/iismail06/Skincare-tracker-SKYN/models"
	"github.com/iismail06/Skincare-tracker-SKYN/services"

	"gorm.io/gorm"
)

// DashboardController serves the dashboard read payloads and the two AJAX
// completion endpoints. The clock is injected so handler tests can pin the day.
type DashboardController struct {
	db       *gorm.DB
	progress *services.ProgressService
	now      func() time.Time
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{
		db:       db,
		progress: services.NewProgressService(db),
		now:      time.Now,
	}
}

type dashboardRoutine struct {
	models.Routine
	StepsDoneToday map[uint]bool `json:"steps_done_today"`
}

// Dashboard returns the morning/evening routines with per-step done-today
// flags, today's progress, the current streak and the weekly strip.
func (c *DashboardController) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	today := c.now()

	var routines []models.Routine
	err := c.db.
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_order ASC") }).
		Preload("Steps.Product").
		Where("user_id = ? AND routine_type IN ?", userID,
			[]string{models.RoutineMorning, models.RoutineEvening}).
		Find(&routines).Error
	if err != nil {
		logger.Error("Failed to fetch routines", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	summary, err := c.progress.TodayProgress(userID, today)
	if err != nil {
		logger.Error("Failed to compute progress", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	streak, err := c.progress.CurrentStreak(userID, today)
	if err != nil {
		logger.Error("Failed to compute streak", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	strip, err := c.progress.WeekStrip(userID, today)
	if err != nil {
		logger.Error("Failed to compute week strip", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	// The dashboard shows one card per daily routine type; first of each wins,
	// matching the original first()-per-type behavior.
	day := services.DateOnly(today)
	var morning, evening *dashboardRoutine
	for i := range routines {
		entry := &dashboardRoutine{Routine: routines[i]}
		entry.StepsDoneToday = c.doneToday(userID, routines[i], day)
		switch routines[i].RoutineType {
		case models.RoutineMorning:
			if morning == nil {
				morning = entry
			}
		case models.RoutineEvening:
			if evening == nil {
				evening = entry
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"progress":        summary,
		"streak":          streak,
		"week":            strip,
		"morning_routine": morning,
		"evening_routine": evening,
	})
}

func (c *DashboardController) doneToday(userID uint, routine models.Routine, day time.Time) map[uint]bool {
	done := make(map[uint]bool)
	if len(routine.Steps) == 0 {
		return done
	}
	ids := make([]uint, 0, len(routine.Steps))
	for _, st := range routine.Steps {
		ids = append(ids, st.ID)
	}
	var rows []models.DailyCompletion
	err := c.db.
		Where("user_id = ? AND date = ? AND completed = ? AND routine_step_id IN ?", userID, day, true, ids).
		Find(&rows).Error
	if err != nil {
		logger.Warn("Failed to fetch today's completions", "user_id", userID, "error", err)
		return done
	}
	for _, row := range rows {
		done[row.RoutineStepID] = true
	}
	return done
}

// Calendar returns the month calendar payload for ?year=&month=, defaulting
// to the current month.
func (c *DashboardController) Calendar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	now := c.now()

	year := now.Year()
	month := now.Month()
	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year")
			return
		}
		year = parsed
	}
	if m := r.URL.Query().Get("month"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 1 || parsed > 12 {
			writeError(w, http.StatusBadRequest, "Invalid month")
			return
		}
		month = time.Month(parsed)
	}

	cal, err := c.progress.MonthCalendar(userID, year, month)
	if err != nil {
		logger.Error("Failed to build calendar", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to build calendar")
		return
	}
	writeJSON(w, http.StatusOK, cal)
}

type toggleStepRequest struct {
	StepID *uint `json:"step_id"`
}

// ToggleStep flips today's completion for one step. AJAX shape:
// {success, completed, message} on success, {success:false, error} otherwise.
func (c *DashboardController) ToggleStep(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeAjaxError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req toggleStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAjaxError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.StepID == nil {
		writeAjaxError(w, http.StatusBadRequest, "step_id is required")
		return
	}

	now := c.now()
	result, err := c.progress.ToggleStepCompletion(userID, *req.StepID, now, now)
	if errors.Is(err, services.ErrNotFound) {
		writeAjaxError(w, http.StatusNotFound, "Step not found")
		return
	}
	if err != nil {
		logger.Error("Failed to toggle step", "user_id", userID, "step_id", *req.StepID, "error", err)
		writeAjaxError(w, http.StatusInternalServerError, "Failed to update step")
		return
	}

	state := "unchecked"
	if result.Completed {
		state = "completed"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"completed": result.Completed,
		"message":   fmt.Sprintf("%s %s", result.StepName, state),
	})
}

type markCompleteRequest struct {
	RoutineID   *uint  `json:"routine_id"`
	RoutineType string `json:"routine_type"`
}

// MarkComplete forces every step of a routine to completed for today.
func (c *DashboardController) MarkComplete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeAjaxError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req markCompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAjaxError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.RoutineID == nil {
		writeAjaxError(w, http.StatusBadRequest, "routine_id is required")
		return
	}

	now := c.now()
	count, err := c.progress.MarkRoutineComplete(userID, *req.RoutineID, now, now)
	if errors.Is(err, services.ErrNotFound) {
		writeAjaxError(w, http.StatusNotFound, "Routine not found")
		return
	}
	if err != nil {
		logger.Error("Failed to mark routine complete", "user_id", userID, "routine_id", *req.RoutineID, "error", err)
		writeAjaxError(w, http.StatusInternalServerError, "Failed to complete routine")
		return
	}

	logger.Info("Routine marked complete", "user_id", userID, "routine_id", *req.RoutineID, "steps", count)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"message":         "Routine completed",
		"steps_completed": count,
	})
}
