package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/iismail06/Skincare-tracker-SKYN/logger"
	"github.com/iismail06/Skincare-tracker-SKYN/middleware"
	"github.com/iismail06/Skincare-tracker-SKYN/services"

	"gorm.io/gorm"
)

type RoutinesController struct {
	routines *services.RoutineService
}

func NewRoutinesController(db *gorm.DB) *RoutinesController {
	return &RoutinesController{routines: services.NewRoutineService(db)}
}

func routineIDParam(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "routine_id"), 10, 32)
	return uint(id), err
}

// List returns all of the user's routines with steps.
func (c *RoutinesController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	routines, err := c.routines.List(userID)
	if err != nil {
		logger.Error("Failed to fetch routines", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch routines")
		return
	}
	writeJSON(w, http.StatusOK, routines)
}

// Create validates and persists a new routine with its steps.
func (c *RoutinesController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input services.RoutineInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	routine, err := c.routines.Create(userID, input)
	if ve, ok := services.AsValidationError(err); ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": ve.Fields})
		return
	}
	if err != nil {
		logger.Error("Failed to create routine", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create routine")
		return
	}

	logger.Info("Routine created", "user_id", userID, "routine_id", routine.ID)
	writeJSON(w, http.StatusCreated, routine)
}

// Get returns one routine with its ordered steps.
func (c *RoutinesController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := routineIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid routine ID")
		return
	}

	routine, err := c.routines.Get(userID, id)
	if errors.Is(err, services.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Routine not found")
		return
	}
	if err != nil {
		logger.Error("Failed to fetch routine", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch routine")
		return
	}
	writeJSON(w, http.StatusOK, routine)
}

// GetData returns the compact payload the edit modal consumes.
func (c *RoutinesController) GetData(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := routineIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid routine ID")
		return
	}

	routine, err := c.routines.Get(userID, id)
	if errors.Is(err, services.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Routine not found")
		return
	}
	if err != nil {
		logger.Error("Failed to fetch routine", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch routine")
		return
	}

	type stepData struct {
		StepName  string `json:"step_name"`
		ProductID *uint  `json:"product_id"`
	}
	steps := make([]stepData, 0, len(routine.Steps))
	for _, st := range routine.Steps {
		steps = append(steps, stepData{StepName: st.StepName, ProductID: st.ProductID})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":           routine.ID,
		"name":         routine.Name,
		"routine_type": routine.RoutineType,
		"steps":        steps,
	})
}

// Update applies a new name, type and desired step list, reconciling steps by
// position so completion history survives the edit.
func (c *RoutinesController) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := routineIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid routine ID")
		return
	}

	var input services.RoutineInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	routine, err := c.routines.Update(userID, id, input)
	if ve, ok := services.AsValidationError(err); ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": ve.Fields})
		return
	}
	if errors.Is(err, services.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Routine not found")
		return
	}
	if err != nil {
		logger.Error("Failed to update routine", "user_id", userID, "routine_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update routine")
		return
	}

	logger.Info("Routine updated", "user_id", userID, "routine_id", routine.ID)
	writeJSON(w, http.StatusOK, routine)
}

// Delete removes a routine, its steps and their completion history.
func (c *RoutinesController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := routineIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid routine ID")
		return
	}

	err = c.routines.Delete(userID, id)
	if errors.Is(err, services.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Routine not found")
		return
	}
	if err != nil {
		logger.Error("Failed to delete routine", "user_id", userID, "routine_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete routine")
		return
	}

	logger.Info("Routine deleted", "user_id", userID, "routine_id", id)
	w.WriteHeader(http.StatusNoContent)
}
