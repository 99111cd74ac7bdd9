package services

import (
	"errors"
	"strings"

	"github.com/iismail06/Skincare-tracker-SKYN/models"

	"gorm.io/gorm"
)

// StepInput is one desired step from a routine submission. Blank names are
// dropped before reconciliation.
type StepInput struct {
	Name      string `json:"step_name"`
	ProductID *uint  `json:"product_id,omitempty"`
}

// RoutineInput is the desired state of a routine: its name, its type and the
// ordered step list.
type RoutineInput struct {
	Name        string      `json:"name"`
	RoutineType string      `json:"routine_type"`
	Steps       []StepInput `json:"steps"`
}

// RoutineService creates, updates and deletes routines. Updates go through a
// position-based step reconciliation so that steps keeping their position keep
// their identity, and with it their accumulated completion history.
type RoutineService struct {
	db *gorm.DB
}

func NewRoutineService(db *gorm.DB) *RoutineService {
	return &RoutineService{db: db}
}

// cleanSteps drops blank entries and trims names, preserving submission order.
func cleanSteps(steps []StepInput) []StepInput {
	out := make([]StepInput, 0, len(steps))
	for _, s := range steps {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		out = append(out, StepInput{Name: name, ProductID: s.ProductID})
	}
	return out
}

// Validate checks a routine submission: name and type are required, the type
// must be known, and at least one non-blank step must be present.
func (in *RoutineInput) Validate() error {
	fields := make(map[string]string)
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "Please provide a name for your routine."
	}
	if in.RoutineType == "" {
		fields["routine_type"] = "Please select a routine type."
	} else if !models.ValidRoutineType(in.RoutineType) {
		fields["routine_type"] = "Unknown routine type."
	}
	if len(cleanSteps(in.Steps)) == 0 {
		fields["steps"] = "Add at least one step for the routine."
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// userProductID returns productID if that product exists and belongs to the
// user, nil otherwise. A step never ends up pointing at someone else's product.
func (s *RoutineService) userProductID(tx *gorm.DB, userID uint, productID *uint) (*uint, error) {
	if productID == nil {
		return nil, nil
	}
	var product models.Product
	err := tx.Where("id = ? AND user_id = ?", *productID, userID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return productID, nil
}

// Create validates the input and persists a new routine with steps numbered
// 1..n. Step frequency comes from the routine type, not the submission.
func (s *RoutineService) Create(userID uint, input RoutineInput) (*models.Routine, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	desired := cleanSteps(input.Steps)

	routine := models.Routine{
		UserID:      userID,
		Name:        strings.TrimSpace(input.Name),
		RoutineType: input.RoutineType,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&routine).Error; err != nil {
			return err
		}
		for i, d := range desired {
			productID, err := s.userProductID(tx, userID, d.ProductID)
			if err != nil {
				return err
			}
			step := models.RoutineStep{
				RoutineID: routine.ID,
				StepName:  d.Name,
				Order:     i + 1,
				Frequency: routine.StepFrequency(),
				ProductID: productID,
			}
			if err := tx.Create(&step).Error; err != nil {
				return err
			}
			routine.Steps = append(routine.Steps, step)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &routine, nil
}

// Update validates the input, applies the new name and type to the user's
// routine and reconciles its steps against the desired list.
func (s *RoutineService) Update(userID, routineID uint, input RoutineInput) (*models.Routine, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var routine models.Routine
	err := s.db.Where("id = ? AND user_id = ?", routineID, userID).First(&routine).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	routine.Name = strings.TrimSpace(input.Name)
	routine.RoutineType = input.RoutineType
	desired := cleanSteps(input.Steps)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&routine).Error; err != nil {
			return err
		}
		return s.reconcileSteps(tx, &routine, desired)
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_order ASC") }).
		First(&routine, routine.ID).Error; err != nil {
		return nil, err
	}
	return &routine, nil
}

// reconcileSteps diffs the desired ordered step list against the persisted
// steps by position. A step that occupies the same position before and after
// the edit is updated in place and keeps its row identity, so completion rows
// referencing it stay valid. Naively recreating every step would silently
// reset the user's streak on every edit.
func (s *RoutineService) reconcileSteps(tx *gorm.DB, routine *models.Routine, desired []StepInput) error {
	var existing []models.RoutineStep
	err := tx.Where("routine_id = ?", routine.ID).Order("step_order ASC").Find(&existing).Error
	if err != nil {
		return err
	}

	m, n := len(existing), len(desired)
	for i := 0; i < m || i < n; i++ {
		switch {
		case i < m && i < n:
			// Shared position: update in place, identity preserved.
			productID, err := s.userProductID(tx, routine.UserID, desired[i].ProductID)
			if err != nil {
				return err
			}
			step := existing[i]
			step.StepName = desired[i].Name
			step.Order = i + 1
			step.Frequency = routine.StepFrequency()
			step.ProductID = productID
			// Save skips nil ProductID updates; use Updates with a map so the
			// link can also be cleared.
			err = tx.Model(&models.RoutineStep{}).Where("id = ?", step.ID).Updates(map[string]interface{}{
				"step_name":  step.StepName,
				"step_order": step.Order,
				"frequency":  step.Frequency,
				"product_id": step.ProductID,
			}).Error
			if err != nil {
				return err
			}
		case i < n:
			// Only desired: create a new step at this position.
			productID, err := s.userProductID(tx, routine.UserID, desired[i].ProductID)
			if err != nil {
				return err
			}
			step := models.RoutineStep{
				RoutineID: routine.ID,
				StepName:  desired[i].Name,
				Order:     i + 1,
				Frequency: routine.StepFrequency(),
				ProductID: productID,
			}
			if err := tx.Create(&step).Error; err != nil {
				return err
			}
		default:
			// Only existing: the routine owns the step, so its completion
			// history goes with it.
			if err := deleteStep(tx, &existing[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// deleteStep removes a step together with its completion rows.
func deleteStep(tx *gorm.DB, step *models.RoutineStep) error {
	if err := tx.Where("routine_step_id = ?", step.ID).Delete(&models.DailyCompletion{}).Error; err != nil {
		return err
	}
	return tx.Delete(step).Error
}

// Get loads one of the user's routines with its ordered steps.
func (s *RoutineService) Get(userID, routineID uint) (*models.Routine, error) {
	var routine models.Routine
	err := s.db.
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_order ASC") }).
		Preload("Steps.Product").
		Where("id = ? AND user_id = ?", routineID, userID).
		First(&routine).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &routine, nil
}

// List loads all of the user's routines with their ordered steps.
func (s *RoutineService) List(userID uint) ([]models.Routine, error) {
	var routines []models.Routine
	err := s.db.
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_order ASC") }).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&routines).Error
	return routines, err
}

// Delete removes the user's routine, cascading to its steps and their
// completion rows. The cascade is explicit here rather than delegated to
// database FK configuration.
func (s *RoutineService) Delete(userID, routineID uint) error {
	var routine models.Routine
	err := s.db.Where("id = ? AND user_id = ?", routineID, userID).First(&routine).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var steps []models.RoutineStep
		if err := tx.Where("routine_id = ?", routine.ID).Find(&steps).Error; err != nil {
			return err
		}
		for i := range steps {
			if err := deleteStep(tx, &steps[i]); err != nil {
				return err
			}
		}
		return tx.Delete(&routine).Error
	})
}
