package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/iismail06/Skincare-tracker-SKYN/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	err = db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Product{},
		&models.Routine{},
		&models.RoutineStep{},
		&models.DailyCompletion{},
	)
	require.NoError(t, err)
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Username: email, PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createRoutine(t *testing.T, db *gorm.DB, userID uint, name, routineType string, stepNames ...string) *models.Routine {
	t.Helper()
	routine := &models.Routine{UserID: userID, Name: name, RoutineType: routineType}
	require.NoError(t, db.Create(routine).Error)
	for i, stepName := range stepNames {
		step := models.RoutineStep{
			RoutineID: routine.ID,
			StepName:  stepName,
			Order:     i + 1,
			Frequency: routine.StepFrequency(),
		}
		require.NoError(t, db.Create(&step).Error)
		routine.Steps = append(routine.Steps, step)
	}
	return routine
}

// completeDay marks every step of the given routines done on day.
func completeDay(t *testing.T, db *gorm.DB, userID uint, day time.Time, routines ...*models.Routine) {
	t.Helper()
	ts := day.Add(8 * time.Hour)
	for _, r := range routines {
		for _, step := range r.Steps {
			dc := models.DailyCompletion{
				UserID:        userID,
				RoutineStepID: step.ID,
				Date:          DateOnly(day),
				Completed:     true,
				CompletedAt:   &ts,
			}
			require.NoError(t, db.Create(&dc).Error)
		}
	}
}
