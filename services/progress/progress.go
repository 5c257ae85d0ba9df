// Package progress maintains per-student module and simulation state and
// applies the unlock cascade when a passing attempt completes a module.
package progress

import (
	"errors"
	"log"
	"time"

	courseModels "aula/models/course"

	"gorm.io/gorm"
)

// ModuleStatus is one row of the student-facing module listing.
type ModuleStatus struct {
	ModuleID   uint    `json:"module_id"`
	Title      string  `json:"title"`
	OrderIndex int     `json:"order_index"`
	Unlocked   bool    `json:"unlocked"`
	State      string  `json:"state"`
	Progress   float64 `json:"progress"`
}

// GetOrCreateModuleProgress returns the progress row for (student, module),
// creating it in state pending when absent. Safe under concurrent callers:
// a duplicate-key conflict falls back to reading the winner's row.
func GetOrCreateModuleProgress(db *gorm.DB, userID, moduleID uint) (*courseModels.ModuleProgress, error) {
	var mp courseModels.ModuleProgress
	err := db.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&mp).Error
	if err == nil {
		return &mp, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	mp = courseModels.ModuleProgress{
		UserID:   userID,
		ModuleID: moduleID,
		State:    courseModels.ProgressPending,
	}
	if err := db.Create(&mp).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race; the existing row is equivalent.
			if err := db.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&mp).Error; err != nil {
				return nil, err
			}
			return &mp, nil
		}
		return nil, err
	}
	return &mp, nil
}

// UpdateModuleProgress applies a new percentage through the invariant setter
// and persists the row. Backwards movement and completed demotion are
// ignored by SetProgress.
func UpdateModuleProgress(db *gorm.DB, userID, moduleID uint, percent float64) (*courseModels.ModuleProgress, error) {
	mp, err := GetOrCreateModuleProgress(db, userID, moduleID)
	if err != nil {
		return nil, err
	}
	mp.SetProgress(percent)
	if err := db.Save(mp).Error; err != nil {
		return nil, err
	}
	return mp, nil
}

// UnlockNext creates (if absent) the pending progress row for the module
// that follows mod in its course, making it reachable in the listing.
// Re-running it for the same completion event changes nothing.
func UnlockNext(db *gorm.DB, mod *courseModels.Module, userID uint) error {
	var modules []courseModels.Module
	if err := db.Where("course_id = ? AND is_deleted = ?", mod.CourseID, false).
		Order("order_index asc").Find(&modules).Error; err != nil {
		return err
	}

	for i := range modules {
		if modules[i].ID != mod.ID {
			continue
		}
		if i+1 < len(modules) {
			_, err := GetOrCreateModuleProgress(db, userID, modules[i+1].ID)
			return err
		}
		return nil // last module of the course
	}
	return nil
}

// OnAttemptGraded runs the completion cascade for a freshly graded attempt.
// Failed attempts change nothing. Integrity problems in the catalog (a
// questionnaire with no content or module) are logged and degrade to a
// no-op: the attempt itself stays valid. The whole function is idempotent
// and can be re-run from the attempt record alone.
func OnAttemptGraded(db *gorm.DB, attempt *courseModels.Attempt) error {
	if !attempt.Passed {
		return nil
	}

	var questionnaire courseModels.Questionnaire
	if err := db.First(&questionnaire, attempt.QuestionnaireID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("progress: attempt %d references missing questionnaire %d", attempt.ID, attempt.QuestionnaireID)
			return nil
		}
		return err
	}

	var content courseModels.Content
	if err := db.First(&content, questionnaire.ContentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("progress: questionnaire %d has no content, skipping cascade", questionnaire.ID)
			return nil
		}
		return err
	}

	var mod courseModels.Module
	if err := db.First(&mod, content.ModuleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("progress: content %d has no module, skipping cascade", content.ID)
			return nil
		}
		return err
	}

	if _, err := UpdateModuleProgress(db, attempt.UserID, mod.ID, 100); err != nil {
		return err
	}

	if err := UnlockNext(db, &mod, attempt.UserID); err != nil {
		return err
	}

	if questionnaire.SimulationID != nil {
		if err := completeSimulation(db, attempt.UserID, *questionnaire.SimulationID); err != nil {
			return err
		}
	}
	return nil
}

// completeSimulation moves a started run to completed. Absent or already
// completed runs are left untouched.
func completeSimulation(db *gorm.DB, userID, simulationID uint) error {
	var sp courseModels.SimulationProgress
	err := db.Where("user_id = ? AND simulation_id = ?", userID, simulationID).First(&sp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if sp.State != courseModels.SimulationStarted {
		return nil
	}
	sp.Complete(time.Now())
	return db.Save(&sp).Error
}

// StartSimulation begins a run for (student, simulation), returning the
// existing row unchanged when one is already present.
func StartSimulation(db *gorm.DB, userID, simulationID uint) (*courseModels.SimulationProgress, error) {
	var sp courseModels.SimulationProgress
	err := db.Where("user_id = ? AND simulation_id = ?", userID, simulationID).First(&sp).Error
	if err == nil {
		return &sp, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sp = courseModels.SimulationProgress{
		UserID:       userID,
		SimulationID: simulationID,
		State:        courseModels.SimulationStarted,
		StartTime:    time.Now(),
	}
	if err := db.Create(&sp).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := db.Where("user_id = ? AND simulation_id = ?", userID, simulationID).First(&sp).Error; err != nil {
				return nil, err
			}
			return &sp, nil
		}
		return nil, err
	}
	return &sp, nil
}

// RestartSimulation explicitly re-enters started with a fresh start time and
// a cleared end time. Distinct from the grading cascade.
func RestartSimulation(db *gorm.DB, userID, simulationID uint) (*courseModels.SimulationProgress, error) {
	sp, err := StartSimulation(db, userID, simulationID)
	if err != nil {
		return nil, err
	}
	sp.Restart(time.Now())
	if err := db.Save(sp).Error; err != nil {
		return nil, err
	}
	return sp, nil
}

// ModuleVisibility computes the ordered module listing for a student. A
// module is unlocked iff every module before it in the course is completed;
// a gap keeps everything after it locked even when later progress rows
// exist.
func ModuleVisibility(db *gorm.DB, userID, courseID uint) ([]ModuleStatus, error) {
	var modules []courseModels.Module
	if err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&modules).Error; err != nil {
		return nil, err
	}

	var rows []courseModels.ModuleProgress
	if err := db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	byModule := make(map[uint]courseModels.ModuleProgress, len(rows))
	for _, r := range rows {
		byModule[r.ModuleID] = r
	}

	out := make([]ModuleStatus, len(modules))
	allPrevCompleted := true // first module is always unlocked
	for i, m := range modules {
		mp, ok := byModule[m.ID]
		state := courseModels.ProgressPending
		prog := 0.0
		if ok {
			state = mp.State
			prog = mp.Progress
		}
		out[i] = ModuleStatus{
			ModuleID:   m.ID,
			Title:      m.Title,
			OrderIndex: m.OrderIndex,
			Unlocked:   allPrevCompleted,
			State:      state,
			Progress:   prog,
		}
		allPrevCompleted = allPrevCompleted && ok && mp.State == courseModels.ProgressCompleted
	}
	return out, nil
}
