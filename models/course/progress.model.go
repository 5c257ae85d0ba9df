package course

import (
	"time"

	"gorm.io/gorm"
)

const (
	ProgressPending    = "pending"
	ProgressInProgress = "in_progress"
	ProgressCompleted  = "completed"
)

const (
	SimulationStarted   = "started"
	SimulationCompleted = "completed"
)

// ModuleProgress tracks how far a student is through a module. State is
// derived from Progress and must only be written through SetProgress, which
// keeps the progress >= 100 <=> state == completed invariant and never
// demotes a completed module.
type ModuleProgress struct {
	gorm.Model
	UserID   uint    `json:"user_id" gorm:"index:idx_progress_user_module,unique;not null"`
	ModuleID uint    `json:"module_id" gorm:"index:idx_progress_user_module,unique;not null"`
	Progress float64 `json:"progress" gorm:"default:0"`
	State    string  `json:"state" gorm:"default:'pending'"`
}

// SetProgress clamps p to [0,100], refuses to move backwards and derives the
// state. Completed is terminal.
func (mp *ModuleProgress) SetProgress(p float64) {
	if mp.State == ProgressCompleted {
		return
	}
	if p < mp.Progress {
		return
	}
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	mp.Progress = p
	switch {
	case p >= 100:
		mp.State = ProgressCompleted
	case p >= 1:
		mp.State = ProgressInProgress
	default:
		mp.State = ProgressPending
	}
}

// SimulationProgress tracks one student's run of a simulation.
type SimulationProgress struct {
	gorm.Model
	UserID       uint       `json:"user_id" gorm:"index:idx_simprogress_user_sim,unique;not null"`
	SimulationID uint       `json:"simulation_id" gorm:"index:idx_simprogress_user_sim,unique;not null"`
	State        string     `json:"state" gorm:"default:'started'"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
}

// Complete moves a started run to completed and stamps EndTime once.
// Calling it on an already completed run is a no-op.
func (sp *SimulationProgress) Complete(at time.Time) {
	if sp.State == SimulationCompleted {
		return
	}
	sp.State = SimulationCompleted
	end := at
	sp.EndTime = &end
}

// Restart begins a fresh run. This is an explicit re-attempt operation, not
// part of the grading cascade.
func (sp *SimulationProgress) Restart(at time.Time) {
	sp.State = SimulationStarted
	sp.StartTime = at
	sp.EndTime = nil
}
