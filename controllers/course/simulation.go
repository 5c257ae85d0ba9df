package controllers

import (
	"aula/database"
	"aula/middleware"
	courseModels "aula/models/course"
	"aula/services/policy"
	progressService "aula/services/progress"

	"github.com/gofiber/fiber/v2"
)

// simulationForStudent loads the simulation and checks that the student may
// interact with it: the owning module must be published and the student
// enrolled in its course. On failure the error response has already been
// written; callers must return nil.
func simulationForStudent(c *fiber.Ctx, userID uint, actor policy.Actor) (*courseModels.Simulation, bool) {
	simulationID := c.Locals("simulationID").(int)

	var sim courseModels.Simulation
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", simulationID, false).First(&sim).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusNotFound, false, "Simulation not found!", nil)
		return nil, false
	}

	var mod courseModels.Module
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", sim.ModuleID, false).First(&mod).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusNotFound, false, "Simulation not found!", nil)
		return nil, false
	}

	facts := policy.Facts{
		ModulePublished: mod.IsPublished,
		Enrolled:        isEnrolled(userID, mod.CourseID),
	}
	if !policy.Can(actor, policy.ActionSubmitAttempt, facts) {
		middleware.JsonResponse(c, fiber.StatusForbidden, false, "You cannot run this simulation!", nil)
		return nil, false
	}
	return &sim, true
}

// StartSimulation begins (or resumes) the student's run of a simulation.
func StartSimulation(c *fiber.Ctx) error {
	user, actor, ok := currentActor(c)
	if !ok {
		return nil
	}

	sim, ok := simulationForStudent(c, user.ID, actor)
	if !ok {
		return nil
	}

	sp, err := progressService.StartSimulation(database.Database.Db, user.ID, sim.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start simulation!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Simulation started!", sp)
}

// RestartSimulation explicitly re-enters a run with a fresh start time.
func RestartSimulation(c *fiber.Ctx) error {
	user, actor, ok := currentActor(c)
	if !ok {
		return nil
	}

	sim, ok := simulationForStudent(c, user.ID, actor)
	if !ok {
		return nil
	}

	sp, err := progressService.RestartSimulation(database.Database.Db, user.ID, sim.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to restart simulation!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Simulation restarted!", sp)
}

// SimulationStatus returns the student's current run state for a simulation.
func SimulationStatus(c *fiber.Ctx) error {
	user, actor, ok := currentActor(c)
	if !ok {
		return nil
	}

	sim, ok := simulationForStudent(c, user.ID, actor)
	if !ok {
		return nil
	}

	var sp courseModels.SimulationProgress
	if err := database.Database.Db.Where("user_id = ? AND simulation_id = ?", user.ID, sim.ID).
		First(&sp).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Simulation not started yet!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Simulation status fetched!", sp)
}
