package controllers

import (
	"aula/database"
	"aula/middleware"
	courseModels "aula/models/course"
	"aula/services/grading"
	"aula/services/policy"
	"aula/utils"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// SubmitAttempt grades the student's answers to a questionnaire. One attempt
// per student per questionnaire: a second submission returns the existing
// result with a conflict status.
func SubmitAttempt(c *fiber.Ctx) error {
	user, actor, ok := currentActor(c)
	if !ok {
		return nil
	}

	questionnaireID := c.Locals("questionnaireID").(int)

	var questionnaire courseModels.Questionnaire
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", questionnaireID, false).
		First(&questionnaire).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Questionnaire not found!", nil)
	}

	mod, ok := moduleOfQuestionnaire(&questionnaire)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Questionnaire not found!", nil)
	}

	facts := policy.Facts{
		ModulePublished: mod.IsPublished,
		Enrolled:        isEnrolled(user.ID, mod.CourseID),
	}
	if !policy.Can(actor, policy.ActionSubmitAttempt, facts) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You cannot submit to this questionnaire!", nil)
	}

	reqData, ok := c.Locals("validatedSubmission").(*struct {
		Answers map[uint]string `json:"answers" validate:"required,min=1"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	attempt, err := grading.Grade(database.Database.Db, questionnaire.ID, user.ID, reqData.Answers)
	if err != nil {
		switch {
		case errors.Is(err, grading.ErrAlreadyGraded):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "You already answered this questionnaire!", attempt)
		case errors.Is(err, grading.ErrNoQuestions):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This questionnaire has no questions!", nil)
		case errors.Is(err, grading.ErrQuestionnaireNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Questionnaire not found!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade submission!", nil)
		}
	}

	if attempt.Passed {
		go utils.NotifyModuleCompleted(utils.CompletionEvent{
			UserID:   user.ID,
			CourseID: mod.CourseID,
			ModuleID: mod.ID,
			Score:    attempt.Score,
			At:       time.Now(),
		})
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Submission graded successfully!", attempt)
}

// AttemptResult returns one attempt with its answers. Students may only read
// their own attempts; teachers and admins may read any.
func AttemptResult(c *fiber.Ctx) error {
	_, actor, ok := currentActor(c)
	if !ok {
		return nil
	}

	attemptID := c.Locals("attemptID").(int)

	var attempt courseModels.Attempt
	if err := database.Database.Db.First(&attempt, attemptID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attempt not found!", nil)
	}

	if !policy.Can(actor, policy.ActionViewAttempt, policy.Facts{AttemptOwnerID: attempt.UserID}) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}

	var answers []courseModels.Answer
	if err := database.Database.Db.Where("attempt_id = ?", attempt.ID).Find(&answers).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch answers!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt fetched successfully!", fiber.Map{
		"attempt": attempt,
		"answers": answers,
	})
}

// MyAttempts lists the authenticated student's attempts, newest first.
func MyAttempts(c *fiber.Ctx) error {
	user, _, ok := currentActor(c)
	if !ok {
		return nil
	}

	var attempts []courseModels.Attempt
	if err := database.Database.Db.Where("user_id = ?", user.ID).
		Order("created_at desc").Find(&attempts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully!", fiber.Map{
		"attempts": attempts,
	})
}
