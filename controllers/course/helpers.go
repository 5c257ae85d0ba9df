package controllers

import (
	"aula/database"
	"aula/middleware"
	"aula/models"
	courseModels "aula/models/course"
	"aula/services/policy"

	"github.com/gofiber/fiber/v2"
)

// currentActor loads the authenticated user and maps it onto the policy
// actor. On failure the error response has already been written; callers
// must return nil.
func currentActor(c *fiber.Ctx) (*models.User, policy.Actor, bool) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		return nil, policy.Actor{}, false
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		return nil, policy.Actor{}, false
	}

	role, ok := policy.ParseRole(user.Role)
	if !ok {
		middleware.JsonResponse(c, fiber.StatusForbidden, false, "Unknown role!", nil)
		return nil, policy.Actor{}, false
	}

	return &user, policy.Actor{ID: user.ID, Role: role}, true
}

// isEnrolled reports whether the student has an enrollment row for the course.
func isEnrolled(userID, courseID uint) bool {
	var enrollment courseModels.Enrollment
	return database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&enrollment).Error == nil
}

// moduleOfQuestionnaire walks questionnaire -> content -> module. The second
// return value is false when the chain is broken.
func moduleOfQuestionnaire(q *courseModels.Questionnaire) (*courseModels.Module, bool) {
	var content courseModels.Content
	if err := database.Database.Db.First(&content, q.ContentID).Error; err != nil {
		return nil, false
	}
	var mod courseModels.Module
	if err := database.Database.Db.First(&mod, content.ModuleID).Error; err != nil {
		return nil, false
	}
	return &mod, true
}
