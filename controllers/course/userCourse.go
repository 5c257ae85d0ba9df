package controllers

import (
	"aula/database"
	"aula/middleware"
	courseModels "aula/models/course"
	"aula/services/policy"
	progressService "aula/services/progress"

	"github.com/gofiber/fiber/v2"
)

// CourseDetail returns a course together with the viewer's module listing.
// For students each module carries its unlock flag and progress; teachers
// and admins see every module unlocked.
func CourseDetail(c *fiber.Ctx) error {
	user, actor, ok := currentActor(c)
	if !ok {
		return nil
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if actor.Role == policy.RoleStudent {
		if !isEnrolled(user.ID, course.ID) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
		}

		statuses, err := progressService.ModuleVisibility(database.Database.Db, user.ID, course.ID)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
		}

		// Hidden modules stay out of the student listing entirely.
		visible := make([]progressService.ModuleStatus, 0, len(statuses))
		published := make(map[uint]bool)
		var modules []courseModels.Module
		database.Database.Db.Where("course_id = ? AND is_deleted = ?", course.ID, false).Find(&modules)
		for _, m := range modules {
			published[m.ID] = m.IsPublished
		}
		for _, s := range statuses {
			if published[s.ModuleID] {
				visible = append(visible, s)
			}
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
			"course":  course,
			"modules": visible,
		})
	}

	var modules []courseModels.Module
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", course.ID, false).
		Order("order_index asc").Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":  course,
		"modules": modules,
	})
}

// ModuleDetail returns one module with its contents, for students only when
// the module is published and reachable through the unlock walk.
func ModuleDetail(c *fiber.Ctx) error {
	user, actor, ok := currentActor(c)
	if !ok {
		return nil
	}

	moduleID := c.Locals("moduleID").(int)

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	if actor.Role == policy.RoleStudent {
		if !module.IsPublished {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
		}
		if !isEnrolled(user.ID, module.CourseID) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
		}

		statuses, err := progressService.ModuleVisibility(database.Database.Db, user.ID, module.CourseID)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch module!", nil)
		}
		for _, s := range statuses {
			if s.ModuleID == module.ID && !s.Unlocked {
				return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Complete the previous modules first!", nil)
			}
		}

		// Opening an unlocked module moves it out of pending.
		mp, err := progressService.GetOrCreateModuleProgress(database.Database.Db, user.ID, module.ID)
		if err == nil && mp.State == courseModels.ProgressPending {
			progressService.UpdateModuleProgress(database.Database.Db, user.ID, module.ID, 1)
		}
	}

	var contents []courseModels.Content
	if err := database.Database.Db.Where("module_id = ? AND is_deleted = ?", module.ID, false).
		Order("created_at asc").Find(&contents).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch contents!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module fetched successfully!", fiber.Map{
		"module":   module,
		"contents": contents,
	})
}
