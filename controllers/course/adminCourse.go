package controllers

import (
	"aula/database"
	"aula/middleware"
	courseModels "aula/models/course"
	"aula/services/policy"

	"github.com/gofiber/fiber/v2"
)

// CreateCourse creates a course and assigns the creating teacher to it.
func CreateCourse(c *fiber.Ctx) error {
	user, actor, ok := currentActor(c)
	if !ok {
		return nil
	}

	if !policy.Can(actor, policy.ActionAuthorCatalog, policy.Facts{}) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Teachers and admins only.", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Name        string `json:"name" validate:"required,min=3"`
		Description string `json:"description" validate:"omitempty,max=2000"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := courseModels.Course{
		Name:        reqData.Name,
		Description: reqData.Description,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&course).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}
	if actor.Role == policy.RoleTeacher {
		if err := tx.Create(&courseModels.CourseTeacher{CourseID: course.ID, UserID: user.ID}).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to assign teacher!", nil)
		}
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// UpdateCourse edits name and description.
func UpdateCourse(c *fiber.Ctx) error {
	_, actor, ok := currentActor(c)
	if !ok {
		return nil
	}

	if !policy.Can(actor, policy.ActionAuthorCatalog, policy.Facts{}) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Teachers and admins only.", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Name        string `json:"name" validate:"required,min=3"`
		Description string `json:"description" validate:"omitempty,max=2000"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course.Name = reqData.Name
	course.Description = reqData.Description

	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// ListCourses returns all courses with their teacher assignments.
func ListCourses(c *fiber.Ctx) error {
	_, _, ok := currentActor(c)
	if !ok {
		return nil
	}

	var courses []courseModels.Course
	if err := database.Database.Db.Where("is_deleted = ?", false).
		Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
	})
}

// AssignTeacher adds a teacher to the course's owner set.
func AssignTeacher(c *fiber.Ctx) error {
	_, actor, ok := currentActor(c)
	if !ok {
		return nil
	}

	if !policy.Can(actor, policy.ActionAuthorCatalog, policy.Facts{}) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Teachers and admins only.", nil)
	}

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedTeacher").(*struct {
		UserID uint `json:"user_id" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	link := courseModels.CourseTeacher{CourseID: course.ID, UserID: reqData.UserID}
	if err := database.Database.Db.Create(&link).Error; err != nil {
		// Already assigned; treat as success.
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Teacher already assigned to this course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Teacher assigned successfully!", link)
}
