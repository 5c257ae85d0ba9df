package controllers

import (
	"aula/database"
	"aula/middleware"
	courseModels "aula/models/course"
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Enroll registers the authenticated student in a course. Enrolling twice is
// not an error; the existing enrollment is returned with an informational
// message.
func Enroll(c *fiber.Ctx) error {
	user, _, ok := currentActor(c)
	if !ok {
		return nil
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var enrollment courseModels.Enrollment
	err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, course.ID, false).
		First(&enrollment).Error
	if err == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "You are already enrolled in this course!", enrollment)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll!", nil)
	}

	enrollment = courseModels.Enrollment{
		UserID:   user.ID,
		CourseID: course.ID,
	}
	if err := database.Database.Db.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			database.Database.Db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment)
			return middleware.JsonResponse(c, fiber.StatusOK, true, "You are already enrolled in this course!", enrollment)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled successfully!", enrollment)
}

// MyCourses lists the courses the authenticated user is enrolled in.
func MyCourses(c *fiber.Ctx) error {
	user, _, ok := currentActor(c)
	if !ok {
		return nil
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", user.ID, false).
		Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	courseIDs := make([]uint, 0, len(enrollments))
	for _, e := range enrollments {
		courseIDs = append(courseIDs, e.CourseID)
	}

	var courses []courseModels.Course
	if len(courseIDs) > 0 {
		if err := database.Database.Db.Where("id IN ? AND is_deleted = ?", courseIDs, false).
			Order("name asc").Find(&courses).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled courses fetched successfully!", fiber.Map{
		"courses": courses,
	})
}
