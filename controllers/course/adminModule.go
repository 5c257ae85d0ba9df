package controllers

import (
	"aula/database"
	"aula/middleware"
	courseModels "aula/models/course"
	"aula/services/policy"

	"github.com/gofiber/fiber/v2"
)

// CreateModule creates a new module in a course. When no order index is
// given the module is appended after the current last one.
func CreateModule(c *fiber.Ctx) error {
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

	reqData, ok := c.Locals("validatedModule").(*struct {
		Title       string `json:"title" validate:"required,min=3"`
		Description string `json:"description" validate:"omitempty,max=2000"`
		OrderIndex  int    `json:"order_index" validate:"omitempty,min=0"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	orderIndex := reqData.OrderIndex
	if orderIndex == 0 {
		var maxOrder int
		database.Database.Db.Model(&courseModels.Module{}).
			Where("course_id = ? AND is_deleted = ?", courseID, false).
			Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder)
		orderIndex = maxOrder + 1
	}

	module := courseModels.Module{
		CourseID:    uint(courseID),
		Title:       reqData.Title,
		Description: reqData.Description,
		OrderIndex:  orderIndex,
	}

	if err := database.Database.Db.Create(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

// UpdateModule updates an existing module
func UpdateModule(c *fiber.Ctx) error {
	_, actor, ok := currentActor(c)
	if !ok {
		return nil
	}

	if !policy.Can(actor, policy.ActionAuthorCatalog, policy.Facts{}) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Teachers and admins only.", nil)
	}

	moduleID := c.Locals("moduleID").(int)

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	reqData, ok := c.Locals("validatedModule").(*struct {
		Title       string `json:"title" validate:"required,min=3"`
		Description string `json:"description" validate:"omitempty,max=2000"`
		OrderIndex  int    `json:"order_index" validate:"omitempty,min=0"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	module.Title = reqData.Title
	if reqData.Description != "" {
		module.Description = reqData.Description
	}
	if reqData.OrderIndex > 0 {
		module.OrderIndex = reqData.OrderIndex
	}

	if err := database.Database.Db.Save(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!", module)
}

// TogglePublication flips a module between published and hidden. Students
// can only submit attempts against published modules.
func TogglePublication(c *fiber.Ctx) error {
	_, actor, ok := currentActor(c)
	if !ok {
		return nil
	}

	if !policy.Can(actor, policy.ActionAuthorCatalog, policy.Facts{}) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Teachers and admins only.", nil)
	}

	moduleID := c.Locals("moduleID").(int)

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	module.IsPublished = !module.IsPublished
	if err := database.Database.Db.Save(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module publication toggled!", module)
}

// ListModules lists all modules in a course in walk order.
func ListModules(c *fiber.Ctx) error {
	_, actor, ok := currentActor(c)
	if !ok {
		return nil
	}

	if !policy.Can(actor, policy.ActionViewResponses, policy.Facts{}) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Teachers and admins only.", nil)
	}

	courseID := c.Locals("courseID").(int)

	var modules []courseModels.Module
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully!", fiber.Map{
		"modules": modules,
	})
}
