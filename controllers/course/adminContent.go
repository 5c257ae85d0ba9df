package controllers

import (
	"aula/database"
	"aula/middleware"
	courseModels "aula/models/course"
	"aula/services/policy"

	"github.com/gofiber/fiber/v2"
)

// CreateContent adds a content item to a module.
func CreateContent(c *fiber.Ctx) error {
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

	reqData, ok := c.Locals("validatedContent").(*struct {
		Title       string `json:"title" validate:"required,min=3"`
		Description string `json:"description" validate:"omitempty,max=2000"`
		FileURL     string `json:"file_url" validate:"omitempty,url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	content := courseModels.Content{
		ModuleID:    module.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		FileURL:     reqData.FileURL,
	}

	if err := database.Database.Db.Create(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Content created successfully!", content)
}

// CreateExam attaches an exam launch context to a content item. The exam's
// questionnaire is created separately and points back via ExamID.
func CreateExam(c *fiber.Ctx) error {
	_, actor, ok := currentActor(c)
	if !ok {
		return nil
	}

	if !policy.Can(actor, policy.ActionAuthorCatalog, policy.Facts{}) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Teachers and admins only.", nil)
	}

	contentID := c.Locals("contentID").(int)

	var content courseModels.Content
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", contentID, false).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}

	reqData, ok := c.Locals("validatedExam").(*struct {
		Title string `json:"title" validate:"required,min=3"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	exam := courseModels.Exam{
		ContentID: content.ID,
		Title:     reqData.Title,
	}

	if err := database.Database.Db.Create(&exam).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create exam!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Exam created successfully!", exam)
}

// UpdateContent edits a content item.
func UpdateContent(c *fiber.Ctx) error {
	_, actor, ok := currentActor(c)
	if !ok {
		return nil
	}

	if !policy.Can(actor, policy.ActionAuthorCatalog, policy.Facts{}) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Teachers and admins only.", nil)
	}

	contentID := c.Locals("contentID").(int)

	var content courseModels.Content
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", contentID, false).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}

	reqData, ok := c.Locals("validatedContent").(*struct {
		Title       string `json:"title" validate:"required,min=3"`
		Description string `json:"description" validate:"omitempty,max=2000"`
		FileURL     string `json:"file_url" validate:"omitempty,url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	content.Title = reqData.Title
	if reqData.Description != "" {
		content.Description = reqData.Description
	}
	if reqData.FileURL != "" {
		content.FileURL = reqData.FileURL
	}

	if err := database.Database.Db.Save(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content updated successfully!", content)
}
