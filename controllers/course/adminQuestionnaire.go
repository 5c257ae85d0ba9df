package controllers

import (
	"aula/database"
	"aula/middleware"
	courseModels "aula/models/course"
	"aula/services/policy"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateQuestionnaire attaches a questionnaire to a content item. A
// questionnaire may optionally be launched from a simulation or an exam,
// but never both.
func CreateQuestionnaire(c *fiber.Ctx) error {
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

	reqData, ok := c.Locals("validatedQuestionnaire").(*struct {
		Instructions string `json:"instructions" validate:"omitempty,max=2000"`
		SimulationID *uint  `json:"simulation_id" validate:"omitempty,min=1"`
		ExamID       *uint  `json:"exam_id" validate:"omitempty,min=1"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.SimulationID != nil && reqData.ExamID != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A questionnaire belongs to a simulation or an exam, not both!", nil)
	}

	questionnaire := courseModels.Questionnaire{
		ContentID:    content.ID,
		Instructions: reqData.Instructions,
		SimulationID: reqData.SimulationID,
		ExamID:       reqData.ExamID,
	}

	if err := database.Database.Db.Create(&questionnaire).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create questionnaire!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Questionnaire created successfully!", questionnaire)
}

// CreateQuestion adds a question with its options to a questionnaire.
// Multiple-choice questions with no option marked correct get their first
// option promoted, so every stored question has a defined answer key.
func CreateQuestion(c *fiber.Ctx) error {
	_, actor, ok := currentActor(c)
	if !ok {
		return nil
	}

	if !policy.Can(actor, policy.ActionAuthorCatalog, policy.Facts{}) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Teachers and admins only.", nil)
	}

	questionnaireID := c.Locals("questionnaireID").(int)

	var questionnaire courseModels.Questionnaire
	if err := database.Database.Db.First(&questionnaire, questionnaireID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Questionnaire not found!", nil)
	}

	reqData, ok := c.Locals("validatedQuestion").(*struct {
		Text            string `json:"text" validate:"required,min=3"`
		Kind            string `json:"kind" validate:"required,oneof=multiple_choice open_text"`
		OrderIndex      int    `json:"order_index" validate:"omitempty,min=0"`
		ReferenceAnswer string `json:"reference_answer" validate:"omitempty,max=2000"`
		Options         []struct {
			Text      string `json:"text" validate:"required,min=1"`
			IsCorrect bool   `json:"is_correct"`
		} `json:"options" validate:"omitempty,dive"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Kind == courseModels.KindMultipleChoice && len(reqData.Options) < 2 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Multiple choice questions need at least two options!", nil)
	}

	orderIndex := reqData.OrderIndex
	if orderIndex == 0 {
		var maxOrder int
		database.Database.Db.Model(&courseModels.Question{}).
			Where("questionnaire_id = ?", questionnaire.ID).
			Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder)
		orderIndex = maxOrder + 1
	}

	question := courseModels.Question{
		QuestionnaireID: questionnaire.ID,
		Text:            reqData.Text,
		Kind:            reqData.Kind,
		OrderIndex:      orderIndex,
		ReferenceAnswer: reqData.ReferenceAnswer,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&question).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question!", nil)
	}

	if reqData.Kind == courseModels.KindMultipleChoice {
		anyCorrect := false
		for _, opt := range reqData.Options {
			if opt.IsCorrect {
				anyCorrect = true
				break
			}
		}

		for i, opt := range reqData.Options {
			isCorrect := opt.IsCorrect
			if !anyCorrect && i == 0 {
				isCorrect = true
			}
			option := courseModels.Option{
				QuestionID: question.ID,
				Text:       opt.Text,
				IsCorrect:  isCorrect,
			}
			if err := tx.Create(&option).Error; err != nil {
				tx.Rollback()
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create option!", nil)
			}
		}
	}
	tx.Commit()

	var created courseModels.Question
	database.Database.Db.Preload("Options").First(&created, question.ID)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question created successfully!", created)
}

// ListQuestions returns a questionnaire's questions in presentation order.
func ListQuestions(c *fiber.Ctx) error {
	_, actor, ok := currentActor(c)
	if !ok {
		return nil
	}

	questionnaireID := c.Locals("questionnaireID").(int)

	var questionnaire courseModels.Questionnaire
	if err := database.Database.Db.First(&questionnaire, questionnaireID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Questionnaire not found!", nil)
	}

	// Students only see questionnaires inside published modules of courses
	// they are enrolled in.
	if actor.Role == policy.RoleStudent {
		mod, ok := moduleOfQuestionnaire(&questionnaire)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Questionnaire not found!", nil)
		}
		facts := policy.Facts{
			ModulePublished: mod.IsPublished,
			Enrolled:        isEnrolled(actor.ID, mod.CourseID),
		}
		if !policy.Can(actor, policy.ActionSubmitAttempt, facts) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
		}
	}

	var questions []courseModels.Question
	if err := database.Database.Db.Where("questionnaire_id = ?", questionnaire.ID).
		Preload("Options", "is_deleted = ?", false).
		Order("order_index asc").Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch questions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Questions fetched successfully!", fiber.Map{
		"questionnaire": questionnaire,
		"questions":     questions,
	})
}

// ListResponses lists every graded attempt for a questionnaire, with the
// per-question answers. Teachers and admins only.
func ListResponses(c *fiber.Ctx) error {
	_, actor, ok := currentActor(c)
	if !ok {
		return nil
	}

	if !policy.Can(actor, policy.ActionViewResponses, policy.Facts{}) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Teachers and admins only.", nil)
	}

	questionnaireID := c.Locals("questionnaireID").(int)

	var questionnaire courseModels.Questionnaire
	if err := database.Database.Db.First(&questionnaire, questionnaireID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Questionnaire not found!", nil)
	}

	var attempts []courseModels.Attempt
	if err := database.Database.Db.Where("questionnaire_id = ?", questionnaire.ID).
		Order("created_at desc").Find(&attempts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch responses!", nil)
	}

	type response struct {
		Attempt courseModels.Attempt  `json:"attempt"`
		Answers []courseModels.Answer `json:"answers"`
	}

	responses := make([]response, 0, len(attempts))
	for _, attempt := range attempts {
		var answers []courseModels.Answer
		if err := database.Database.Db.Where("attempt_id = ?", attempt.ID).
			Find(&answers).Error; err != nil && err != gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch responses!", nil)
		}
		responses = append(responses, response{Attempt: attempt, Answers: answers})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Responses fetched successfully!", fiber.Map{
		"questionnaire": questionnaire,
		"responses":     responses,
	})
}
