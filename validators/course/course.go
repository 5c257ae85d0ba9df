package courseValidator

import (
	"aula/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func fieldErrors(err error) map[string]string {
	errors := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			errors[strings.ToLower(fe.Field())] = "Invalid value for " + strings.ToLower(fe.Field()) + " (" + fe.Tag() + ")!"
		}
	}
	return errors
}

// ParamID parses the named route parameter as a positive integer and stores
// it in Locals under localsKey.
func ParamID(param, localsKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params(param))
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+param+"!", nil)
		}
		c.Locals(localsKey, id)
		return c.Next()
	}
}

// Course validates the create/update course payload
func Course() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name        string `json:"name" validate:"required,min=3"`
			Description string `json:"description" validate:"omitempty,max=2000"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Name = strings.TrimSpace(reqData.Name)

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// AssignTeacher validates the teacher assignment payload
func AssignTeacher() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID uint `json:"user_id" validate:"required"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedTeacher", reqData)
		return c.Next()
	}
}

// Module validates the create/update module payload
func Module() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title" validate:"required,min=3"`
			Description string `json:"description" validate:"omitempty,max=2000"`
			OrderIndex  int    `json:"order_index" validate:"omitempty,min=0"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

// Content validates the create/update content payload
func Content() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title" validate:"required,min=3"`
			Description string `json:"description" validate:"omitempty,max=2000"`
			FileURL     string `json:"file_url" validate:"omitempty,url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedContent", reqData)
		return c.Next()
	}
}

// Exam validates the create exam payload
func Exam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title string `json:"title" validate:"required,min=3"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedExam", reqData)
		return c.Next()
	}
}

// Questionnaire validates the create questionnaire payload
func Questionnaire() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Instructions string `json:"instructions" validate:"omitempty,max=2000"`
			SimulationID *uint  `json:"simulation_id" validate:"omitempty,min=1"`
			ExamID       *uint  `json:"exam_id" validate:"omitempty,min=1"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedQuestionnaire", reqData)
		return c.Next()
	}
}

// Question validates the create question payload
func Question() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Text            string `json:"text" validate:"required,min=3"`
			Kind            string `json:"kind" validate:"required,oneof=multiple_choice open_text"`
			OrderIndex      int    `json:"order_index" validate:"omitempty,min=0"`
			ReferenceAnswer string `json:"reference_answer" validate:"omitempty,max=2000"`
			Options         []struct {
				Text      string `json:"text" validate:"required,min=1"`
				IsCorrect bool   `json:"is_correct"`
			} `json:"options" validate:"omitempty,dive"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Text = strings.TrimSpace(reqData.Text)

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}

// Submission validates the answer submission payload
func Submission() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Answers map[uint]string `json:"answers" validate:"required,min=1"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}
