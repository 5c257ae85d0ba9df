package courseRoutes

import (
	controllers "aula/controllers/course"
	"aula/middleware"
	validators "aula/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up the authoring and reporting routes used by
// teachers and admins
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin")

	adminGroup.Post("/course", middleware.JWTMiddleware, validators.Course(), controllers.CreateCourse)
	adminGroup.Put("/course/:course_id", middleware.JWTMiddleware, validators.ParamID("course_id", "courseID"), validators.Course(), controllers.UpdateCourse)
	adminGroup.Post("/course/:course_id/teacher", middleware.JWTMiddleware, validators.ParamID("course_id", "courseID"), validators.AssignTeacher(), controllers.AssignTeacher)
	adminGroup.Get("/course/:course_id/modules", middleware.JWTMiddleware, validators.ParamID("course_id", "courseID"), controllers.ListModules)

	adminGroup.Post("/course/:course_id/module", middleware.JWTMiddleware, validators.ParamID("course_id", "courseID"), validators.Module(), controllers.CreateModule)
	adminGroup.Put("/module/:module_id", middleware.JWTMiddleware, validators.ParamID("module_id", "moduleID"), validators.Module(), controllers.UpdateModule)
	adminGroup.Patch("/module/:module_id/publication", middleware.JWTMiddleware, validators.ParamID("module_id", "moduleID"), controllers.TogglePublication)

	adminGroup.Post("/module/:module_id/content", middleware.JWTMiddleware, validators.ParamID("module_id", "moduleID"), validators.Content(), controllers.CreateContent)
	adminGroup.Put("/content/:content_id", middleware.JWTMiddleware, validators.ParamID("content_id", "contentID"), validators.Content(), controllers.UpdateContent)

	adminGroup.Post("/content/:content_id/exam", middleware.JWTMiddleware, validators.ParamID("content_id", "contentID"), validators.Exam(), controllers.CreateExam)
	adminGroup.Post("/content/:content_id/questionnaire", middleware.JWTMiddleware, validators.ParamID("content_id", "contentID"), validators.Questionnaire(), controllers.CreateQuestionnaire)
	adminGroup.Post("/questionnaire/:questionnaire_id/question", middleware.JWTMiddleware, validators.ParamID("questionnaire_id", "questionnaireID"), validators.Question(), controllers.CreateQuestion)
	adminGroup.Get("/questionnaire/:questionnaire_id/responses", middleware.JWTMiddleware, validators.ParamID("questionnaire_id", "questionnaireID"), controllers.ListResponses)

	reportGroup := app.Group("/report")
	reportGroup.Get("/averages", middleware.JWTMiddleware, controllers.CourseAverages)
	reportGroup.Get("/attempts", middleware.JWTMiddleware, controllers.AttemptReport)
	reportGroup.Get("/attempts/csv", middleware.JWTMiddleware, controllers.ExportAttemptsCSV)
	reportGroup.Post("/snapshot", middleware.JWTMiddleware, controllers.GenerateReportSnapshot)
	reportGroup.Get("/snapshot/list", middleware.JWTMiddleware, controllers.ListReportSnapshots)
	reportGroup.Get("/snapshot/:reference", middleware.JWTMiddleware, controllers.DownloadReportSnapshot)
}
