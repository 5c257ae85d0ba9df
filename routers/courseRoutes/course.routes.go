package courseRoutes

import (
	controllers "aula/controllers/course"
	"aula/middleware"
	validators "aula/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the student-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	courseGroup.Get("/list", middleware.JWTMiddleware, controllers.ListCourses)
	courseGroup.Get("/:course_id", middleware.JWTMiddleware, validators.ParamID("course_id", "courseID"), controllers.CourseDetail)
	courseGroup.Post("/:course_id/enroll", middleware.JWTMiddleware, validators.ParamID("course_id", "courseID"), controllers.Enroll)

	moduleGroup := app.Group("/module")
	moduleGroup.Get("/:module_id", middleware.JWTMiddleware, validators.ParamID("module_id", "moduleID"), controllers.ModuleDetail)

	questionnaireGroup := app.Group("/questionnaire")
	questionnaireGroup.Get("/:questionnaire_id", middleware.JWTMiddleware, validators.ParamID("questionnaire_id", "questionnaireID"), controllers.ListQuestions)
	questionnaireGroup.Post("/:questionnaire_id/submit", middleware.JWTMiddleware, validators.ParamID("questionnaire_id", "questionnaireID"), validators.Submission(), controllers.SubmitAttempt)

	attemptGroup := app.Group("/attempt")
	attemptGroup.Get("/list", middleware.JWTMiddleware, controllers.MyAttempts)
	attemptGroup.Get("/:attempt_id", middleware.JWTMiddleware, validators.ParamID("attempt_id", "attemptID"), controllers.AttemptResult)

	simulationGroup := app.Group("/simulation")
	simulationGroup.Get("/:simulation_id/status", middleware.JWTMiddleware, validators.ParamID("simulation_id", "simulationID"), controllers.SimulationStatus)
	simulationGroup.Post("/:simulation_id/start", middleware.JWTMiddleware, validators.ParamID("simulation_id", "simulationID"), controllers.StartSimulation)
	simulationGroup.Post("/:simulation_id/restart", middleware.JWTMiddleware, validators.ParamID("simulation_id", "simulationID"), controllers.RestartSimulation)

	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.MyCourses)
}
