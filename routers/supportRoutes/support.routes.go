package supportRoutes

import (
	supportControllers "aula/controllers/support"
	"aula/middleware"
	courseValidators "aula/validators/course"
	supportValidators "aula/validators/support"

	"github.com/gofiber/fiber/v2"
)

func SetupSupportRoutes(app *fiber.App) {
	supportGroup := app.Group("/support")

	supportGroup.Post("/ticket", middleware.JWTMiddleware, supportValidators.Ticket(), supportControllers.CreateTicket)
	supportGroup.Get("/ticket/list", middleware.JWTMiddleware, supportControllers.MyTickets)
	supportGroup.Get("/ticket/all", middleware.JWTMiddleware, supportControllers.ListAllTickets)
	supportGroup.Patch("/ticket/:ticket_id/status", middleware.JWTMiddleware, courseValidators.ParamID("ticket_id", "ticketID"), supportValidators.TicketStatus(), supportControllers.UpdateTicketStatus)
}
