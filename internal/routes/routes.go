package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"hogenchat/internal/handlers"
	"hogenchat/internal/observability"
)

func Setup(
	app *fiber.App,
	systemHandler *handlers.SystemHandler,
	userHandler *handlers.UserHandler,
	conversationHandler *handlers.ConversationHandler,
	synthesisHandler *handlers.SynthesisHandler,
) {
	app.Get("/", systemHandler.Root)
	app.Get("/health", systemHandler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(observability.MetricsHandler()))

	// Users
	app.Get("/users", userHandler.ListUsers)
	app.Post("/users", userHandler.CreateUser)
	app.Get("/users/:id", userHandler.GetUser)
	app.Put("/users/:id", userHandler.UpdateUser)
	app.Delete("/users/:id", userHandler.DeleteUser)

	// Conversations
	app.Get("/conversations", conversationHandler.ListConversations)
	app.Post("/conversations", conversationHandler.CreateConversation)
	app.Put("/conversations/:id", conversationHandler.UpdateConversation)
	app.Delete("/conversations/:id", conversationHandler.DeleteConversation)

	// History turns
	app.Get("/history", conversationHandler.ListHistories)
	app.Post("/history", conversationHandler.CreateHistory)

	// Speech synthesis
	app.Post("/synthesize", synthesisHandler.Synthesize)
	app.Get("/voices", synthesisHandler.ListVoices)
	app.Get("/synthesis/logs", synthesisHandler.ListSynthesisLogs)
}
