package router

import (
	"context"

	"live_shopping_service/internal/chat/app"
	"live_shopping_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes 註冊聊天相關的路由
// @title Live Shopping Chat Service API
// @version 1.0
// @description API documentation for Live Shopping Chat Service
// @host localhost:8083
// @BasePath /
func RegisterRoutes(r *fiber.App, chatWebsocket *app.ChatWebsocketHandler, chatHandler *app.ChatHandler) {
	r.Get("/swagger/*", swagger.HandlerDefault)
	r.Get("/", app.ConnectCheck)
	r.Post("/debug", app.DebugLogFlag)

	r.Use(middlewares.JWTMiddleware())

	r.Get("/ws/chat", websocket.New(func(c *websocket.Conn) {
		// 一條連線一個執行個體，session 掛在連線上
		chatWebsocket.HandleConnection(context.Background(), c)
	}))

	shows := r.Group("/shows")
	shows.Post("/", chatHandler.CreateShow)
	shows.Get("/:show_id", chatHandler.GetShow)
	shows.Put("/:show_id/lifecycle", chatHandler.UpdateLifecycle)
	shows.Get("/:show_id/messages", chatHandler.RecentMessages)
	shows.Post("/:show_id/messages", chatHandler.PostMessage)
	shows.Get("/:show_id/state", chatHandler.ChatState)
	shows.Post("/:show_id/reports", chatHandler.ReportMessage)
}
