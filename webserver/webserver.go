package webserver

import (
	"github.com/gofiber/fiber/v2"

	"cryptoai/interfaces"
	fiberhelpers "cryptoai/utils/fiberhelper"
	"cryptoai/utils/fiberhelper/middleware"
)

// WebServer is the dashboard API: user state, the trade ledger and threshold
// strategies, all behind JWT session auth.
type WebServer struct {
	app    *fiber.App
	secret string

	users      interfaces.UserStore
	ledger     interfaces.Ledger
	strategies interfaces.StrategyStore
}

func NewWebServer(jwtSecret string, users interfaces.UserStore, ledger interfaces.Ledger, strategies interfaces.StrategyStore) *WebServer {
	app := fiber.New(fiber.Config{
		ErrorHandler: fiberhelpers.DefaultErrorHandler,
	})

	server := &WebServer{
		app:        app,
		secret:     jwtSecret,
		users:      users,
		ledger:     ledger,
		strategies: strategies,
	}
	server.setupRoutes()
	return server
}

func (ws *WebServer) setupRoutes() {
	ws.app.Use(fiberhelpers.NewRecover())
	ws.app.Use(middleware.LogMiddleware("/healthz"))

	ws.app.Get("/healthz", ws.handleHealth)

	api := ws.app.Group("/api", JWTAuth(ws.secret))
	api.Get("/user", ws.handleGetUser)
	api.Get("/trades", ws.handleGetTrades)
	api.Post("/trades", ws.handlePostTrade)
	api.Get("/strategies", ws.handleGetStrategies)
	api.Post("/strategies", ws.handlePostStrategy)
}

// App exposes the fiber app for tests.
func (ws *WebServer) App() *fiber.App {
	return ws.app
}

func (ws *WebServer) Start(port string) {
	fiberhelpers.ListenWithGraceFullyShutdown(ws.app, port)
}

func (ws *WebServer) Shutdown() error {
	return ws.app.Shutdown()
}

func (ws *WebServer) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
