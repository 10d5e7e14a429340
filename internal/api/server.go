// internal/api/server.go
package api

import (
	"github.com/apex/log"
	"github.com/gofiber/fiber"

	"github.com/tamzrod/bot-status/internal/status"
)

// ApiServer exposes the bot's cached status over HTTP.
// Every request reads the cache; nothing here talks to the device.
type ApiServer struct {
	src    status.Source
	app    *fiber.App
	logger *log.Entry
}

func NewServer(src status.Source) *ApiServer {
	as := &ApiServer{
		src:    src,
		app:    fiber.New(),
		logger: log.WithField("module", "api"),
	}

	as.app.Get("/health", as.getHealth)
	as.app.Get("/status", as.getStatus)
	as.app.Get("/commands", as.getCommands)

	return as
}

// App returns the underlying fiber app.
func (as *ApiServer) App() *fiber.App {
	return as.app
}

// Start serves until the listener fails or Shutdown is called.
func (as *ApiServer) Start(addr string) error {
	as.logger.Infof("listening on %s", addr)
	return as.app.Listen(addr)
}

func (as *ApiServer) Shutdown() error {
	return as.app.Shutdown()
}
