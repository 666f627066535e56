package main

import (
	"event-networking-api/core/logger"
	"event-networking-api/core/server"
)

// @title Event Networking API
// @version 1.0
// @description Meeting negotiation, slot capacity, attendance verification and pairing suggestions for trade events
// @termsOfService http://swagger.io/terms/

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
