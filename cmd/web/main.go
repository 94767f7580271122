package main

import (
	"jobportal_backend/internal/app"
	"jobportal_backend/internal/logger"
)

func main() {
	application, err := app.New()
	if err != nil {
		logger.Fatal("failed to start", "error", err.Error())
	}

	if err := application.Run(); err != nil {
		logger.Fatal("server error", "error", err.Error())
	}
}
