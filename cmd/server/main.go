package main

import (
	"net/http"

	"github.com/joho/godotenv"

	"github.com/iismail06/Skincare-tracker-SKYN/config"
	"github.com/iismail06/Skincare-tracker-SKYN/database"
	"github.com/iismail06/Skincare-tracker-SKYN/logger"
	"github.com/iismail06/Skincare-tracker-SKYN/routes"
)

func main() {
	logger.Init()

	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using system env vars")
	}

	database.InitDB()

	r := routes.SetupRouter(database.DB)

	port := config.GetEnv("PORT", "8080")
	logger.Info("Server starting", "port", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Error("Server failed to start", "error", err)
	}
}
