package main

import (
	"os"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	_ "github.com/kovalyov-valentin/blog-auto-review"
	"github.com/kovalyov-valentin/blog-auto-review/internal/logging"
)

// Локальный запуск обеих функций:
//
//	FUNCTION_TARGET=CheckFeed go run ./cmd/functions
//	FUNCTION_TARGET=AutoReview go run ./cmd/functions
func main() {
	logger := logging.New(false)

	port := "8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}

	if err := funcframework.Start(port); err != nil {
		logger.Error("functions framework stopped", logging.Err(err))
		os.Exit(1)
	}
}
