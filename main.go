package main

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/yumyai/reblast/cmd"
	"github.com/yumyai/reblast/logger"
)

func main() {

	// Establish logger
	LOG_LEVEL := zapcore.InfoLevel

	if err := logger.InitLogger(LOG_LEVEL); err != nil {
		panic(err)
	}

	// Try load env
	dotenvErr := godotenv.Load()

	if dotenvErr != nil {
		logger.Warn("No .env found, using local environment")
	}

	defer logger.Sync() // Make sure that the buffered is flushed.

	if err := cmd.Execute(); err != nil {
		logger.Sync()
		os.Exit(1)
	}
}
