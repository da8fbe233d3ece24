// Command meetlinkfn runs the meet-link provisioning functions as a small
// standalone HTTP service. The web app calls it through the callable
// envelope client in internal/meetlink.
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	meetlinkfn "github.com/sistercircle/sistercircle/internal/functions/meetlink"
	"go.uber.org/zap"
)

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	calendarID := os.Getenv("MEETFN_CALENDAR_ID")
	if calendarID == "" {
		logger.Fatal("MEETFN_CALENDAR_ID must be set (the scheduling calendar's email)")
	}

	authToken := os.Getenv("MEETFN_AUTH_TOKEN")
	if authToken == "" {
		logger.Warn("MEETFN_AUTH_TOKEN is empty; requests will not be authenticated")
	}

	api, err := meetlinkfn.NewGoogleCalendar(context.Background(), os.Getenv("MEETFN_CREDENTIALS_FILE"))
	if err != nil {
		logger.Fatal("calendar client init failed", zap.Error(err))
	}

	handler := meetlinkfn.NewHandler(api, calendarID, authToken, logger)

	addr := os.Getenv("MEETFN_ADDR")
	if addr == "" {
		addr = ":8090"
	}

	logger.Info("meetlinkfn listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, meetlinkfn.Routes(handler)); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
