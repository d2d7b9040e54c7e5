// Azure Functions custom handler for the contact log. The Functions host
// proxies HTTP triggers to the port named by FUNCTIONS_CUSTOMHANDLER_PORT.
package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/vancr/backend/internal/config"
	"github.com/vancr/backend/internal/contactlog"
	"github.com/vancr/backend/internal/handler"
	"github.com/vancr/backend/internal/logging"
	"github.com/vancr/backend/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	var blob storage.Blob
	viaDirect := false
	switch {
	case cfg.ContactLog.SASURL != "":
		blob, err = storage.NewAzureBlobFromURL(cfg.ContactLog.SASURL, cfg.ContactLog.Container, cfg.ContactLog.BlobName)
		if err != nil {
			logging.Fatal("invalid EXCEL_SAS_URL", "error", err)
		}
		viaDirect = true
	case cfg.ContactLog.ConnectionString != "":
		blob, err = storage.NewAzureBlobFromConnectionString(cfg.ContactLog.ConnectionString, cfg.ContactLog.Container, cfg.ContactLog.BlobName)
		if err != nil {
			logging.Fatal("invalid storage connection string", "error", err)
		}
	}
	contactHandler := handler.NewContactHandler(contactlog.New(blob, viaDirect))

	port := os.Getenv("FUNCTIONS_CUSTOMHANDLER_PORT")
	if port == "" {
		port = "8080"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/SaveContact", contactHandler.Save)

	slog.Info("custom handler listening", "port", port)
	if err := http.ListenAndServe(":"+port, handler.RequestLogger(mux)); err != nil {
		logging.Fatal("server error", "error", err)
	}
}
