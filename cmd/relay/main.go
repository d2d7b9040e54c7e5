// The relay is the lightweight deployment used before the full API: it
// forwards contact submissions to a support inbox over SMTP and appends
// them to a local workbook file.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vancr/backend/internal/config"
	"github.com/vancr/backend/internal/contactlog"
	"github.com/vancr/backend/internal/handler"
	"github.com/vancr/backend/internal/logging"
	"github.com/vancr/backend/internal/storage"
	"github.com/vancr/backend/pkg/mailer"
)

// sendRequest is the expected JSON body for POST /send-email.
type sendRequest struct {
	Subject string `json:"subject"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if !cfg.Mail.Configured() {
		slog.Warn("SMTP credentials are not fully configured; /send-email will fail")
	}
	m := mailer.New(mailer.Config{
		Host:      cfg.Mail.Host,
		Port:      cfg.Mail.Port,
		Username:  cfg.Mail.Username,
		Password:  cfg.Mail.Password,
		From:      cfg.Mail.From,
		Recipient: cfg.Mail.Recipient,
	})

	workbookPath := os.Getenv("CONTACT_FILE")
	if workbookPath == "" {
		workbookPath = "contact.xlsx"
	}
	contactLog := contactlog.New(storage.NewFileBlob(workbookPath), false)
	contactHandler := handler.NewContactHandler(contactLog)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /send-email", sendEmail(m))
	mux.HandleFunc("POST /save-contact", contactHandler.Save)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("VanCr email endpoint"))
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler.RequestLogger(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("relay listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// sendEmail handles POST /send-email: forwards a submission to the support
// inbox. Requires email or message, same rule as the workbook log.
func sendEmail(m mailer.Mailer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid JSON body"})
			return
		}
		if strings.TrimSpace(req.Message) == "" && strings.TrimSpace(req.Email) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "Missing message or email"})
			return
		}

		err := m.Send(r.Context(), mailer.Message{
			Subject: req.Subject,
			Phone:   req.Phone,
			Email:   req.Email,
			Body:    req.Message,
		})
		if err != nil {
			slog.Error("send failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "Failed to send email"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
