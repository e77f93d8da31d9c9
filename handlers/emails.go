package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"p9e.in/riverai/models"
	"p9e.in/riverai/pkg/notify"
)

// SendEmail relays {to, subject, body} to the configured notifier.
func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	if h.Sender == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Missing SMTP configuration."})
		return
	}
	var msg notify.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if err := msg.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.Sender.Send(r.Context(), msg); err != nil {
		h.Logger.Warn("Email send failed", zap.String("to", msg.To), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "Error sending email."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Email sent successfully."})
}

// ListEmails returns the send audit log, newest first.
func (h *Handler) ListEmails(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	emails, err := h.Emails.List(r.Context(), limit)
	if err != nil {
		h.fail(w, r, "failed to list emails", err)
		return
	}
	if emails == nil {
		emails = []models.SentEmail{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"emails": emails})
}
