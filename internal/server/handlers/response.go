package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/objsync/pkg/api"
)

// SendJSON отправляет JSON ответ
func SendJSON(w http.ResponseWriter, logger *slog.Logger, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// SendError отправляет JSON ответ с ошибкой.
// message уходит клиенту, поэтому не должен содержать деталей реализации.
func SendError(w http.ResponseWriter, logger *slog.Logger, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	SendJSON(w, logger, resp, statusCode)
}

// sendBodyError отвечает на ошибку чтения тела запроса:
// 413 если сработал лимит размера, иначе 400
func sendBodyError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		SendError(w, logger, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	SendError(w, logger, "invalid request body", http.StatusBadRequest)
}
