package utils

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse 错误响应体
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// RespondJSON 发送JSON响应
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// RespondError 发送错误响应
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

// RespondFieldErrors 发送带字段详情的错误响应
func RespondFieldErrors(w http.ResponseWriter, status int, message string, fields map[string]string) {
	RespondJSON(w, status, ErrorResponse{Error: message, Fields: fields})
}
