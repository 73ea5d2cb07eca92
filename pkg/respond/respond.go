package respond

import (
	"encoding/json"
	"net/http"
)

// Envelope - единый формат ответа для всех операций
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, r *http.Request, code int, data interface{}) {
	write(w, code, Envelope{Success: true, Data: data})
}

func Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	write(w, code, Envelope{Success: false, Error: message})
}

func write(w http.ResponseWriter, code int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(env)
}
