// Package server maps the REST endpoints onto the presence and message
// services. It is glue: request decoding, the User identity header, error
// to status-code mapping, nothing more.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"chatroom/errors"
	"chatroom/services"
)

// UserHeader carries the requester identity out-of-band on message and
// heartbeat endpoints.
const UserHeader = "User"

const maxBodyBytes = 1 << 20

type Server struct {
	presence services.IPresenceService
	messages services.IMessageService
	log      *slog.Logger
}

func New(log *slog.Logger, presence services.IPresenceService, messages services.IMessageService) *Server {
	return &Server{presence: presence, messages: messages, log: log}
}

// Router wires the REST surface. Allowed origins may be empty, which means
// any origin is accepted.
func (s *Server) Router(allowedOrigins []string) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/participants", s.RegisterParticipant).Methods(http.MethodPost)
	r.HandleFunc("/participants", s.ListParticipants).Methods(http.MethodGet)
	r.HandleFunc("/messages", s.PostMessage).Methods(http.MethodPost)
	r.HandleFunc("/messages", s.ListMessages).Methods(http.MethodGet)
	r.HandleFunc("/messages/{id}", s.EditMessage).Methods(http.MethodPut)
	r.HandleFunc("/messages/{id}", s.DeleteMessage).Methods(http.MethodDelete)
	r.HandleFunc("/status", s.Heartbeat).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", UserHeader},
	})
	return c.Handler(r)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			s.log.Error("Response encoding failed", "error", err)
		}
	}
}

// writeError maps the domain error onto its status code. Internal failures
// get a generic body so storage details never reach the client.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.MapToStatusCode(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error("Request failed", "error", err)
		msg = "internal error"
	}
	s.writeJSON(w, status, map[string]string{"error": msg})
}
