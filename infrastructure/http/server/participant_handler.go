package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/samber/lo"

	"chatroom/domain/chat"
	"chatroom/errors"
)

type participantResponse struct {
	Name string `json:"name"`
	// LastStatus is the last-activity instant in unix milliseconds.
	LastStatus int64 `json:"lastStatus"`
}

func toParticipantResponse(p chat.Participant) participantResponse {
	return participantResponse{Name: p.Name, LastStatus: p.LastSeenAt.UnixMilli()}
}

// RegisterParticipant handles POST /participants.
func (s *Server) RegisterParticipant(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: invalid request body", errors.ErrInvalidInput))
		return
	}

	p, err := s.presence.Register(req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("Participant registered", "name", p.Name)
	s.writeJSON(w, http.StatusCreated, toParticipantResponse(p))
}

// ListParticipants handles GET /participants.
func (s *Server) ListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := s.presence.ListActive()
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := lo.Map(participants, func(p chat.Participant, _ int) participantResponse {
		return toParticipantResponse(p)
	})
	if resp == nil {
		resp = []participantResponse{}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// Heartbeat handles POST /status. The requester is identified by the User
// header; an empty header is a validation error, an unknown name is 404.
func (s *Server) Heartbeat(w http.ResponseWriter, r *http.Request) {
	name := r.Header.Get(UserHeader)
	if name == "" {
		s.writeError(w, fmt.Errorf("%w: missing %s header", errors.ErrInvalidInput, UserHeader))
		return
	}
	if err := s.presence.Heartbeat(name); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}
