package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/samber/lo"

	"chatroom/domain/chat"
	"chatroom/errors"
)

type messageBody struct {
	To   string `json:"to"`
	Text string `json:"text"`
	Kind string `json:"type"`
}

type messageResponse struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
	Kind string `json:"type"`
	Time string `json:"time"`
	Lang string `json:"lang,omitempty"`
}

func toMessageResponse(m chat.Message) messageResponse {
	return messageResponse{
		ID:   m.ID.String(),
		From: m.From,
		To:   m.To,
		Text: m.Text,
		Kind: string(m.Kind),
		Time: m.SentAt,
		Lang: m.Lang,
	}
}

// PostMessage handles POST /messages. The sender comes from the User header.
func (s *Server) PostMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var body messageBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, fmt.Errorf("%w: invalid request body", errors.ErrInvalidInput))
		return
	}

	m, err := s.messages.Send(chat.SendCommand{
		From: r.Header.Get(UserHeader),
		To:   body.To,
		Text: body.Text,
		Kind: body.Kind,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toMessageResponse(m))
}

// ListMessages handles GET /messages?limit=N. A limit that is absent, not a
// number, or not positive means the full visible set.
func (s *Server) ListMessages(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	visible, err := s.messages.ListVisible(r.Header.Get(UserHeader), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := lo.Map(visible, func(m chat.Message, _ int) messageResponse {
		return toMessageResponse(m)
	})
	if resp == nil {
		resp = []messageResponse{}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// EditMessage handles PUT /messages/{id}.
func (s *Server) EditMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	id, err := parseID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var body messageBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, fmt.Errorf("%w: invalid request body", errors.ErrInvalidInput))
		return
	}

	err = s.messages.Edit(chat.EditCommand{
		ID:        id,
		Requester: r.Header.Get(UserHeader),
		To:        body.To,
		Text:      body.Text,
		Kind:      body.Kind,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}

// DeleteMessage handles DELETE /messages/{id}.
func (s *Server) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.messages.Delete(id, r.Header.Get(UserHeader)); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed message id", errors.ErrInvalidInput)
	}
	return id, nil
}
