package http

import (
	"errors"
	"net/http"

	"financeai/internal/advisor"
	"financeai/internal/core"
	"financeai/internal/services"
)

type chatHistory struct {
	Greeting string             `json:"greeting"`
	Messages []core.ChatMessage `json:"messages"`
	Pending  int                `json:"pending"`
}

func (s *Server) handleChatHistory(w http.ResponseWriter, _ *http.Request) {
	NewResponse().JSON(chatHistory{
		Greeting: advisor.Greeting,
		Messages: s.chat.History(),
		Pending:  s.chat.Pending(),
	}).Write(w)
}

// handleSendChat accepts a question and answers 202: the assistant reply is
// appended to the history after the typing delay.
func (s *Server) handleSendChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorFor(err).Write(w)
		return
	}
	query := sanitizeInput(req.Message)
	if query == "" {
		errorFor(core.ErrEmptyContent).Write(w)
		return
	}

	msg, err := s.chat.Send(r.Context(), query)
	if errors.Is(err, services.ErrChatClosed) {
		ServiceUnavailableError(err.Error()).Write(w)
		return
	}
	if err != nil {
		errorFor(err).Write(w)
		return
	}
	NewResponse().Status(http.StatusAccepted).JSON(msg).Write(w)
}
