package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/testhr/llamagate/internal/core"
	"github.com/testhr/llamagate/pkg/log"
)

func (s *Server) handleConversation(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")

	turns, err := s.generator.Conversation(r.Context(), sessionID)
	if err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Str("session_id", sessionID).Msg("conversation lookup failed")
		respondError(w, http.StatusInternalServerError, "Internal storage error")
		return
	}
	if len(turns) == 0 {
		respondError(w, http.StatusNotFound, "No conversation found for this session ID")
		return
	}

	respondSuccess(w, http.StatusOK, map[string]any{
		"session_id":   sessionID,
		"conversation": turns,
	})
}

func (s *Server) handleConversationsByDate(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")

	// validated before the store is touched
	if _, err := time.Parse(core.DayFormat, date); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		return
	}

	turns, err := s.generator.ConversationsByDate(r.Context(), date)
	if err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Str("date", date).Msg("by-date lookup failed")
		respondError(w, http.StatusInternalServerError, "Internal storage error")
		return
	}
	if len(turns) == 0 {
		respondError(w, http.StatusNotFound, fmt.Sprintf("No conversations found for date %s", date))
		return
	}

	respondSuccess(w, http.StatusOK, map[string]any{
		"date":          date,
		"conversations": turns,
	})
}
