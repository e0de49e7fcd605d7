package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"chessbot/internal/advisor"
)

const (
	invalidRequestMsg = "Invalid request"

	// 一个 FEN 不到 100 字节，4KB 足够
	maxBodyBytes = 4 << 10
)

// Handler 持有 advisor；没有全局状态
type Handler struct {
	advisor *advisor.Advisor
	log     zerolog.Logger
}

func NewHandler(a *advisor.Advisor, log zerolog.Logger) *Handler {
	return &Handler{advisor: a, log: log}
}

func (h *Handler) handleMove(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: invalidRequestMsg})
		return
	}

	reply, err := h.advisor.Reply(r.Context(), advisor.Request{
		FEN:        req.FEN,
		Difficulty: req.Difficulty,
	})
	switch {
	case err == nil, errors.Is(err, advisor.ErrNoLegalMove):
		writeJSON(w, http.StatusOK, replyToDTO(reply))
	case errors.Is(err, advisor.ErrInvalidRequest):
		h.log.Debug().Err(err).Msg("move-rejected")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: invalidRequestMsg})
	case errors.Is(err, context.Canceled):
		// 客户端已经断开，没人收结果
		h.log.Debug().Err(err).Msg("move-abandoned")
	default:
		h.log.Error().Err(err).Msg("move-failed")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func (h *Handler) handleSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.advisor.Sessions()
	snap := sessions.Snapshot()
	now := time.Now()

	resp := SessionsResponse{
		Capacity: sessions.Capacity(),
		Count:    len(snap),
		Keys:     make([]string, 0, len(snap)),
		Sessions: make([]SessionInfo, 0, len(snap)),
	}
	for _, hist := range snap {
		resp.Keys = append(resp.Keys, hist.Key)
		resp.Sessions = append(resp.Sessions, SessionInfo{
			Key:       hist.Key,
			CreatedAt: hist.CreatedAt,
			AgeMs:     now.Sub(hist.CreatedAt).Milliseconds(),
			Positions: hist.Len(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleJournal(w http.ResponseWriter, r *http.Request) {
	j := h.advisor.Journal()
	if j == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "journal disabled"})
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad limit"})
			return
		}
		limit = n
	}

	items, err := j.Recent(r.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("journal-read")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, JournalResponse{Items: items})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
