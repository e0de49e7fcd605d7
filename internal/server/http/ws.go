package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"chessbot/internal/advisor"
	"chessbot/internal/engine"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleAnalyze: 客户端每发一个 MoveRequest，服务端按深度推送 "depth"，
// 最后推送 "result"（或 "error"）。一个连接上的请求串行处理。
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws-upgrade")
		return
	}
	defer conn.Close()

	log := h.log.With().Str("ws", uuid.NewString()).Logger()
	log.Debug().Str("remote", r.RemoteAddr).Msg("ws-open")

	for {
		var req MoveRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("ws-read")
			}
			return
		}

		// 推送失败说明对端已断开，取消本次搜索
		ctx, cancel := context.WithCancel(r.Context())
		var writeErr error
		reply, err := h.advisor.Reply(ctx, advisor.Request{
			FEN:        req.FEN,
			Difficulty: req.Difficulty,
			OnDepth: func(d engine.DepthInfo) {
				if writeErr == nil {
					if writeErr = conn.WriteJSON(depthToMessage(d)); writeErr != nil {
						cancel()
					}
				}
			},
		})
		cancel()
		if writeErr != nil {
			log.Debug().Err(writeErr).Msg("ws-write")
			return
		}

		msg := replyToMessage(reply)
		if err != nil && !errors.Is(err, advisor.ErrNoLegalMove) {
			msg = analyzeMessage{Type: "error", Error: invalidRequestMsg}
			if !errors.Is(err, advisor.ErrInvalidRequest) {
				msg.Error = "internal error"
			}
		}
		if err := conn.WriteJSON(msg); err != nil {
			log.Debug().Err(err).Msg("ws-write")
			return
		}
	}
}
