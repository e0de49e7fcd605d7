package httpserver

import (
	"time"

	"chessbot/internal/advisor"
	"chessbot/internal/engine"
	"chessbot/internal/store"
)

// MoveRequest 请求让引擎为当前局面走一步
type MoveRequest struct {
	FEN        string `json:"fen"`
	Difficulty string `json:"difficulty"` // easy / medium / hard，缺省 medium
}

type MoveResponse struct {
	FEN        string `json:"fen"` // 引擎落子后局面；no_moves 时为原局面
	Move       string `json:"move,omitempty"`
	SAN        string `json:"san,omitempty"`
	Score      int    `json:"score"` // 白方视角
	Depth      int    `json:"depth"`
	Nodes      int64  `json:"nodes"`
	TimeMs     int64  `json:"time_ms"`
	Status     string `json:"status"` // "ok" / "no_moves"
	DecisionID string `json:"decision_id,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type SessionsResponse struct {
	Capacity int           `json:"capacity"`
	Count    int           `json:"count"`
	Keys     []string      `json:"keys"` // 第一个最早被淘汰
	Sessions []SessionInfo `json:"sessions"`
}

// SessionInfo 描述缓存里的一局，顺序与 Keys 相同
type SessionInfo struct {
	Key       string    `json:"key"`
	CreatedAt time.Time `json:"created_at"`
	AgeMs     int64     `json:"age_ms"`
	Positions int       `json:"positions"` // 已记录的局面数
}

type JournalResponse struct {
	Items []store.Decision `json:"items"`
}

// analyzeMessage 是 /ws/analyze 推给前端的消息
type analyzeMessage struct {
	Type     string `json:"type"` // "depth" / "result" / "error"
	Depth    int    `json:"depth,omitempty"`
	Move     string `json:"move,omitempty"`
	Score    int    `json:"score"`
	Nodes    int64  `json:"nodes,omitempty"`
	TimeMs   int64  `json:"time_ms"`
	Complete bool   `json:"complete,omitempty"`
	FEN      string `json:"fen,omitempty"`
	Status   string `json:"status,omitempty"`
	Error    string `json:"error,omitempty"`
}

func replyToDTO(r advisor.Reply) MoveResponse {
	return MoveResponse{
		FEN:        r.FEN,
		Move:       r.Move,
		SAN:        r.SAN,
		Score:      r.Score,
		Depth:      r.Depth,
		Nodes:      r.Nodes,
		TimeMs:     r.Elapsed.Milliseconds(),
		Status:     r.Status,
		DecisionID: r.DecisionID,
	}
}

func depthToMessage(d engine.DepthInfo) analyzeMessage {
	return analyzeMessage{
		Type:     "depth",
		Depth:    d.Depth,
		Move:     d.Move.String(),
		Score:    d.Score,
		Nodes:    d.Nodes,
		TimeMs:   d.Elapsed.Milliseconds(),
		Complete: d.Complete,
	}
}

func replyToMessage(r advisor.Reply) analyzeMessage {
	return analyzeMessage{
		Type:   "result",
		Depth:  r.Depth,
		Move:   r.Move,
		Score:  r.Score,
		Nodes:  r.Nodes,
		TimeMs: r.Elapsed.Milliseconds(),
		FEN:    r.FEN,
		Status: r.Status,
	}
}
