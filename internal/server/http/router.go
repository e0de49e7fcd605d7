package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// NewRouter 挂好所有路由：
//
//	POST /move          引擎走一步
//	GET  /api/sessions  重复局面缓存里的对局
//	GET  /api/journal   最近的走子记录
//	GET  /ws/analyze    按深度推送搜索进度
//	GET  /, /static/*   前端页面
func NewRouter(h *Handler, webDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.log))
	r.Use(middleware.Recoverer)

	r.Post("/move", h.handleMove)
	r.Route("/api", func(r chi.Router) {
		r.Get("/sessions", h.handleSessions)
		r.Get("/journal", h.handleJournal)
	})
	r.Get("/ws/analyze", h.handleAnalyze)

	RegisterStaticRoutes(r, webDir)
	return r
}

// NewServer 包一层 http.Server。WriteTimeout 不设：hard 难度一步最多要 5 秒多，
// websocket 连接也会长时间占用。
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http")
		})
	}
}
