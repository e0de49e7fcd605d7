// Package mobile 是给 gomobile bind 用的入口：在 App 进程内起本地服务，
// WebView 直接连 127.0.0.1。
package mobile

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"chessbot/internal/advisor"
	"chessbot/internal/config"
	"chessbot/internal/engine"
	"chessbot/internal/server/game"
	httpserver "chessbot/internal/server/http"
)

var (
	mu  sync.Mutex
	srv *http.Server
	ln  net.Listener
)

// StartServer starts the local HTTP server in the background.
// webDir: physical path to the extracted web assets
// port: port to listen on, e.g. "5000"; "0" picks a free one (see Addr)
func StartServer(webDir string, port string) error {
	mu.Lock()
	defer mu.Unlock()
	if srv != nil {
		return errors.New("server already running")
	}

	log, err := config.NewLogger(os.Stderr, "info", false)
	if err != nil {
		return err
	}
	l, err := net.Listen("tcp", "127.0.0.1:"+port)
	if err != nil {
		return err
	}

	a := advisor.New(engine.NewEngine(), game.NewManager(game.DefaultCapacity), advisor.WithLogger(log))
	s := httpserver.NewServer(l.Addr().String(), httpserver.NewRouter(httpserver.NewHandler(a, log), webDir))
	srv, ln = s, l

	// 后台跑，不阻塞 Android UI 线程
	go func() {
		if err := s.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("mobile-server")
		}
	}()
	return nil
}

// Addr returns the listening address, or "" when stopped.
func Addr() string {
	mu.Lock()
	defer mu.Unlock()
	if ln == nil {
		return ""
	}
	return ln.Addr().String()
}

func StopServer() error {
	mu.Lock()
	s := srv
	srv, ln = nil, nil
	mu.Unlock()
	if s == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}
