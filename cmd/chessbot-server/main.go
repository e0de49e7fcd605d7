package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"chessbot/internal/advisor"
	"chessbot/internal/config"
	"chessbot/internal/engine"
	"chessbot/internal/server/game"
	httpserver "chessbot/internal/server/http"
	"chessbot/internal/store"
)

func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default: // linux / bsd
		cmd = exec.Command("xdg-open", url)
	}

	_ = cmd.Start() // 服务器环境可能没有图形界面，忽略错误
}

func main() {
	configPath := flag.String("config", "", "optional JSON config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	webDir := flag.String("web", "", "directory with index.html and static/; the repo ships ./web, run from the repo root (overrides config)")
	journal := flag.String("journal", "", "sqlite journal path, empty disables (overrides config)")
	capacity := flag.Int("capacity", 0, "session cache capacity (overrides config)")
	logLevel := flag.String("log-level", "", "debug / info / warn / error (overrides config)")
	logJSON := flag.Bool("log-json", false, "log JSON lines instead of console output")
	browse := flag.Bool("open", false, "open the board in the default browser")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLogger().Fatal().Err(err).Str("path", *configPath).Msg("config")
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "web":
			cfg.WebDir = *webDir
		case "journal":
			cfg.JournalPath = *journal
		case "capacity":
			cfg.SessionCapacity = *capacity
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-json":
			cfg.LogJSON = *logJSON
		}
	})
	if err := cfg.Validate(); err != nil {
		bootLogger().Fatal().Err(err).Msg("config")
	}

	log, err := config.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		bootLogger().Fatal().Err(err).Msg("logger")
	}

	opts := []advisor.Option{
		advisor.WithLogger(log),
		advisor.WithDifficulties(cfg.Budgets()),
	}
	if cfg.JournalPath != "" {
		j, err := store.Open(cfg.JournalPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.JournalPath).Msg("journal")
		}
		defer j.Close()
		opts = append(opts, advisor.WithJournal(j))
		log.Info().Str("path", cfg.JournalPath).Msg("journal-open")
	}

	if _, err := os.Stat(filepath.Join(cfg.WebDir, "index.html")); err != nil {
		log.Warn().Err(err).Str("web", cfg.WebDir).Msg("web-missing: GET / will 404")
	}

	a := advisor.New(engine.NewEngine(), game.NewManager(cfg.SessionCapacity), opts...)
	srv := httpserver.NewServer(cfg.Addr, httpserver.NewRouter(httpserver.NewHandler(a, log), cfg.WebDir))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.Addr).Str("web", cfg.WebDir).Int("capacity", cfg.SessionCapacity).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("shutting-down")
		return srv.Shutdown(shutdownCtx)
	})
	if *browse {
		go func() {
			// 等服务器起来再开浏览器
			time.Sleep(100 * time.Millisecond)
			openBrowser("http://127.0.0.1" + cfg.Addr)
		}()
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server")
		os.Exit(1)
	}
}

func bootLogger() *zerolog.Logger {
	l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	return &l
}
