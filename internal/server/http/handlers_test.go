package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"chessbot/internal/advisor"
	"chessbot/internal/engine"
	"chessbot/internal/rules"
	"chessbot/internal/server/game"
	"chessbot/internal/store"
)

const foolsMateFEN = "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"

type frozenClock struct{ t time.Time }

func (c frozenClock) Now() time.Time { return c.t }

func newTestRouter(t *testing.T, webDir string, opts ...advisor.Option) (http.Handler, *advisor.Advisor) {
	t.Helper()
	e := engine.NewEngine(engine.WithClock(frozenClock{t: time.Unix(0, 0)}))
	opts = append(opts, advisor.WithLogger(zerolog.Nop()))
	a := advisor.New(e, game.NewManager(game.DefaultCapacity), opts...)
	return NewRouter(NewHandler(a, zerolog.Nop()), webDir), a
}

func postMove(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/move", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMoveEasyFromStartPosition(t *testing.T) {
	h, _ := newTestRouter(t, "")

	body, _ := json.Marshal(MoveRequest{FEN: rules.StartFEN, Difficulty: "easy"})
	rec := postMove(t, h, string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("content type = %q", ct)
	}

	var resp MoveResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != advisor.StatusOK || resp.Depth != 2 || resp.Move == "" || resp.SAN == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	b, err := rules.Decode(resp.FEN)
	if err != nil {
		t.Fatalf("response fen does not decode: %v", err)
	}
	if b.Turn().String() != "b" {
		t.Fatalf("side to move = %s", b.Turn())
	}
}

func TestMoveInvalidRequests(t *testing.T) {
	h, a := newTestRouter(t, "")

	cases := []struct {
		name string
		body string
	}{
		{"not json", "fen=abc"},
		{"missing fen", `{"difficulty":"easy"}`},
		{"bad fen", `{"fen":"not a position","difficulty":"easy"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postMove(t, h, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", rec.Code)
			}
			var resp ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Error != "Invalid request" {
				t.Fatalf("error = %q", resp.Error)
			}
		})
	}
	if n := a.Sessions().Len(); n != 0 {
		t.Fatalf("invalid requests created %d sessions", n)
	}
}

func TestMoveRejectsOversizedBody(t *testing.T) {
	h, a := newTestRouter(t, "")

	body, _ := json.Marshal(MoveRequest{FEN: strings.Repeat("8/", 4000), Difficulty: "easy"})
	rec := postMove(t, h, string(body))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if a.Sessions().Len() != 0 {
		t.Fatal("oversized body reached the advisor")
	}
}

func TestMoveNoLegalMoves(t *testing.T) {
	h, _ := newTestRouter(t, "")

	body, _ := json.Marshal(MoveRequest{FEN: foolsMateFEN})
	rec := postMove(t, h, string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp MoveResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != advisor.StatusNoMoves || resp.Move != "" || resp.FEN != foolsMateFEN {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSessionsEndpoint(t *testing.T) {
	h, _ := newTestRouter(t, "")
	body, _ := json.Marshal(MoveRequest{FEN: rules.StartFEN, Difficulty: "easy"})
	if rec := postMove(t, h, string(body)); rec.Code != http.StatusOK {
		t.Fatalf("move status = %d", rec.Code)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp SessionsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Capacity != game.DefaultCapacity || resp.Count != 1 || resp.Keys[0] != rules.GameKeyOf(rules.StartFEN) {
		t.Fatalf("unexpected sessions: %+v", resp)
	}
	if len(resp.Sessions) != 1 {
		t.Fatalf("sessions = %+v", resp.Sessions)
	}
	s := resp.Sessions[0]
	// 输入局面和引擎走后的局面
	if s.Key != resp.Keys[0] || s.Positions != 2 || s.CreatedAt.IsZero() || s.AgeMs < 0 {
		t.Fatalf("unexpected session info: %+v", s)
	}
}

func TestJournalEndpoint(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		h, _ := newTestRouter(t, "")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/journal", nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("enabled", func(t *testing.T) {
		j, err := store.Open(filepath.Join(t.TempDir(), "journal.db"))
		if err != nil {
			t.Fatalf("open journal: %v", err)
		}
		defer j.Close()

		h, _ := newTestRouter(t, "", advisor.WithJournal(j))
		body, _ := json.Marshal(MoveRequest{FEN: rules.StartFEN, Difficulty: "easy"})
		if rec := postMove(t, h, string(body)); rec.Code != http.StatusOK {
			t.Fatalf("move status = %d", rec.Code)
		}

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/journal?limit=5", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var resp JournalResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(resp.Items) != 1 || resp.Items[0].FENIn != rules.StartFEN || resp.Items[0].Difficulty != "easy" {
			t.Fatalf("unexpected journal: %+v", resp.Items)
		}

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/journal?limit=abc", nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("bad limit status = %d", rec.Code)
		}
	})
}

func TestStaticRoutes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>board</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "static", "js"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "static", "js", "app.js"), []byte("console.log(1)"), 0o644); err != nil {
		t.Fatal(err)
	}
	h, _ := newTestRouter(t, dir)

	for path, want := range map[string]string{
		"/":                 "<h1>board</h1>",
		"/static/js/app.js": "console.log(1)",
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte(want)) {
			t.Fatalf("%s: status=%d body=%q", path, rec.Code, rec.Body)
		}
	}
}

func TestShippedWebDir(t *testing.T) {
	h, _ := newTestRouter(t, filepath.Join("..", "..", "..", "web"))

	for path, want := range map[string]string{
		"/":                   `id="board"`,
		"/static/js/board.js": `fetch("/move"`,
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), want) {
			t.Fatalf("%s: status=%d", path, rec.Code)
		}
	}
}

func TestAnalyzeStreamsDepths(t *testing.T) {
	h, _ := newTestRouter(t, "")
	srv := httptest.NewServer(h)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/analyze"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))

	if err := conn.WriteJSON(MoveRequest{FEN: rules.StartFEN, Difficulty: "easy"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var depths []int
	for {
		var msg analyzeMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg.Type == "depth" {
			depths = append(depths, msg.Depth)
			continue
		}
		if msg.Type != "result" || msg.Status != advisor.StatusOK || msg.Depth != 2 || msg.Move == "" {
			t.Fatalf("unexpected final message: %+v", msg)
		}
		break
	}
	if len(depths) != 2 || depths[0] != 1 || depths[1] != 2 {
		t.Fatalf("depths = %v", depths)
	}

	// 同一连接上的非法请求只回 error，不断开
	if err := conn.WriteJSON(MoveRequest{FEN: "garbage"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var msg analyzeMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "error" || msg.Error != "Invalid request" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}
