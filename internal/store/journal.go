package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrDisabled is returned by a nil Journal.
var ErrDisabled = errors.New("journal disabled")

// Decision is one move served by the advisor.
type Decision struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	GameKey    string    `json:"game_key"`
	FENIn      string    `json:"fen_in"`
	FENOut     string    `json:"fen_out"`
	Move       string    `json:"move"`
	Difficulty string    `json:"difficulty"`
	Depth      int       `json:"depth"`
	Score      int       `json:"score"`
	Nodes      int64     `json:"nodes"`
	ElapsedMs  int64     `json:"elapsed_ms"`
}

// Journal appends decisions to a SQLite file.
type Journal struct {
	db *sql.DB
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS decisions (
	id TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL,
	game_key TEXT NOT NULL,
	fen_in TEXT NOT NULL,
	fen_out TEXT NOT NULL,
	move TEXT NOT NULL,
	difficulty TEXT NOT NULL,
	depth INTEGER NOT NULL,
	score INTEGER NOT NULL,
	nodes INTEGER NOT NULL,
	elapsed_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS decisions_created_at ON decisions(created_at);
`

// Open creates the directory, the database and the table if needed.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// sqlite 单写者
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal table: %w", err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.db.Close()
}

// Record stores d, filling ID and CreatedAt when empty.
func (j *Journal) Record(ctx context.Context, d Decision) (Decision, error) {
	if j == nil {
		return d, ErrDisabled
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO decisions (id, created_at, game_key, fen_in, fen_out, move, difficulty, depth, score, nodes, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.CreatedAt, d.GameKey, d.FENIn, d.FENOut, d.Move, d.Difficulty,
		d.Depth, d.Score, d.Nodes, d.ElapsedMs,
	)
	if err != nil {
		return d, fmt.Errorf("insert decision: %w", err)
	}
	return d, nil
}

// Recent returns up to limit decisions, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Decision, error) {
	if j == nil {
		return nil, ErrDisabled
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT id, created_at, game_key, fen_in, fen_out, move, difficulty, depth, score, nodes, elapsed_ms
		FROM decisions
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var out []Decision
	for rows.Next() {
		var d Decision
		if err := rows.Scan(&d.ID, &d.CreatedAt, &d.GameKey, &d.FENIn, &d.FENOut, &d.Move,
			&d.Difficulty, &d.Depth, &d.Score, &d.Nodes, &d.ElapsedMs); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
