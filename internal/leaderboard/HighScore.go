package leaderboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Mshel/gridsnake/internal/game"
	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
)

// MemoryDSN keeps the board in a shared in-memory database that lives as long
// as the process.
const MemoryDSN = "file:gridsnake_scores?mode=memory&cache=shared"

const tableName = "high_scores"

const maxNameLength = 20

var ErrEmptyName = errors.New("player name is empty")

type Score struct {
	ID         int
	PlayerName string
	Score      int
	Length     int
	Ticks      int
	CreatedAt  time.Time
}

type HighScoreService struct {
	db *sql.DB
}

func NewHighScoreService() (*HighScoreService, error) {
	return Open(MemoryDSN)
}

func Open(dsn string) (*HighScoreService, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a memory database disappears with its last connection
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	service := &HighScoreService{db: db}
	if err := service.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	return service, nil
}

func (serviceImpl *HighScoreService) Close() error {
	return serviceImpl.db.Close()
}

// createTable creates the high_scores table if it does not exist.
func (serviceImpl *HighScoreService) createTable() error {
	const createTableSQL = `
	CREATE TABLE IF NOT EXISTS ` + tableName + ` (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player_name TEXT NOT NULL,
		score INTEGER NOT NULL,
		length INTEGER NOT NULL,
		ticks INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);`

	if _, err := serviceImpl.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to execute CREATE TABLE: %w", err)
	}
	log.Debug("High scores table ensured.")
	return nil
}

// SavePlayersHighScore records a finished game.
func (serviceImpl *HighScoreService) SavePlayersHighScore(ctx context.Context, playerName string, summary game.Summary) error {
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return ErrEmptyName
	}
	if len([]rune(playerName)) > maxNameLength {
		playerName = string([]rune(playerName)[:maxNameLength])
	}

	const insertSQL = `
	INSERT INTO ` + tableName + ` (player_name, score, length, ticks, created_at)
	VALUES (?, ?, ?, ?, ?);`

	_, err := serviceImpl.db.ExecContext(ctx, insertSQL,
		playerName, summary.Score, summary.Length, summary.Ticks, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to insert high score for %s: %w", playerName, err)
	}
	return nil
}

// GetHighScores retrieves a page of scores, best first.
func (serviceImpl *HighScoreService) GetHighScores(ctx context.Context, limit, offset int) ([]Score, error) {
	const selectSQL = `
	SELECT id, player_name, score, length, ticks, created_at
	FROM ` + tableName + `
	ORDER BY score DESC, length DESC, created_at ASC, id ASC
	LIMIT ? OFFSET ?;`

	rows, err := serviceImpl.db.QueryContext(ctx, selectSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query high scores: %w", err)
	}
	defer rows.Close()

	var scores []Score
	for rows.Next() {
		var score Score
		var createdAt int64
		if err := rows.Scan(&score.ID, &score.PlayerName, &score.Score, &score.Length, &score.Ticks, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		score.CreatedAt = time.Unix(createdAt, 0)
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return scores, nil
}

func (serviceImpl *HighScoreService) GetTotalScoreCount(ctx context.Context) (int, error) {
	const countSQL = `SELECT COUNT(*) FROM ` + tableName + `;`
	var count int
	if err := serviceImpl.db.QueryRowContext(ctx, countSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get total score count: %w", err)
	}
	return count, nil
}
