// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// PostgreSQL driver
	_ "github.com/lib/pq"

	"github.com/sidestack/sidestacker/game"
)

// PostgreSQL is the plain database/sql Store implementation, selectable via
// config for deployments that prefer hand-written SQL over GORM.
type PostgreSQL struct {
	db *sql.DB
}

func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS matches (
            id BIGSERIAL PRIMARY KEY,
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS moves (
            id BIGSERIAL PRIMARY KEY,
            match_id BIGINT NOT NULL REFERENCES matches(id),
            piece VARCHAR(1) NOT NULL,
            side VARCHAR(5) NOT NULL,
            row_name VARCHAR(4) NOT NULL,
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_moves_match_id ON moves(match_id)`)
	return err
}

func (p *PostgreSQL) CreateMatch(ctx context.Context) (int64, error) {
	var matchID int64
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO matches DEFAULT VALUES RETURNING id`).Scan(&matchID)
	if err != nil {
		return 0, fmt.Errorf("create match: %w", err)
	}
	return matchID, nil
}

func (p *PostgreSQL) RecordMove(ctx context.Context, matchID int64, piece game.Piece, side game.Side, row game.RowID) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO moves (match_id, piece, side, row_name) VALUES ($1, $2, $3, $4)`,
		matchID, string(piece), string(side), string(row))
	if err != nil {
		return fmt.Errorf("record move for match %d: %w", matchID, err)
	}
	return nil
}

func (p *PostgreSQL) MatchSummary(ctx context.Context, matchID int64) (*MatchSummary, error) {
	summary := MatchSummary{MatchID: matchID}

	err := p.db.QueryRowContext(ctx,
		`SELECT created_at FROM matches WHERE id = $1`, matchID).Scan(&summary.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := p.db.QueryContext(ctx,
		`SELECT piece, side, row_name FROM moves WHERE match_id = $1 ORDER BY id`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var last MoveEntry
	for rows.Next() {
		if err := rows.Scan(&last.Piece, &last.Side, &last.Row); err != nil {
			return nil, err
		}
		summary.Moves++
		if last.Piece == game.PieceX {
			summary.MovesByX++
		} else {
			summary.MovesByO++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if summary.Moves > 0 {
		entry := last
		summary.LastMove = &entry
	}

	return &summary, nil
}

func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
