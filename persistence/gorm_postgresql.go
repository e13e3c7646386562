// persistence/gorm_postgresql.go
package persistence

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sidestack/sidestacker/game"
)

// GormPostgreSQL is the GORM-backed Store implementation.
type GormPostgreSQL struct {
	db *gorm.DB
}

// MatchModel is one match row; its autoincrement ID is the match identifier
// handed back to the session.
type MatchModel struct {
	ID        int64 `gorm:"primaryKey"`
	CreatedAt time.Time
}

// MoveModel is one appended move.
type MoveModel struct {
	ID        int64  `gorm:"primaryKey"`
	MatchID   int64  `gorm:"index;not null"`
	Piece     string `gorm:"size:1;not null"`
	Side      string `gorm:"size:5;not null"`
	RowName   string `gorm:"size:4;not null"`
	CreatedAt time.Time
}

func (MatchModel) TableName() string { return "matches" }
func (MoveModel) TableName() string  { return "moves" }

// NewGormPostgreSQL opens the database, configures the pool and migrates the
// match and move tables.
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&MatchModel{}, &MoveModel{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// CreateMatch inserts a new match row and returns its identifier.
func (p *GormPostgreSQL) CreateMatch(ctx context.Context) (int64, error) {
	match := MatchModel{}
	if err := p.db.WithContext(ctx).Create(&match).Error; err != nil {
		return 0, fmt.Errorf("create match: %w", err)
	}
	return match.ID, nil
}

// RecordMove appends one move to the match log.
func (p *GormPostgreSQL) RecordMove(ctx context.Context, matchID int64, piece game.Piece, side game.Side, row game.RowID) error {
	move := MoveModel{
		MatchID: matchID,
		Piece:   string(piece),
		Side:    string(side),
		RowName: string(row),
	}
	if err := p.db.WithContext(ctx).Create(&move).Error; err != nil {
		return fmt.Errorf("record move for match %d: %w", matchID, err)
	}
	return nil
}

// MatchSummary aggregates the move log for one match inside a transaction so
// the counts and the last move line up.
func (p *GormPostgreSQL) MatchSummary(ctx context.Context, matchID int64) (*MatchSummary, error) {
	var summary MatchSummary

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var match MatchModel
		if err := tx.First(&match, matchID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMatchNotFound
			}
			return err
		}

		var moves []MoveModel
		if err := tx.Where("match_id = ?", matchID).Order("id").Find(&moves).Error; err != nil {
			return err
		}

		summary = summarize(match.ID, match.CreatedAt, moves)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

func summarize(matchID int64, createdAt time.Time, moves []MoveModel) MatchSummary {
	summary := MatchSummary{
		MatchID:   matchID,
		CreatedAt: createdAt,
		Moves:     len(moves),
	}
	for _, m := range moves {
		if m.Piece == string(game.PieceX) {
			summary.MovesByX++
		} else {
			summary.MovesByO++
		}
	}
	if len(moves) > 0 {
		last := moves[len(moves)-1]
		summary.LastMove = &MoveEntry{
			Piece: game.Piece(last.Piece),
			Side:  game.Side(last.Side),
			Row:   game.RowID(last.RowName),
		}
	}
	return summary
}

// Close closes the underlying connection pool.
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
