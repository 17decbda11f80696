package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"word-qa/internal/config"
	"word-qa/internal/helper"
	"word-qa/internal/models"
)

var ErrNoDSN = errors.New("database.dsn is not set")

// QARecord is one answered question.
type QARecord struct {
	bun.BaseModel `bun:"table:qa_runs,alias:q"`

	ID                 string                   `bun:"id,pk,type:uuid"`
	Question           string                   `bun:"question,notnull"`
	Answer             string                   `bun:"answer"`
	FinalModel         string                   `bun:"final_model"`
	ModelsUsed         []string                 `bun:"models_used,array"`
	ChunksCreated      int                      `bun:"chunks_created"`
	ChunksProcessed    int                      `bun:"chunks_processed"`
	ChunksFailed       int                      `bun:"chunks_failed"`
	SynthesisPerformed bool                     `bun:"synthesis_performed"`
	Details            *models.TechnicalDetails `bun:"details,type:jsonb"`
	CreatedAt          time.Time                `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

func ConnectDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	if cfg == nil || cfg.DSN == "" {
		return nil, ErrNoDSN
	}
	return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN))), nil
}

func InitDB(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*QARecord)(nil)).IfNotExists().Exec(ctx)
	return err
}

// NewRecord builds a history row for an answered question.
func NewRecord(question, answer string, details *models.TechnicalDetails) (*QARecord, error) {
	id, err := helper.GenerateUUID()
	if err != nil {
		return nil, err
	}
	rec := &QARecord{
		ID:       id,
		Question: question,
		Answer:   answer,
		Details:  details,
	}
	if details != nil {
		rec.FinalModel = details.FinalModel
		rec.ModelsUsed = details.ModelsUsed
		rec.ChunksCreated = details.ChunksCreated
		rec.ChunksProcessed = details.ChunksProcessed
		rec.ChunksFailed = details.ChunksFailed
		rec.SynthesisPerformed = details.SynthesisPerformed
	}
	return rec, nil
}

func StoreRun(ctx context.Context, db *bun.DB, rec *QARecord) error {
	_, err := db.NewInsert().Model(rec).Exec(ctx)
	return err
}

// RecentRuns returns up to limit runs, newest first.
func RecentRuns(ctx context.Context, db *bun.DB, limit int) ([]QARecord, error) {
	var runs []QARecord
	err := db.NewSelect().
		Model(&runs).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	return runs, err
}

// drop table qa_runs

func DropRuns(ctx context.Context, db *bun.DB) error {
	_, err := db.NewDropTable().Model((*QARecord)(nil)).IfExists().Exec(ctx)
	return err
}
