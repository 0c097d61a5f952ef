package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/style-sage/internal/core/domain"
)

const schemaLockID int64 = 2026101901

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	return configureDB(db)
}

// configureDB applies pool limits and checks connectivity. db is closed when
// the ping fails.
func configureDB(db *sql.DB) (*sql.DB, error) {
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *AnalysisRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across replicas.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, schemaLockID); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS analyses (
	id TEXT PRIMARY KEY,
	palette_name TEXT NOT NULL,
	brightness DOUBLE PRECISION NOT NULL,
	saturation DOUBLE PRECISION NOT NULL,
	recommended_styles JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_analyses_palette_name ON analyses(palette_name);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) Create(ctx context.Context, record domain.AnalysisRecord) error {
	styles := record.RecommendedStyles
	if styles == nil {
		styles = []string{}
	}
	stylesJSON, err := json.Marshal(styles)
	if err != nil {
		return fmt.Errorf("marshal recommended styles: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO analyses (id, palette_name, brightness, saturation, recommended_styles, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`,
		record.ID, record.PaletteName, record.Brightness, record.Saturation, stylesJSON, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) GetByID(ctx context.Context, id string) (*domain.AnalysisRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, palette_name, brightness, saturation, recommended_styles, created_at
FROM analyses
WHERE id = $1
`, id)

	var record domain.AnalysisRecord
	var stylesRaw []byte
	err := row.Scan(&record.ID, &record.PaletteName, &record.Brightness, &record.Saturation, &stylesRaw, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrAnalysisNotFound, "get analysis", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan analysis: %w", err)
	}

	if err := json.Unmarshal(stylesRaw, &record.RecommendedStyles); err != nil {
		return nil, fmt.Errorf("unmarshal recommended styles: %w", err)
	}
	return &record, nil
}
