package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a pgx pool and verifies the connection
func NewPostgresRepository(ctx context.Context, databaseURL string) (Repository, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	cfg.MaxConns = 10

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	log.Info().Str("host", cfg.ConnConfig.Host).Str("database", cfg.ConnConfig.Database).Msg("Postgres connection established")
	return &postgresRepository{pool: pool}, nil
}

func (r *postgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (r *postgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *postgresRepository) Close() {
	r.pool.Close()
}

func (r *postgresRepository) CreateAssessment(ctx context.Context, arg CreateAssessmentParams) (Assessment, error) {
	query := `
		INSERT INTO assessments (patent_id, company_name, analysis_date, top_infringing_products, overall_risk_assessment)
		VALUES ($1, $2, $3, $4::jsonb, $5)
		RETURNING id, patent_id, company_name, analysis_date, top_infringing_products, overall_risk_assessment, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query,
		arg.PatentID,
		arg.CompanyName,
		arg.AnalysisDate,
		string(arg.TopInfringingProducts),
		arg.OverallRiskAssessment,
	)

	a, err := scanAssessment(row)
	if err != nil {
		return Assessment{}, fmt.Errorf("failed to create assessment: %w", err)
	}
	return a, nil
}

func (r *postgresRepository) GetAssessmentByID(ctx context.Context, id int64) (Assessment, error) {
	query := `
		SELECT id, patent_id, company_name, analysis_date, top_infringing_products, overall_risk_assessment, created_at, updated_at
		FROM assessments
		WHERE id = $1`

	a, err := scanAssessment(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Assessment{}, fmt.Errorf("assessment %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Assessment{}, fmt.Errorf("failed to get assessment: %w", err)
	}
	return a, nil
}

func (r *postgresRepository) CreateTestLog(ctx context.Context, entry string) (TestLog, error) {
	var t TestLog
	err := r.pool.QueryRow(ctx,
		`INSERT INTO test_logs (log) VALUES ($1) RETURNING id, log, created_at`, entry,
	).Scan(&t.ID, &t.Log, &t.CreatedAt)
	if err != nil {
		return TestLog{}, fmt.Errorf("failed to create test log: %w", err)
	}
	return t, nil
}

func (r *postgresRepository) ListTestLogs(ctx context.Context) ([]TestLog, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, log, created_at FROM test_logs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list test logs: %w", err)
	}
	defer rows.Close()

	logs := []TestLog{}
	for rows.Next() {
		var t TestLog
		if err := rows.Scan(&t.ID, &t.Log, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan test log: %w", err)
		}
		logs = append(logs, t)
	}
	return logs, rows.Err()
}

func scanAssessment(row pgx.Row) (Assessment, error) {
	var a Assessment
	err := row.Scan(
		&a.ID,
		&a.PatentID,
		&a.CompanyName,
		&a.AnalysisDate,
		&a.TopInfringingProducts,
		&a.OverallRiskAssessment,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}
