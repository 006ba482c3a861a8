package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type sqliteRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

type assessmentRow struct {
	ID                    int64  `db:"id"`
	PatentID              string `db:"patent_id"`
	CompanyName           string `db:"company_name"`
	AnalysisDate          string `db:"analysis_date"`
	TopInfringingProducts string `db:"top_infringing_products"`
	OverallRiskAssessment string `db:"overall_risk_assessment"`
	CreatedAt             string `db:"created_at"`
	UpdatedAt             string `db:"updated_at"`
}

type testLogRow struct {
	ID        int64  `db:"id"`
	Log       string `db:"log"`
	CreatedAt string `db:"created_at"`
}

// NewSQLiteRepository opens (or creates) a SQLite database file
func NewSQLiteRepository(path string) (Repository, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	return &sqliteRepository{db: db, now: time.Now}, nil
}

func (r *sqliteRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (r *sqliteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *sqliteRepository) Close() {
	r.db.Close()
}

func (r *sqliteRepository) CreateAssessment(ctx context.Context, arg CreateAssessmentParams) (Assessment, error) {
	now := formatTime(r.now())
	query := r.db.Rebind(`
		INSERT INTO assessments (patent_id, company_name, analysis_date, top_infringing_products, overall_risk_assessment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id, patent_id, company_name, analysis_date, top_infringing_products, overall_risk_assessment, created_at, updated_at`)

	var row assessmentRow
	err := r.db.QueryRowxContext(ctx, query,
		arg.PatentID,
		arg.CompanyName,
		formatTime(arg.AnalysisDate),
		string(arg.TopInfringingProducts),
		arg.OverallRiskAssessment,
		now,
		now,
	).StructScan(&row)
	if err != nil {
		return Assessment{}, fmt.Errorf("failed to create assessment: %w", err)
	}
	return row.toAssessment()
}

func (r *sqliteRepository) GetAssessmentByID(ctx context.Context, id int64) (Assessment, error) {
	var row assessmentRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT * FROM assessments WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return Assessment{}, fmt.Errorf("assessment %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Assessment{}, fmt.Errorf("failed to get assessment: %w", err)
	}
	return row.toAssessment()
}

func (r *sqliteRepository) CreateTestLog(ctx context.Context, entry string) (TestLog, error) {
	var row testLogRow
	err := r.db.QueryRowxContext(ctx,
		r.db.Rebind(`INSERT INTO test_logs (log, created_at) VALUES (?, ?) RETURNING id, log, created_at`),
		entry, formatTime(r.now()),
	).StructScan(&row)
	if err != nil {
		return TestLog{}, fmt.Errorf("failed to create test log: %w", err)
	}
	return row.toTestLog()
}

func (r *sqliteRepository) ListTestLogs(ctx context.Context) ([]TestLog, error) {
	var rows []testLogRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, log, created_at FROM test_logs ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list test logs: %w", err)
	}

	logs := make([]TestLog, 0, len(rows))
	for _, row := range rows {
		t, err := row.toTestLog()
		if err != nil {
			return nil, err
		}
		logs = append(logs, t)
	}
	return logs, nil
}

func (row assessmentRow) toAssessment() (Assessment, error) {
	analysisDate, err := parseTime(row.AnalysisDate)
	if err != nil {
		return Assessment{}, err
	}
	createdAt, err := parseTime(row.CreatedAt)
	if err != nil {
		return Assessment{}, err
	}
	updatedAt, err := parseTime(row.UpdatedAt)
	if err != nil {
		return Assessment{}, err
	}

	return Assessment{
		ID:                    row.ID,
		PatentID:              row.PatentID,
		CompanyName:           row.CompanyName,
		AnalysisDate:          analysisDate,
		TopInfringingProducts: []byte(row.TopInfringingProducts),
		OverallRiskAssessment: row.OverallRiskAssessment,
		CreatedAt:             createdAt,
		UpdatedAt:             updatedAt,
	}, nil
}

func (row testLogRow) toTestLog() (TestLog, error) {
	createdAt, err := parseTime(row.CreatedAt)
	if err != nil {
		return TestLog{}, err
	}
	return TestLog{ID: row.ID, Log: row.Log, CreatedAt: createdAt}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse stored timestamp %q: %w", s, err)
	}
	return t, nil
}
