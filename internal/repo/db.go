package repo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when a lookup by id matches no row
var ErrNotFound = errors.New("record not found")

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Repository interface for database operations
type Repository interface {
	CreateAssessment(ctx context.Context, arg CreateAssessmentParams) (Assessment, error)
	GetAssessmentByID(ctx context.Context, id int64) (Assessment, error)
	CreateTestLog(ctx context.Context, log string) (TestLog, error)
	ListTestLogs(ctx context.Context) ([]TestLog, error)
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close()
}

// Assessment represents a stored infringement assessment
type Assessment struct {
	ID                    int64
	PatentID              string
	CompanyName           string
	AnalysisDate          time.Time
	TopInfringingProducts []byte
	OverallRiskAssessment string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TestLog represents a smoke-test row
type TestLog struct {
	ID        int64
	Log       string
	CreatedAt time.Time
}

// CreateAssessmentParams holds the client-supplied assessment fields.
// TopInfringingProducts must be a JSON document; it is stored verbatim.
type CreateAssessmentParams struct {
	PatentID              string
	CompanyName           string
	AnalysisDate          time.Time
	TopInfringingProducts []byte
	OverallRiskAssessment string
}

// Options selects and configures a backend
type Options struct {
	Driver     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SQLitePath string
}

// PostgresURL builds the connection string for the postgres backend
// Credentials are escaped, so passwords may contain reserved characters.
func (o Options) PostgresURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(o.User, o.Password),
		Host:   net.JoinHostPort(o.Host, strconv.Itoa(o.Port)),
		Path:   "/" + o.Name,
	}
	return u.String()
}

// Open connects to the backend named by opts.Driver
func Open(ctx context.Context, opts Options) (Repository, error) {
	switch strings.ToLower(opts.Driver) {
	case "", DriverPostgres:
		return NewPostgresRepository(ctx, opts.PostgresURL())
	case DriverSQLite:
		return NewSQLiteRepository(opts.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}
