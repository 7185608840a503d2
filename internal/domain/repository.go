package domain

import (
	"context"
	"time"
)

// Repository defines the interface for data persistence. Input records
// (taxpayers, filings, payments) are written by the ingestion side and
// read-only to the engine; snapshots, alerts and runs are engine output.
type Repository interface {
	// Input records (normalizer side)
	SaveTaxpayer(ctx context.Context, tp *TaxpayerProfile) error
	GetTaxpayer(ctx context.Context, id string) (*TaxpayerProfile, error)
	SaveFiling(ctx context.Context, f *FilingRecord) error
	SavePayment(ctx context.Context, p *PaymentRecord) error

	// LoadDataset reads the full point-in-time input snapshot for a run,
	// including prior alerts for the chronic detector.
	LoadDataset(ctx context.Context, asOf time.Time) (*Dataset, error)

	// Engine output. SaveRunResult persists a full run atomically:
	// compliance snapshots are replaced wholesale, alerts are upserted by
	// natural key (insert as Open, leave investigation state untouched,
	// mark unreproduced keys stale). Partial writes never survive.
	SaveRunResult(ctx context.Context, result *RunResult) error

	SaveRun(ctx context.Context, run *EngineRun) error
	GetRun(ctx context.Context, runID string) (*EngineRun, error)

	GetComplianceSnapshot(ctx context.Context, taxpayerID string) (*ComplianceSnapshot, error)
	ListCohortStats(ctx context.Context) ([]CohortStat, error)

	// Alert queries
	GetAlert(ctx context.Context, key string) (*RiskAlert, error)
	ListAlerts(ctx context.Context, filter AlertFilter) ([]RiskAlert, error)
	UpdateAlertStatus(ctx context.Context, key string, status AlertStatus, investigator, notes string) error

	// Screening rule configuration
	SaveScreeningRule(ctx context.Context, rule *ScreeningRule) error
	ListScreeningRules(ctx context.Context) ([]*ScreeningRule, error)

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// AlertFilter narrows ListAlerts results. Zero values match everything.
type AlertFilter struct {
	TaxpayerID   string
	Status       AlertStatus
	Priority     AlertPriority
	IncludeStale bool
	Limit        int
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	// Driver is the database driver: "sqlite" or "postgres"
	Driver string

	// SQLite specific
	SQLitePath string

	// PostgreSQL specific
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}
