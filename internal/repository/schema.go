package repository

// Schema definitions for the Harrier database.
// Compatible with both SQLite and PostgreSQL.

const schemaTaxpayers = `
CREATE TABLE IF NOT EXISTS taxpayers (
    id TEXT PRIMARY KEY,
    tin TEXT NOT NULL,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    registration_date TIMESTAMP NOT NULL,
    region TEXT,
    district TEXT,
    sector TEXT NOT NULL,
    subsector TEXT,
    annual_turnover REAL NOT NULL DEFAULT 0,
    employee_count INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_taxpayers_sector ON taxpayers(sector);
CREATE INDEX IF NOT EXISTS idx_taxpayers_tin ON taxpayers(tin);
`

const schemaFilings = `
CREATE TABLE IF NOT EXISTS filings (
    return_id TEXT PRIMARY KEY,
    taxpayer_id TEXT NOT NULL,
    cadence TEXT NOT NULL,
    period_year INTEGER NOT NULL,
    period_month INTEGER,
    period_quarter INTEGER,
    due_date TIMESTAMP NOT NULL,
    filing_date TIMESTAMP,
    status TEXT NOT NULL,
    gross_salaries REAL NOT NULL DEFAULT 0,
    paye_tax REAL NOT NULL DEFAULT 0,
    total_sales REAL NOT NULL DEFAULT 0,
    taxable_sales REAL NOT NULL DEFAULT 0,
    exempt_sales REAL NOT NULL DEFAULT 0,
    export_sales REAL NOT NULL DEFAULT 0,
    net_vat_payable REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_filings_taxpayer ON filings(taxpayer_id);
CREATE INDEX IF NOT EXISTS idx_filings_cadence ON filings(taxpayer_id, cadence);
CREATE INDEX IF NOT EXISTS idx_filings_due ON filings(due_date);
`

const schemaPayments = `
CREATE TABLE IF NOT EXISTS payments (
    payment_id TEXT PRIMARY KEY,
    taxpayer_id TEXT NOT NULL,
    date TIMESTAMP NOT NULL,
    channel TEXT NOT NULL,
    provider TEXT,
    tax_type TEXT NOT NULL,
    period_year INTEGER,
    period_month INTEGER,
    amount REAL NOT NULL,
    reference TEXT,
    status TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_payments_taxpayer ON payments(taxpayer_id);
CREATE INDEX IF NOT EXISTS idx_payments_date ON payments(date);
`

const schemaComplianceSnapshots = `
CREATE TABLE IF NOT EXISTS compliance_snapshots (
    taxpayer_id TEXT PRIMARY KEY,
    as_of TIMESTAMP NOT NULL,
    paye_expected INTEGER NOT NULL,
    paye_filed INTEGER NOT NULL,
    paye_on_time INTEGER NOT NULL,
    paye_mean_late REAL NOT NULL,
    vat_expected INTEGER NOT NULL,
    vat_filed INTEGER NOT NULL,
    vat_on_time INTEGER NOT NULL,
    vat_mean_late REAL NOT NULL,
    payment_count INTEGER NOT NULL,
    total_tax_paid REAL NOT NULL,
    filing_compliance_rate REAL NOT NULL,
    chronic_late_filer INTEGER NOT NULL,
    low_filing_rate INTEGER NOT NULL
);
`

const schemaCohortStats = `
CREATE TABLE IF NOT EXISTS cohort_stats (
    sector TEXT NOT NULL,
    size_bucket TEXT NOT NULL,
    member_count INTEGER NOT NULL,
    mean_tax_paid REAL NOT NULL,
    total_tax_paid REAL NOT NULL,
    PRIMARY KEY (sector, size_bucket)
);
`

const schemaRiskAlerts = `
CREATE TABLE IF NOT EXISTS risk_alerts (
    key TEXT PRIMARY KEY,
    sequence INTEGER NOT NULL,
    run_id TEXT NOT NULL,
    taxpayer_id TEXT NOT NULL,
    type TEXT NOT NULL,
    period TEXT,
    description TEXT NOT NULL,
    score REAL NOT NULL,
    priority TEXT NOT NULL,
    revenue_impact REAL NOT NULL,
    recommended_action TEXT,
    created_at TIMESTAMP NOT NULL,
    status TEXT NOT NULL,
    stale INTEGER NOT NULL DEFAULT 0,
    investigated_by TEXT,
    investigation_notes TEXT
);

CREATE INDEX IF NOT EXISTS idx_risk_alerts_taxpayer ON risk_alerts(taxpayer_id);
CREATE INDEX IF NOT EXISTS idx_risk_alerts_status ON risk_alerts(status);
CREATE INDEX IF NOT EXISTS idx_risk_alerts_score ON risk_alerts(score);
`

const schemaEngineRuns = `
CREATE TABLE IF NOT EXISTS engine_runs (
    id TEXT PRIMARY KEY,
    as_of TIMESTAMP NOT NULL,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP,
    status TEXT NOT NULL,
    error TEXT,
    taxpayer_count INTEGER NOT NULL DEFAULT 0,
    signal_count INTEGER NOT NULL DEFAULT 0,
    alert_count INTEGER NOT NULL DEFAULT 0,
    snapshot_count INTEGER NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_engine_runs_started ON engine_runs(started_at);
`

const schemaScreeningRules = `
CREATE TABLE IF NOT EXISTS screening_rules (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT,
    expression TEXT NOT NULL,
    score REAL NOT NULL,
    impact_rate REAL NOT NULL DEFAULT 0,
    recommended_action TEXT,
    enabled INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`

// AllSchemas returns all schema statements in order.
func AllSchemas() []string {
	return []string{
		schemaTaxpayers,
		schemaFilings,
		schemaPayments,
		schemaComplianceSnapshots,
		schemaCohortStats,
		schemaRiskAlerts,
		schemaEngineRuns,
		schemaScreeningRules,
	}
}
