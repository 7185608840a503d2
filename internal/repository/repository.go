// Package repository provides data persistence implementations.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openrevenue/harrier/internal/domain"
)

// SQLRepository implements domain.Repository using database/sql.
// Works with both SQLite and PostgreSQL drivers.
type SQLRepository struct {
	db     *sql.DB
	driver string
}

// New creates a new repository based on configuration.
func New(cfg domain.RepositoryConfig) (domain.Repository, error) {
	var db *sql.DB
	var err error

	switch cfg.Driver {
	case "sqlite":
		db, err = openSQLite(cfg)
	case "postgres":
		db, err = openPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	repo := &SQLRepository{
		db:     db,
		driver: cfg.Driver,
	}

	// Run migrations
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

func (r *SQLRepository) migrate() error {
	for _, schema := range AllSchemas() {
		if _, err := r.db.Exec(schema); err != nil {
			return err
		}
	}
	return nil
}

// SaveTaxpayer upserts a taxpayer profile.
func (r *SQLRepository) SaveTaxpayer(ctx context.Context, tp *domain.TaxpayerProfile) error {
	if tp.ID == "" {
		return fmt.Errorf("%w: taxpayer id is required", domain.ErrInvalidInput)
	}

	query := `
		INSERT INTO taxpayers (
			id, tin, name, type, registration_date, region, district,
			sector, subsector, annual_turnover, employee_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tin = excluded.tin,
			name = excluded.name,
			type = excluded.type,
			region = excluded.region,
			district = excluded.district,
			sector = excluded.sector,
			subsector = excluded.subsector,
			annual_turnover = excluded.annual_turnover,
			employee_count = excluded.employee_count
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		tp.ID, tp.TIN, tp.Name, tp.Type, tp.RegistrationDate,
		tp.Region, tp.District, tp.Sector, tp.Subsector,
		tp.AnnualTurnover, tp.EmployeeCount,
	)
	return err
}

// GetTaxpayer retrieves a taxpayer profile by ID.
func (r *SQLRepository) GetTaxpayer(ctx context.Context, id string) (*domain.TaxpayerProfile, error) {
	query := `
		SELECT id, tin, name, type, registration_date, region, district,
			   sector, subsector, annual_turnover, employee_count
		FROM taxpayers
		WHERE id = ?
	`

	var tp domain.TaxpayerProfile
	err := r.db.QueryRowContext(ctx, r.rebind(query), id).Scan(
		&tp.ID, &tp.TIN, &tp.Name, &tp.Type, &tp.RegistrationDate,
		&tp.Region, &tp.District, &tp.Sector, &tp.Subsector,
		&tp.AnnualTurnover, &tp.EmployeeCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tp, nil
}

// SaveFiling upserts a filing record.
func (r *SQLRepository) SaveFiling(ctx context.Context, f *domain.FilingRecord) error {
	if f.ReturnID == "" || f.TaxpayerID == "" {
		return fmt.Errorf("%w: return id and taxpayer id are required", domain.ErrInvalidInput)
	}

	var filingDate sql.NullTime
	if f.FilingDate != nil {
		filingDate = sql.NullTime{Time: *f.FilingDate, Valid: true}
	}

	query := `
		INSERT INTO filings (
			return_id, taxpayer_id, cadence, period_year, period_month,
			period_quarter, due_date, filing_date, status, gross_salaries,
			paye_tax, total_sales, taxable_sales, exempt_sales,
			export_sales, net_vat_payable
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(return_id) DO UPDATE SET
			filing_date = excluded.filing_date,
			status = excluded.status,
			gross_salaries = excluded.gross_salaries,
			paye_tax = excluded.paye_tax,
			total_sales = excluded.total_sales,
			taxable_sales = excluded.taxable_sales,
			exempt_sales = excluded.exempt_sales,
			export_sales = excluded.export_sales,
			net_vat_payable = excluded.net_vat_payable
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		f.ReturnID, f.TaxpayerID, f.Cadence, f.PeriodYear, f.PeriodMonth,
		f.PeriodQuarter, f.DueDate, filingDate, f.Status, f.GrossSalaries,
		f.PAYETax, f.TotalSales, f.TaxableSales, f.ExemptSales,
		f.ExportSales, f.NetVATPayable,
	)
	return err
}

// SavePayment upserts a payment record.
func (r *SQLRepository) SavePayment(ctx context.Context, p *domain.PaymentRecord) error {
	if p.PaymentID == "" || p.TaxpayerID == "" {
		return fmt.Errorf("%w: payment id and taxpayer id are required", domain.ErrInvalidInput)
	}

	query := `
		INSERT INTO payments (
			payment_id, taxpayer_id, date, channel, provider, tax_type,
			period_year, period_month, amount, reference, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(payment_id) DO UPDATE SET
			status = excluded.status,
			amount = excluded.amount
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		p.PaymentID, p.TaxpayerID, p.Date, p.Channel, p.Provider,
		p.TaxType, p.PeriodYear, p.PeriodMonth, p.Amount, p.Reference,
		p.Status,
	)
	return err
}

// LoadDataset reads the full input snapshot for a run: every taxpayer,
// filings due on or before the as-of date, payments dated on or before
// it, and all prior alerts.
func (r *SQLRepository) LoadDataset(ctx context.Context, asOf time.Time) (*domain.Dataset, error) {
	ds := &domain.Dataset{AsOf: asOf}

	taxpayerRows, err := r.db.QueryContext(ctx, `
		SELECT id, tin, name, type, registration_date, region, district,
			   sector, subsector, annual_turnover, employee_count
		FROM taxpayers ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxpayers: %w", err)
	}
	defer taxpayerRows.Close()
	for taxpayerRows.Next() {
		var tp domain.TaxpayerProfile
		if err := taxpayerRows.Scan(
			&tp.ID, &tp.TIN, &tp.Name, &tp.Type, &tp.RegistrationDate,
			&tp.Region, &tp.District, &tp.Sector, &tp.Subsector,
			&tp.AnnualTurnover, &tp.EmployeeCount,
		); err != nil {
			return nil, err
		}
		ds.Taxpayers = append(ds.Taxpayers, tp)
	}
	if err := taxpayerRows.Err(); err != nil {
		return nil, err
	}

	filingRows, err := r.db.QueryContext(ctx, r.rebind(`
		SELECT return_id, taxpayer_id, cadence, period_year, period_month,
			   period_quarter, due_date, filing_date, status, gross_salaries,
			   paye_tax, total_sales, taxable_sales, exempt_sales,
			   export_sales, net_vat_payable
		FROM filings WHERE due_date <= ? ORDER BY return_id
	`), asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load filings: %w", err)
	}
	defer filingRows.Close()
	for filingRows.Next() {
		var f domain.FilingRecord
		var filingDate sql.NullTime
		if err := filingRows.Scan(
			&f.ReturnID, &f.TaxpayerID, &f.Cadence, &f.PeriodYear,
			&f.PeriodMonth, &f.PeriodQuarter, &f.DueDate, &filingDate,
			&f.Status, &f.GrossSalaries, &f.PAYETax, &f.TotalSales,
			&f.TaxableSales, &f.ExemptSales, &f.ExportSales,
			&f.NetVATPayable,
		); err != nil {
			return nil, err
		}
		if filingDate.Valid {
			t := filingDate.Time
			f.FilingDate = &t
		}
		ds.Filings = append(ds.Filings, f)
	}
	if err := filingRows.Err(); err != nil {
		return nil, err
	}

	paymentRows, err := r.db.QueryContext(ctx, r.rebind(`
		SELECT payment_id, taxpayer_id, date, channel, provider, tax_type,
			   period_year, period_month, amount, reference, status
		FROM payments WHERE date <= ? ORDER BY payment_id
	`), asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	defer paymentRows.Close()
	for paymentRows.Next() {
		var p domain.PaymentRecord
		if err := paymentRows.Scan(
			&p.PaymentID, &p.TaxpayerID, &p.Date, &p.Channel, &p.Provider,
			&p.TaxType, &p.PeriodYear, &p.PeriodMonth, &p.Amount,
			&p.Reference, &p.Status,
		); err != nil {
			return nil, err
		}
		ds.Payments = append(ds.Payments, p)
	}
	if err := paymentRows.Err(); err != nil {
		return nil, err
	}

	alerts, err := r.ListAlerts(ctx, domain.AlertFilter{IncludeStale: true})
	if err != nil {
		return nil, fmt.Errorf("failed to load prior alerts: %w", err)
	}
	ds.PriorAlerts = alerts

	return ds, nil
}

// SaveRunResult persists a full run atomically. Snapshots and cohort
// stats are replaced wholesale. Alerts are reconciled by natural key:
// new keys insert as Open, existing keys refresh their scoring fields
// while keeping investigation state, and keys the run did not reproduce
// are marked stale.
func (r *SQLRepository) SaveRunResult(ctx context.Context, result *domain.RunResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM compliance_snapshots`); err != nil {
		return fmt.Errorf("failed to clear snapshots: %w", err)
	}
	snapQuery := r.rebind(`
		INSERT INTO compliance_snapshots (
			taxpayer_id, as_of, paye_expected, paye_filed, paye_on_time,
			paye_mean_late, vat_expected, vat_filed, vat_on_time,
			vat_mean_late, payment_count, total_tax_paid,
			filing_compliance_rate, chronic_late_filer, low_filing_rate
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	for i := range result.Snapshots {
		s := &result.Snapshots[i]
		if _, err := tx.ExecContext(ctx, snapQuery,
			s.TaxpayerID, s.AsOf, s.PAYEExpected, s.PAYEFiled, s.PAYEOnTime,
			s.PAYEMeanLate, s.VATExpected, s.VATFiled, s.VATOnTime,
			s.VATMeanLate, s.PaymentCount, s.TotalTaxPaid,
			s.FilingComplianceRate, boolToInt(s.ChronicLateFiler),
			boolToInt(s.LowFilingRate),
		); err != nil {
			return fmt.Errorf("failed to insert snapshot for %s: %w", s.TaxpayerID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cohort_stats`); err != nil {
		return fmt.Errorf("failed to clear cohort stats: %w", err)
	}
	cohortQuery := r.rebind(`
		INSERT INTO cohort_stats (sector, size_bucket, member_count, mean_tax_paid, total_tax_paid)
		VALUES (?, ?, ?, ?, ?)
	`)
	for i := range result.Cohorts {
		c := &result.Cohorts[i]
		if _, err := tx.ExecContext(ctx, cohortQuery,
			c.Key.Sector, c.Key.SizeBucket, c.MemberCount, c.MeanTaxPaid, c.TotalTaxPaid,
		); err != nil {
			return fmt.Errorf("failed to insert cohort stat: %w", err)
		}
	}

	// Everything not reproduced by this run becomes stale; the upsert
	// below flips reproduced keys back.
	if _, err := tx.ExecContext(ctx, `UPDATE risk_alerts SET stale = 1`); err != nil {
		return fmt.Errorf("failed to mark alerts stale: %w", err)
	}
	alertQuery := r.rebind(`
		INSERT INTO risk_alerts (
			key, sequence, run_id, taxpayer_id, type, period, description,
			score, priority, revenue_impact, recommended_action,
			created_at, status, stale, investigated_by, investigation_notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, '', '')
		ON CONFLICT(key) DO UPDATE SET
			sequence = excluded.sequence,
			run_id = excluded.run_id,
			description = excluded.description,
			score = excluded.score,
			priority = excluded.priority,
			revenue_impact = excluded.revenue_impact,
			recommended_action = excluded.recommended_action,
			stale = 0
	`)
	for i := range result.Alerts {
		a := &result.Alerts[i]
		if _, err := tx.ExecContext(ctx, alertQuery,
			a.Key, a.Sequence, a.RunID, a.TaxpayerID, a.Type, a.Period,
			a.Description, a.Score, a.Priority, a.RevenueImpact,
			a.RecommendedAction, a.CreatedAt, a.Status,
		); err != nil {
			return fmt.Errorf("failed to upsert alert %s: %w", a.Key, err)
		}
	}

	return tx.Commit()
}

// SaveRun upserts an engine run record.
func (r *SQLRepository) SaveRun(ctx context.Context, run *domain.EngineRun) error {
	var finished sql.NullTime
	if !run.FinishedAt.IsZero() {
		finished = sql.NullTime{Time: run.FinishedAt, Valid: true}
	}

	query := `
		INSERT INTO engine_runs (
			id, as_of, started_at, finished_at, status, error,
			taxpayer_count, signal_count, alert_count, snapshot_count, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			finished_at = excluded.finished_at,
			status = excluded.status,
			error = excluded.error,
			taxpayer_count = excluded.taxpayer_count,
			signal_count = excluded.signal_count,
			alert_count = excluded.alert_count,
			snapshot_count = excluded.snapshot_count,
			duration_ms = excluded.duration_ms
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		run.ID, run.AsOf, run.StartedAt, finished, run.Status, run.Error,
		run.TaxpayerCount, run.SignalCount, run.AlertCount,
		run.SnapshotCount, run.DurationMs,
	)
	return err
}

// GetRun retrieves an engine run by ID.
func (r *SQLRepository) GetRun(ctx context.Context, runID string) (*domain.EngineRun, error) {
	query := `
		SELECT id, as_of, started_at, finished_at, status, error,
			   taxpayer_count, signal_count, alert_count, snapshot_count, duration_ms
		FROM engine_runs
		WHERE id = ?
	`

	var run domain.EngineRun
	var finished sql.NullTime
	err := r.db.QueryRowContext(ctx, r.rebind(query), runID).Scan(
		&run.ID, &run.AsOf, &run.StartedAt, &finished, &run.Status,
		&run.Error, &run.TaxpayerCount, &run.SignalCount, &run.AlertCount,
		&run.SnapshotCount, &run.DurationMs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if finished.Valid {
		run.FinishedAt = finished.Time
	}
	return &run, nil
}

// GetComplianceSnapshot retrieves the latest snapshot for a taxpayer.
func (r *SQLRepository) GetComplianceSnapshot(ctx context.Context, taxpayerID string) (*domain.ComplianceSnapshot, error) {
	query := `
		SELECT taxpayer_id, as_of, paye_expected, paye_filed, paye_on_time,
			   paye_mean_late, vat_expected, vat_filed, vat_on_time,
			   vat_mean_late, payment_count, total_tax_paid,
			   filing_compliance_rate, chronic_late_filer, low_filing_rate
		FROM compliance_snapshots
		WHERE taxpayer_id = ?
	`

	var s domain.ComplianceSnapshot
	var chronic, lowRate int
	err := r.db.QueryRowContext(ctx, r.rebind(query), taxpayerID).Scan(
		&s.TaxpayerID, &s.AsOf, &s.PAYEExpected, &s.PAYEFiled, &s.PAYEOnTime,
		&s.PAYEMeanLate, &s.VATExpected, &s.VATFiled, &s.VATOnTime,
		&s.VATMeanLate, &s.PaymentCount, &s.TotalTaxPaid,
		&s.FilingComplianceRate, &chronic, &lowRate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.ChronicLateFiler = chronic == 1
	s.LowFilingRate = lowRate == 1
	return &s, nil
}

// ListCohortStats retrieves all cohort statistics.
func (r *SQLRepository) ListCohortStats(ctx context.Context) ([]domain.CohortStat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sector, size_bucket, member_count, mean_tax_paid, total_tax_paid
		FROM cohort_stats
		ORDER BY sector, size_bucket
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []domain.CohortStat
	for rows.Next() {
		var c domain.CohortStat
		if err := rows.Scan(
			&c.Key.Sector, &c.Key.SizeBucket, &c.MemberCount,
			&c.MeanTaxPaid, &c.TotalTaxPaid,
		); err != nil {
			return nil, err
		}
		stats = append(stats, c)
	}
	return stats, rows.Err()
}

// GetAlert retrieves an alert by its natural key.
func (r *SQLRepository) GetAlert(ctx context.Context, key string) (*domain.RiskAlert, error) {
	query := `
		SELECT key, sequence, run_id, taxpayer_id, type, period, description,
			   score, priority, revenue_impact, recommended_action,
			   created_at, status, stale, investigated_by, investigation_notes
		FROM risk_alerts
		WHERE key = ?
	`

	var a domain.RiskAlert
	var stale int
	err := r.db.QueryRowContext(ctx, r.rebind(query), key).Scan(
		&a.Key, &a.Sequence, &a.RunID, &a.TaxpayerID, &a.Type, &a.Period,
		&a.Description, &a.Score, &a.Priority, &a.RevenueImpact,
		&a.RecommendedAction, &a.CreatedAt, &a.Status, &stale,
		&a.InvestigatedBy, &a.InvestigationNotes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a.Stale = stale == 1
	return &a, nil
}

// ListAlerts retrieves alerts matching the filter, ordered by score
// descending then sequence.
func (r *SQLRepository) ListAlerts(ctx context.Context, filter domain.AlertFilter) ([]domain.RiskAlert, error) {
	query := `
		SELECT key, sequence, run_id, taxpayer_id, type, period, description,
			   score, priority, revenue_impact, recommended_action,
			   created_at, status, stale, investigated_by, investigation_notes
		FROM risk_alerts
	`

	var conds []string
	var args []any
	if filter.TaxpayerID != "" {
		conds = append(conds, "taxpayer_id = ?")
		args = append(args, filter.TaxpayerID)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Priority != "" {
		conds = append(conds, "priority = ?")
		args = append(args, filter.Priority)
	}
	if !filter.IncludeStale {
		conds = append(conds, "stale = 0")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY score DESC, sequence ASC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []domain.RiskAlert
	for rows.Next() {
		var a domain.RiskAlert
		var stale int
		if err := rows.Scan(
			&a.Key, &a.Sequence, &a.RunID, &a.TaxpayerID, &a.Type, &a.Period,
			&a.Description, &a.Score, &a.Priority, &a.RevenueImpact,
			&a.RecommendedAction, &a.CreatedAt, &a.Status, &stale,
			&a.InvestigatedBy, &a.InvestigationNotes,
		); err != nil {
			return nil, err
		}
		a.Stale = stale == 1
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// UpdateAlertStatus applies an investigation-side status change after
// checking the transition is legal.
func (r *SQLRepository) UpdateAlertStatus(ctx context.Context, key string, status domain.AlertStatus, investigator, notes string) error {
	current, err := r.GetAlert(ctx, key)
	if err != nil {
		return err
	}
	if !current.Status.CanTransition(status) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, status)
	}

	query := `
		UPDATE risk_alerts
		SET status = ?, investigated_by = ?, investigation_notes = ?
		WHERE key = ?
	`
	result, err := r.db.ExecContext(ctx, r.rebind(query), status, investigator, notes, key)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SaveScreeningRule upserts a screening rule.
func (r *SQLRepository) SaveScreeningRule(ctx context.Context, rule *domain.ScreeningRule) error {
	if rule.ID == "" || rule.Expression == "" {
		return fmt.Errorf("%w: rule id and expression are required", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO screening_rules (
			id, name, description, expression, score, impact_rate,
			recommended_action, enabled, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			expression = excluded.expression,
			score = excluded.score,
			impact_rate = excluded.impact_rate,
			recommended_action = excluded.recommended_action,
			enabled = excluded.enabled,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		rule.ID, rule.Name, rule.Description, rule.Expression, rule.Score,
		rule.ImpactRate, rule.RecommendedAction, boolToInt(rule.Enabled),
		now, now,
	)
	return err
}

// ListScreeningRules retrieves all screening rules, enabled or not.
func (r *SQLRepository) ListScreeningRules(ctx context.Context) ([]*domain.ScreeningRule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, expression, score, impact_rate,
			   recommended_action, enabled
		FROM screening_rules
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*domain.ScreeningRule
	for rows.Next() {
		var rule domain.ScreeningRule
		var enabled int
		if err := rows.Scan(
			&rule.ID, &rule.Name, &rule.Description, &rule.Expression,
			&rule.Score, &rule.ImpactRate, &rule.RecommendedAction, &enabled,
		); err != nil {
			return nil, err
		}
		rule.Enabled = enabled == 1
		rules = append(rules, &rule)
	}
	return rules, rows.Err()
}

// Ping checks database connectivity.
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection.
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// rebind converts ? placeholders to $1, $2, etc. for PostgreSQL.
func (r *SQLRepository) rebind(query string) string {
	if r.driver != "postgres" {
		return query
	}

	var result []byte
	n := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result = append(result, '$')
			result = append(result, fmt.Sprintf("%d", n)...)
			n++
		} else {
			result = append(result, query[i])
		}
	}
	return string(result)
}
