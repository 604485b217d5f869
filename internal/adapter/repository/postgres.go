package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/civiclens/turfwatch/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresArchive keeps the full history of scan results. The JSON
// snapshot store holds only the latest working state; this archive is the
// queryable record of everything the scanner has ever produced.
type PostgresArchive struct {
	db *pgxpool.Pool
}

func NewPostgresArchive(db *pgxpool.Pool) *PostgresArchive {
	return &PostgresArchive{db: db}
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS scans (
		id UUID PRIMARY KEY,
		generated_at TIMESTAMPTZ NOT NULL,
		confidence INT NOT NULL,
		narrative TEXT NOT NULL DEFAULT '',
		job_count INT NOT NULL DEFAULT 0,
		org_count INT NOT NULL DEFAULT 0,
		news_count INT NOT NULL DEFAULT 0,
		connection_count INT NOT NULL DEFAULT 0,
		alert_count INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS job_postings (
		scan_id UUID NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		company TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		posted_date TEXT NOT NULL DEFAULT '',
		suspicion_score INT NOT NULL,
		UNIQUE (scan_id, url, title)
	)`,
	`CREATE TABLE IF NOT EXISTS organizations (
		scan_id UUID NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		org_type TEXT NOT NULL DEFAULT '',
		ein_or_committee_id TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		first_file_date TEXT NOT NULL DEFAULT '',
		total_revenue BIGINT NOT NULL DEFAULT 0,
		source_url TEXT NOT NULL DEFAULT '',
		risk_score INT NOT NULL,
		UNIQUE (scan_id, name, ein_or_committee_id)
	)`,
	`CREATE TABLE IF NOT EXISTS news_articles (
		scan_id UUID NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		snippet TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		publisher TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		query TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		published TEXT NOT NULL DEFAULT '',
		relevance_score INT NOT NULL,
		UNIQUE (scan_id, url)
	)`,
	`CREATE TABLE IF NOT EXISTS connections (
		scan_id UUID NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
		conn_type TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		probability INT NOT NULL,
		evidence_types TEXT[] NOT NULL DEFAULT '{}',
		evidence_details TEXT[] NOT NULL DEFAULT '{}',
		UNIQUE (scan_id, conn_type)
	)`,
	`CREATE TABLE IF NOT EXISTS alerts (
		id UUID PRIMARY KEY,
		scan_id UUID NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		confidence INT NOT NULL,
		sources TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL
	)`,
}

// EnsureSchema creates the archive tables when they do not exist yet.
func (a *PostgresArchive) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := a.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure archive schema: %w", err)
		}
	}
	return nil
}

func (a *PostgresArchive) SaveScan(ctx context.Context, report *domain.ScanReport) error {
	if report == nil || report.ID == "" {
		return fmt.Errorf("cannot archive scan without an id")
	}

	_, err := a.db.Exec(ctx, `
		INSERT INTO scans (id, generated_at, confidence, narrative, job_count, org_count, news_count, connection_count, alert_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`,
		report.ID,
		domain.EventTime(report.GeneratedAt),
		report.Confidence.Overall,
		report.Confidence.Narrative,
		len(report.Jobs),
		len(report.Orgs),
		len(report.News),
		len(report.Connections),
		len(report.Alerts),
	)
	if err != nil {
		return fmt.Errorf("failed to insert scan row: %w", err)
	}

	batch := &pgx.Batch{}

	jobQuery := `
		INSERT INTO job_postings (scan_id, title, company, url, city, state, source, posted_date, suspicion_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT DO NOTHING
	`
	for _, job := range report.Jobs {
		batch.Queue(jobQuery,
			report.ID,
			job.Title,
			job.Company,
			job.URL,
			job.City,
			job.State,
			job.Source,
			job.PostedDate,
			job.SuspicionScore,
		)
	}

	orgQuery := `
		INSERT INTO organizations (scan_id, name, org_type, ein_or_committee_id, city, state, first_file_date, total_revenue, source_url, risk_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT DO NOTHING
	`
	for _, org := range report.Orgs {
		batch.Queue(orgQuery,
			report.ID,
			org.Name,
			org.Type,
			org.EINOrCommitteeID,
			org.City,
			org.State,
			org.FirstFileDate,
			org.Revenue,
			org.SourceURL,
			org.RiskScore,
		)
	}

	newsQuery := `
		INSERT INTO news_articles (scan_id, title, snippet, url, publisher, source, query, location, published, relevance_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT DO NOTHING
	`
	for _, article := range report.News {
		batch.Queue(newsQuery,
			report.ID,
			article.Title,
			article.Snippet,
			article.URL,
			article.Publisher,
			article.Source,
			article.Query,
			article.Location,
			article.Date,
			article.RelevanceScore,
		)
	}

	connQuery := `
		INSERT INTO connections (scan_id, conn_type, description, probability, evidence_types, evidence_details)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT DO NOTHING
	`
	for _, conn := range report.Connections {
		types := make([]string, 0, len(conn.Evidence))
		details := make([]string, 0, len(conn.Evidence))
		for _, ev := range conn.Evidence {
			types = append(types, ev.Type)
			details = append(details, ev.Detail)
		}
		batch.Queue(connQuery,
			report.ID,
			conn.Type,
			conn.Description,
			conn.Probability,
			types,
			details,
		)
	}

	alertQuery := `
		INSERT INTO alerts (id, scan_id, title, description, confidence, sources, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`
	for _, alert := range report.Alerts {
		batch.Queue(alertQuery,
			alert.ID,
			report.ID,
			alert.Title,
			alert.Description,
			alert.Confidence,
			alert.Sources,
			domain.EventTime(alert.Timestamp),
		)
	}

	br := a.db.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to execute archive batch: %w", err)
		}
	}

	return nil
}

func (a *PostgresArchive) FindScansSince(ctx context.Context, since time.Time, limit int) ([]domain.ScanRow, error) {
	query := `
		SELECT id, generated_at, confidence, narrative, job_count, org_count, news_count, connection_count, alert_count
		FROM scans
		WHERE generated_at >= $1
		ORDER BY generated_at DESC
		LIMIT $2
	`

	rows, err := a.db.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scans since %v: %w", since, err)
	}
	defer rows.Close()

	var scans []domain.ScanRow

	for rows.Next() {
		var row domain.ScanRow
		var generatedAt time.Time
		err := rows.Scan(
			&row.ID,
			&generatedAt,
			&row.Confidence,
			&row.Narrative,
			&row.Jobs,
			&row.Orgs,
			&row.News,
			&row.Connections,
			&row.Alerts,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan archive row: %w", err)
		}
		row.GeneratedAt = domain.Timestamp(generatedAt)
		scans = append(scans, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return scans, nil
}

func (a *PostgresArchive) FindAlertsSince(ctx context.Context, since time.Time, limit int) ([]domain.Alert, error) {
	query := `
		SELECT id, title, description, confidence, sources, created_at
		FROM alerts
		WHERE created_at >= $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := a.db.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts since %v: %w", since, err)
	}
	defer rows.Close()

	var alerts []domain.Alert

	for rows.Next() {
		var alert domain.Alert
		var createdAt time.Time
		err := rows.Scan(
			&alert.ID,
			&alert.Title,
			&alert.Description,
			&alert.Confidence,
			&alert.Sources,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert row: %w", err)
		}
		alert.Timestamp = domain.Timestamp(createdAt)
		alerts = append(alerts, alert)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return alerts, nil
}
