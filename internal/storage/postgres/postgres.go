package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brieflab/brief-analyzer/internal/model"
	"github.com/brieflab/brief-analyzer/internal/storage"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Storage implements BriefStorage backed by PostgreSQL.
type Storage struct {
	pool *pgxpool.Pool
}

// NewStorage connects to the database, ensures the schema exists and seeds
// the team directory.
func NewStorage(dsn string) (*Storage, error) {
	if dsn == "" {
		return nil, errors.New("database connection string is empty")
	}

	ctx := context.Background()
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	s := &Storage{pool: pool}

	if err := s.createTables(ctx); err != nil {
		return nil, err
	}

	if err := s.seedDirectory(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Storage) createTables(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS briefs (
			id UUID PRIMARY KEY,
			file_name TEXT NOT NULL,
			content_hash VARCHAR(64) NOT NULL UNIQUE,
			project_id TEXT,
			project_name TEXT,
			content_writer_id TEXT NOT NULL,
			designer_id TEXT,
			analysis_type TEXT NOT NULL,
			stage TEXT NOT NULL,
			structured JSONB NOT NULL,
			content_writer_report TEXT,
			designer_report TEXT,
			submitted_content TEXT,
			tokens_used INTEGER DEFAULT 0,
			delivery JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			basecamp_user_id TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL
		);
	`

	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *Storage) seedDirectory(ctx context.Context) error {
	for _, u := range storage.DefaultUsers() {
		_, err := s.pool.Exec(ctx,
			"INSERT INTO users (id, name, email, basecamp_user_id) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING",
			u.ID, u.Name, u.Email, u.BasecampUserID)
		if err != nil {
			return fmt.Errorf("error seeding users: %w", err)
		}
	}

	for _, p := range storage.DefaultProjects() {
		_, err := s.pool.Exec(ctx,
			"INSERT INTO projects (id, name, description, status) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING",
			p.ID, p.Name, p.Description, p.Status)
		if err != nil {
			return fmt.Errorf("error seeding projects: %w", err)
		}
	}

	return nil
}

// SaveBrief inserts a new brief. A unique violation on the content hash is
// mapped to ErrBriefExists.
func (s *Storage) SaveBrief(ctx context.Context, brief *model.Brief) error {
	structured, err := json.Marshal(brief.Structured)
	if err != nil {
		return fmt.Errorf("error marshaling structured brief: %w", err)
	}

	delivery, err := json.Marshal(brief.Delivery)
	if err != nil {
		return fmt.Errorf("error marshaling delivery state: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO briefs (
			id, file_name, content_hash, project_id, project_name,
			content_writer_id, designer_id, analysis_type, stage, structured,
			content_writer_report, designer_report, submitted_content,
			tokens_used, delivery
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		brief.ID, brief.FileName, brief.ContentHash, brief.ProjectID, brief.ProjectName,
		brief.ContentWriterID, brief.DesignerID, brief.AnalysisType, brief.Stage, structured,
		brief.ContentWriterReport, brief.DesignerReport, brief.SubmittedContent,
		brief.TokensUsed, delivery)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return storage.ErrBriefExists
		}
		return fmt.Errorf("error inserting brief: %w", err)
	}

	return nil
}

func (s *Storage) scanBrief(row pgx.Row) (*model.Brief, error) {
	var brief model.Brief
	var structured, delivery []byte

	err := row.Scan(
		&brief.ID, &brief.FileName, &brief.ContentHash, &brief.ProjectID, &brief.ProjectName,
		&brief.ContentWriterID, &brief.DesignerID, &brief.AnalysisType, &brief.Stage, &structured,
		&brief.ContentWriterReport, &brief.DesignerReport, &brief.SubmittedContent,
		&brief.TokensUsed, &delivery, &brief.CreatedAt, &brief.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrBriefNotFound
		}
		return nil, fmt.Errorf("error scanning brief: %w", err)
	}

	if err := json.Unmarshal(structured, &brief.Structured); err != nil {
		return nil, fmt.Errorf("error unmarshaling structured brief: %w", err)
	}
	if err := json.Unmarshal(delivery, &brief.Delivery); err != nil {
		return nil, fmt.Errorf("error unmarshaling delivery state: %w", err)
	}

	return &brief, nil
}

const briefColumns = `
	id, file_name, content_hash, COALESCE(project_id, ''), COALESCE(project_name, ''),
	content_writer_id, COALESCE(designer_id, ''), analysis_type, stage, structured,
	COALESCE(content_writer_report, ''), COALESCE(designer_report, ''), COALESCE(submitted_content, ''),
	tokens_used, delivery, created_at, updated_at`

// GetBrief retrieves a brief by its ID.
func (s *Storage) GetBrief(ctx context.Context, id string) (*model.Brief, error) {
	row := s.pool.QueryRow(ctx, "SELECT"+briefColumns+" FROM briefs WHERE id = $1", id)
	return s.scanBrief(row)
}

// GetBriefByHash retrieves a brief by the content hash of its document.
func (s *Storage) GetBriefByHash(ctx context.Context, contentHash string) (*model.Brief, error) {
	row := s.pool.QueryRow(ctx, "SELECT"+briefColumns+" FROM briefs WHERE content_hash = $1", contentHash)
	return s.scanBrief(row)
}

// UpdateBrief replaces the mutable fields of an existing brief.
func (s *Storage) UpdateBrief(ctx context.Context, brief *model.Brief) error {
	structured, err := json.Marshal(brief.Structured)
	if err != nil {
		return fmt.Errorf("error marshaling structured brief: %w", err)
	}

	delivery, err := json.Marshal(brief.Delivery)
	if err != nil {
		return fmt.Errorf("error marshaling delivery state: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE briefs SET
			designer_id = $2, stage = $3, structured = $4,
			content_writer_report = $5, designer_report = $6, submitted_content = $7,
			tokens_used = $8, delivery = $9, updated_at = NOW()
		WHERE id = $1`,
		brief.ID, brief.DesignerID, brief.Stage, structured,
		brief.ContentWriterReport, brief.DesignerReport, brief.SubmittedContent,
		brief.TokensUsed, delivery)
	if err != nil {
		return fmt.Errorf("error updating brief: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrBriefNotFound
	}

	return nil
}

// ListProjects returns all projects.
func (s *Storage) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := s.pool.Query(ctx, "SELECT id, name, COALESCE(description, ''), status FROM projects ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("error querying projects: %w", err)
	}
	defer rows.Close()

	var result []model.Project
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Status); err != nil {
			return nil, fmt.Errorf("error scanning project: %w", err)
		}
		result = append(result, p)
	}

	return result, rows.Err()
}

// ListUsers returns all team members.
func (s *Storage) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.pool.Query(ctx, "SELECT id, name, email, basecamp_user_id FROM users ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	var result []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.BasecampUserID); err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		result = append(result, u)
	}

	return result, rows.Err()
}

// Stats returns the number of briefs and generated reports.
func (s *Storage) Stats(ctx context.Context) (int, int, error) {
	var briefs, reports int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE content_writer_report <> '') +
			COUNT(*) FILTER (WHERE designer_report <> '')
		FROM briefs`).Scan(&briefs, &reports)
	if err != nil {
		return 0, 0, fmt.Errorf("error querying stats: %w", err)
	}

	return briefs, reports, nil
}

// Ping verifies database connectivity.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
