package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/trinity/internal/domain/project"
	"github.com/rpggio/trinity/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	query := `
		INSERT INTO projects (id, name, created_at)
		VALUES (?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, proj.ID, proj.Name, proj.CreatedAt)
	if err != nil {
		return writeError("create project", err)
	}

	return nil
}

// Get retrieves a project by ID, with its files in insertion order
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	query := `
		SELECT id, name, created_at
		FROM projects
		WHERE id = ?
	`

	var proj project.Project
	err := r.db.QueryRowContext(ctx, query, id).Scan(&proj.ID, &proj.Name, &proj.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	files, err := r.listFiles(ctx, proj.ID)
	if err != nil {
		return nil, err
	}
	proj.Files = files

	return &proj, nil
}

// GetDefault retrieves the default project (the first created project)
func (r *ProjectRepository) GetDefault(ctx context.Context) (*project.Project, error) {
	query := `
		SELECT id
		FROM projects
		ORDER BY created_at ASC, rowid ASC
		LIMIT 1
	`

	var id string
	err := r.db.QueryRowContext(ctx, query).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get default project: %w", err)
	}

	return r.Get(ctx, id)
}

// List returns all projects with summary information, newest first
func (r *ProjectRepository) List(ctx context.Context) ([]project.ProjectSummary, error) {
	query := `
		SELECT
			p.id,
			p.name,
			p.created_at,
			(SELECT COUNT(*) FROM workspace_files f WHERE f.project_id = p.id) AS file_count,
			(SELECT COUNT(*) FROM messages m WHERE m.project_id = p.id) AS message_count
		FROM projects p
		ORDER BY p.created_at DESC, p.rowid DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	summaries := []project.ProjectSummary{}
	for rows.Next() {
		var summary project.ProjectSummary
		err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.CreatedAt,
			&summary.FileCount,
			&summary.MessageCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return summaries, nil
}

// UpsertFile inserts a file or replaces the content of the file with the same name
func (r *ProjectRepository) UpsertFile(ctx context.Context, projectID string, file project.File) error {
	query := `
		INSERT INTO workspace_files (project_id, name, content, language, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(project_id, name) DO UPDATE SET
			content = excluded.content,
			language = excluded.language,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, projectID, file.Name, file.Content, file.Language, time.Now())
	if err != nil {
		return writeError("upsert file", err)
	}

	return nil
}

func (r *ProjectRepository) listFiles(ctx context.Context, projectID string) ([]project.File, error) {
	query := `
		SELECT name, content, language
		FROM workspace_files
		WHERE project_id = ?
		ORDER BY rowid ASC
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	files := []project.File{}
	for rows.Next() {
		var f project.File
		if err := rows.Scan(&f.Name, &f.Content, &f.Language); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file rows: %w", err)
	}

	return files, nil
}
