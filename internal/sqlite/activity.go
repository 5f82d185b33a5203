package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rpggio/trinity/internal/domain/activity"
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append inserts a new activity entry
func (r *ActivityRepository) Append(ctx context.Context, entry *activity.Entry) error {
	query := `
		INSERT INTO activity_log (id, project_id, agent, severity, message, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	var projectID sql.NullString
	if entry.ProjectID != "" {
		projectID = sql.NullString{String: entry.ProjectID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		projectID,
		entry.Agent,
		entry.Severity,
		entry.Message,
		entry.Timestamp,
	)
	if err != nil {
		return writeError("log activity", err)
	}

	return nil
}

// List returns activity entries matching the given filters, newest first
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	query := `
		SELECT id, project_id, agent, severity, message, timestamp
		FROM activity_log
	`

	args := []interface{}{}
	conditions := []string{}

	if opts.ProjectID != "" {
		conditions = append(conditions, "project_id = ?")
		args = append(args, opts.ProjectID)
	}
	if opts.Agent != nil {
		conditions = append(conditions, "agent = ?")
		args = append(args, *opts.Agent)
	}
	if opts.Severity != nil {
		conditions = append(conditions, "severity = ?")
		args = append(args, *opts.Severity)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY seq DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	} else if opts.Offset > 0 {
		query += " LIMIT -1"
	}
	if opts.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	entries := []activity.Entry{}
	for rows.Next() {
		var entry activity.Entry
		var projectID sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&projectID,
			&entry.Agent,
			&entry.Severity,
			&entry.Message,
			&entry.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entry.ProjectID = projectID.String
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return entries, nil
}
