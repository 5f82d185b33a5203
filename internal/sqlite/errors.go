package sqlite

import (
	"errors"
	"fmt"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/rpggio/trinity/internal/repository"
)

// writeError maps constraint failures of an insert to repository sentinels.
func writeError(action string, err error) error {
	switch constraintKind(err) {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return repository.ErrDuplicate
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return repository.ErrForeignKeyViolation
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// constraintKind returns the extended constraint code, or 0 when err is not one.
func constraintKind(err error) int {
	var serr *msqlite.Error
	if errors.As(err, &serr) {
		switch code := serr.Code(); code {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return code
		}
	}
	if err == nil {
		return 0
	}
	// Drivers without extended codes only carry the message.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return sqlite3.SQLITE_CONSTRAINT_UNIQUE
	case strings.Contains(msg, "PRIMARY KEY constraint failed"):
		return sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return 0
}
