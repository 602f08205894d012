package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/sitekit/internal/db"
)

// ErrNotFound is returned by GetByID for an unknown id.
var ErrNotFound = errors.New("history entry not found")

// timeLayout matches the timestamp column default.
const timeLayout = "2006-01-02 15:04:05.000"

// Store provides CRUD operations for history entries. A nil *Store discards
// writes, so callers can run without a history database.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Log inserts a new entry. If entry.ID is empty a UUID is generated.
func (s *Store) Log(ctx context.Context, entry Entry) error {
	if s == nil {
		return nil
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Actor == "" {
		entry.Actor = ActorCLI
	}
	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history_entries (
			id, timestamp, actor, action, target, summary, detail,
			backup_path, previous_value, new_value
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		ts.UTC().Format(timeLayout),
		string(entry.Actor),
		string(entry.Action),
		entry.Target,
		entry.Summary,
		entry.Detail,
		nullString(entry.BackupPath),
		nullString(entry.PreviousValue),
		nullString(entry.NewValue),
	)
	if err != nil {
		return fmt.Errorf("inserting history entry: %w", err)
	}
	return nil
}

// GetByID retrieves a single entry.
func (s *Store) GetByID(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	e, err := scanInto(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// QueryFilter controls which entries are returned by Query.
type QueryFilter struct {
	Action Action
	Actor  Actor
	Target string
	Since  *time.Time
	Until  *time.Time
	Limit  int
	Offset int
}

const selectColumns = "SELECT id, timestamp, actor, action, target, summary, detail, backup_path, previous_value, new_value FROM history_entries"

// Query returns entries matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.Action != "" {
		clauses = append(clauses, "action = ?")
		args = append(args, string(filter.Action))
	}
	if filter.Actor != "" {
		clauses = append(clauses, "actor = ?")
		args = append(args, string(filter.Actor))
	}
	if filter.Target != "" {
		clauses = append(clauses, "target LIKE ?")
		args = append(args, "%"+filter.Target+"%")
	}
	if filter.Since != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}
	if filter.Until != nil {
		clauses = append(clauses, "timestamp <= ?")
		args = append(args, filter.Until.UTC().Format(timeLayout))
	}

	query := selectColumns
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY timestamp DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	} else if filter.Offset > 0 {
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanInto(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// DeleteBefore removes all entries older than the given time.
// Returns the number of deleted rows.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM history_entries WHERE timestamp < ?",
		before.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old history entries: %w", err)
	}
	return res.RowsAffected()
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInto(sc scanner) (*Entry, error) {
	var (
		e                                   Entry
		actor, action, ts                   string
		backupPath, previousValue, newValue sql.NullString
	)

	err := sc.Scan(
		&e.ID, &ts, &actor, &action, &e.Target, &e.Summary, &e.Detail,
		&backupPath, &previousValue, &newValue,
	)
	if err != nil {
		return nil, err
	}

	e.Actor = Actor(actor)
	e.Action = Action(action)
	e.BackupPath = backupPath.String
	e.PreviousValue = previousValue.String
	e.NewValue = newValue.String

	for _, layout := range []string{timeLayout, time.DateTime, time.RFC3339Nano} {
		if t, parseErr := time.Parse(layout, ts); parseErr == nil {
			e.Timestamp = t
			break
		}
	}

	return &e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
