package plan

import (
	"context"
	"encoding/json"
	"time"

	"aura/internal/adapters/storage"
	domain "aura/internal/domain/plan"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByUsername retrieves the plan document for a username.
// PRE: username is non-empty
// POST: Returns the normalized plan or an error if no document exists
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (domain.Plan, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM plan_document WHERE username = ?`, username).Scan(&data)
	if err != nil {
		return domain.Plan{}, err
	}
	return decodePlan(data), nil
}

// Save replaces the plan document for a username.
// PRE: p has been validated
// POST: Document is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, username string, p domain.Plan) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO plan_document (username, data, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(username) DO UPDATE SET
		   data=excluded.data, updated_at=excluded.updated_at`,
		username, string(data), time.Now().Format(timeLayout))
	return err
}

// Delete removes the plan document for a username.
// PRE: username is non-empty
// POST: Document with given username is removed
func (s *SQLiteStore) Delete(ctx context.Context, username string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM plan_document WHERE username = ?`, username)
	return err
}

// All retrieves every stored plan keyed by username.
// POST: Returns a map of normalized plans; corrupt rows degrade to defaults
func (s *SQLiteStore) All(ctx context.Context) (map[string]domain.Plan, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT username, data FROM plan_document`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make(map[string]domain.Plan)
	for rows.Next() {
		var username, data string
		if err := rows.Scan(&username, &data); err != nil {
			return nil, err
		}
		plans[username] = decodePlan(data)
	}
	return plans, rows.Err()
}

// decodePlan turns a stored JSON document into a valid plan. Damaged or
// hand-edited documents are repaired field by field rather than rejected.
func decodePlan(data string) domain.Plan {
	var raw any
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		raw = nil
	}
	return domain.Normalize(raw)
}
