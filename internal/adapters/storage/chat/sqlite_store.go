package chat

import (
	"context"

	"aura/internal/adapters/storage"
	domain "aura/internal/domain/chat"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists a Message to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, m domain.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_message (id, username, author, content, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   username=excluded.username, author=excluded.author,
		   content=excluded.content, created_at=excluded.created_at`,
		m.ID, m.Username, m.Author, m.Text, m.CreatedAt)
	return err
}

// ListByUsername retrieves a student's thread in chronological order.
// PRE: username is non-empty
// POST: Returns messages ordered by created_at ascending
func (s *SQLiteStore) ListByUsername(ctx context.Context, username string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, author, content, created_at
		 FROM chat_message WHERE username = ? ORDER BY created_at, id`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.Username, &m.Author, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// All retrieves every thread keyed by username.
// POST: Each thread is ordered by created_at ascending
func (s *SQLiteStore) All(ctx context.Context) (map[string][]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, author, content, created_at
		 FROM chat_message ORDER BY username, created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	threads := make(map[string][]domain.Message)
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.Username, &m.Author, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		threads[m.Username] = append(threads[m.Username], m)
	}
	return threads, rows.Err()
}

// Delete removes a Message from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM chat_message WHERE id = ?`, id)
	return err
}

// DeleteThread removes every message of a student's thread.
// PRE: username is non-empty
// POST: All messages for the username are removed
func (s *SQLiteStore) DeleteThread(ctx context.Context, username string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM chat_message WHERE username = ?`, username)
	return err
}
