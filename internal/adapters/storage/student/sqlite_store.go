package student

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"aura/internal/adapters/storage"
	domain "aura/internal/domain/student"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

const studentColumns = `id, account_id, username, email, skill, level, goal, concerns, status, created_at`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Student by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Student, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM student WHERE id = ?`, id)
	return scanStudent(row)
}

// GetByUsername retrieves a Student by username, compared case-insensitively.
// PRE: username is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (domain.Student, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM student WHERE LOWER(username) = ?`,
		domain.NormalizeUsername(username))
	return scanStudent(row)
}

// GetByAccountID retrieves the Student linked to an account.
// PRE: accountID is non-empty
// POST: Returns the entity or an error if no student is linked
func (s *SQLiteStore) GetByAccountID(ctx context.Context, accountID string) (domain.Student, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM student WHERE account_id = ?`, accountID)
	return scanStudent(row)
}

// Save persists a Student to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, v domain.Student) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO student (`+studentColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   account_id=excluded.account_id, username=excluded.username,
		   email=excluded.email, skill=excluded.skill, level=excluded.level,
		   goal=excluded.goal, concerns=excluded.concerns, status=excluded.status`,
		v.ID, nullStr(v.AccountID), v.Username, v.Email, v.Skill, v.Level,
		v.Goal, v.Concerns, v.Status, v.CreatedAt.Format(timeLayout))
	return err
}

// Delete removes a Student from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM student WHERE id = ?`, id)
	return err
}

// List retrieves Students matching the filter, ordered by username.
// PRE: filter limit/offset are non-negative
// POST: Returns matching students
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM student`
	var args []any
	if filter.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY LOWER(username)`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []domain.Student
	for rows.Next() {
		st, err := scanStudentRow(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, rows.Err()
}

// Count returns the number of students.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM student`).Scan(&count)
	return count, err
}

func scanStudent(row *sql.Row) (domain.Student, error) {
	var st domain.Student
	var accountID sql.NullString
	var createdAt string
	err := row.Scan(&st.ID, &accountID, &st.Username, &st.Email, &st.Skill,
		&st.Level, &st.Goal, &st.Concerns, &st.Status, &createdAt)
	if err != nil {
		return domain.Student{}, err
	}
	if accountID.Valid {
		st.AccountID = accountID.String
	}
	st.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return st, nil
}

func scanStudentRow(rows *sql.Rows) (domain.Student, error) {
	var st domain.Student
	var accountID sql.NullString
	var createdAt string
	err := rows.Scan(&st.ID, &accountID, &st.Username, &st.Email, &st.Skill,
		&st.Level, &st.Goal, &st.Concerns, &st.Status, &createdAt)
	if err != nil {
		return domain.Student{}, err
	}
	if accountID.Valid {
		st.AccountID = accountID.String
	}
	st.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return st, nil
}

func nullStr(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
