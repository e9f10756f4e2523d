package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studenthub/backend/internal/apperrors"
	"github.com/studenthub/backend/internal/models"
)

// mysqlDuplicateEntry is the MySQL error number for a violated unique key.
// The unique index on users.email is the real backstop for concurrent
// registrations: the pre-insert existence check and the insert are separate
// round trips, so two racing requests can both pass the check.
const mysqlDuplicateEntry = 1062

// userRepository is the MySQL-backed user store
type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new MySQL user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// userColumns is the column list shared by every SELECT on users
const userColumns = `id, name, email, password_hash, role, phone, course, enrollment_year, joined_at, created_at, updated_at`

// scanUser scans one users row into a model
func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	user := &models.User{}
	var enrollmentYear sql.NullInt64
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Phone,
		&user.Course,
		&enrollmentYear,
		&user.JoinedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if enrollmentYear.Valid {
		user.EnrollmentYear = int(enrollmentYear.Int64)
	}
	return user, nil
}

// nullableYear stores an unset enrollment year as NULL so it matches neither
// side of the enrollment-year cutoff in filtered queries
func nullableYear(year int) sql.NullInt64 {
	if year == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(year), Valid: true}
}

// Create inserts a new user. The repository assigns the ID and timestamps.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC().Truncate(time.Second)
	user.JoinedAt = now
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, name, email, password_hash, role, phone, course, enrollment_year, joined_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role,
		user.Phone, user.Course, nullableYear(user.EnrollmentYear),
		user.JoinedAt, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return apperrors.ErrDuplicateEmail
		}
		r.logger.Error("failed to create user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user by id", zap.Error(err), zap.String("userId", userID))
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by normalized email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user by email", zap.Error(err))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// ExistsByEmail checks if a user exists with the given email
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM users WHERE email = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check email existence", zap.Error(err))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// ExistsByEmailExcept checks if the email belongs to a user other than the
// given one. Used on update so a user keeping their own email is not a
// duplicate.
func (r *userRepository) ExistsByEmailExcept(ctx context.Context, email, excludeID string) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM users WHERE email = ? AND id != ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email, excludeID).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check email existence", zap.Error(err))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// Update overwrites every mutable field of a user and refreshes updated_at.
// Field merging happens in the service layer; the repository writes the full
// row.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	query := `
		UPDATE users
		SET name = ?, email = ?, password_hash = ?, role = ?, phone = ?, course = ?, enrollment_year = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Role,
		user.Phone, user.Course, nullableYear(user.EnrollmentYear),
		user.UpdatedAt, user.ID,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return apperrors.ErrDuplicateEmail
		}
		r.logger.Error("failed to update user", zap.Error(err), zap.String("userId", user.ID))
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	// Zero affected rows is fine when the update is a no-op; only report
	// not-found when the row is actually gone
	if rows == 0 {
		exists, err := r.existsByID(ctx, user.ID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrNotFound
		}
	}

	return nil
}

// DeleteStudent permanently removes a student record. Non-student rows are
// left untouched and reported as not found.
func (r *userRepository) DeleteStudent(ctx context.Context, userID string) error {
	query := `DELETE FROM users WHERE id = ? AND role = ?`

	result, err := r.db.ExecContext(ctx, query, userID, models.RoleStudent)
	if err != nil {
		r.logger.Error("failed to delete student", zap.Error(err), zap.String("userId", userID))
		return fmt.Errorf("failed to delete student: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// ListStudents retrieves one page of students, newest-created first, with the
// status filter pushed into the query so the filter and the derived status
// reported on each record use the same enrollment-year cutoff. Returns the
// page and the post-filter total.
func (r *userRepository) ListStudents(ctx context.Context, page, limit int, filter models.StatusFilter, currentYear int) ([]models.User, int, error) {
	where := `WHERE role = ?`
	args := []any{models.RoleStudent}

	// Graduated means enrolled strictly before currentYear-1. Records without
	// an enrollment year match neither filter, mirroring the derived-status
	// source data.
	cutoff := currentYear - 1
	switch filter {
	case models.FilterGraduated:
		where += ` AND enrollment_year < ?`
		args = append(args, cutoff)
	case models.FilterActive:
		where += ` AND enrollment_year >= ?`
		args = append(args, cutoff)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM users ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error("failed to count students", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count students: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users ` + where + ` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list students", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate students: %w", err)
	}

	return students, total, nil
}

// CountStats returns the directory aggregates over the student subset,
// partitioned by the same enrollment-year cutoff as the derived status
func (r *userRepository) CountStats(ctx context.Context, currentYear int) (*models.StatsResponse, error) {
	cutoff := currentYear - 1
	stats := &models.StatsResponse{}

	queries := []struct {
		dest  *int
		query string
		args  []any
	}{
		{&stats.Total, `SELECT COUNT(*) FROM users WHERE role = ?`, []any{models.RoleStudent}},
		{&stats.Active, `SELECT COUNT(*) FROM users WHERE role = ? AND (enrollment_year IS NULL OR enrollment_year >= ?)`, []any{models.RoleStudent, cutoff}},
		{&stats.Graduated, `SELECT COUNT(*) FROM users WHERE role = ? AND enrollment_year < ?`, []any{models.RoleStudent, cutoff}},
	}

	for _, q := range queries {
		if err := r.db.QueryRowContext(ctx, q.query, q.args...).Scan(q.dest); err != nil {
			r.logger.Error("failed to count students", zap.Error(err))
			return nil, fmt.Errorf("failed to count students: %w", err)
		}
	}

	return stats, nil
}

// existsByID checks if a user row exists
func (r *userRepository) existsByID(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT * FROM users WHERE id = ?)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// isDuplicateEntry reports whether the error is a MySQL unique-key violation
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
