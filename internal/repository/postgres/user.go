package postgres

import (
	"context"
	"database/sql"
	"time"

	"admission-portal-backend/internal/domain"
	"admission-portal-backend/internal/logger"
	"admission-portal-backend/internal/repository"
)

var userConflicts = map[string]error{
	"users_email_key": domain.ErrEmailTaken,
}

const userColumns = `id, email, password_hash, name, role, COALESCE(phone, ''), COALESCE(address, ''), date_of_birth,
	profile_completed, is_active, two_factor_enabled, COALESCE(two_factor_code_hash, ''), two_factor_code_expires,
	COALESCE(push_token, ''), created_on, updated_on`

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	u := &domain.User{}
	var role string
	var dob, codeExpires sql.NullTime
	var createdOn, updatedOn time.Time
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &role, &u.Phone, &u.Address, &dob,
		&u.ProfileCompleted, &u.IsActive, &u.TwoFactorEnabled, &u.TwoFactorCodeHash, &codeExpires,
		&u.PushToken, &createdOn, &updatedOn)
	if err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	if dob.Valid {
		u.DateOfBirth = dob.Time.Format(dateLayout)
	}
	if codeExpires.Valid {
		t := codeExpires.Time
		u.TwoFactorCodeExpires = &t
	}
	u.CreatedOn = formatDate(createdOn)
	u.UpdatedOn = formatDate(updatedOn)
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (email, password_hash, name, role, phone, address, date_of_birth, profile_completed, is_active, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now()
	logger.DatabaseCall("INSERT", "users", "email", u.Email)
	err := r.db.QueryRowContext(ctx, query, u.Email, u.PasswordHash, u.Name, string(u.Role), u.Phone, u.Address,
		nullableString(u.DateOfBirth), u.ProfileCompleted, u.IsActive, now, now).Scan(&u.ID)
	logger.DatabaseResult("INSERT", 1, err, "userID", u.ID)
	if err != nil {
		return mapError(err, userConflicts)
	}
	u.CreatedOn = formatDate(now)
	u.UpdatedOn = u.CreatedOn
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, nil)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, mapError(err, nil)
	}
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET email=$1, name=$2, role=$3, phone=$4, address=$5, date_of_birth=$6,
	          profile_completed=$7, is_active=$8, push_token=$9, updated_on=$10 WHERE id=$11`
	now := time.Now()
	res, err := r.db.ExecContext(ctx, query, u.Email, u.Name, string(u.Role), u.Phone, u.Address,
		nullableString(u.DateOfBirth), u.ProfileCompleted, u.IsActive, nullableString(u.PushToken), now, u.ID)
	if err != nil {
		return mapError(err, userConflicts)
	}
	if err := requireRow(res); err != nil {
		return err
	}
	u.UpdatedOn = formatDate(now)
	return nil
}

func (r *userRepository) UpdateProfileCompleted(ctx context.Context, userID int32, completed bool) error {
	query := `UPDATE users SET profile_completed=$1 WHERE id=$2`
	logger.DatabaseCall("UPDATE", "users", "userID", userID, "profileCompleted", completed)
	res, err := r.db.ExecContext(ctx, query, completed, userID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "userID", userID)
		return mapError(err, nil)
	}
	return requireRow(res)
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID int32, passwordHash string) error {
	query := `UPDATE users SET password_hash=$1, updated_on=$2 WHERE id=$3`
	res, err := r.db.ExecContext(ctx, query, passwordHash, time.Now(), userID)
	if err != nil {
		return mapError(err, nil)
	}
	return requireRow(res)
}

func (r *userRepository) UpdateTwoFactor(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET two_factor_enabled=$1, two_factor_code_hash=$2, two_factor_code_expires=$3,
	          two_factor_attempts=0 WHERE id=$4`
	var expires interface{}
	if u.TwoFactorCodeExpires != nil {
		expires = *u.TwoFactorCodeExpires
	}
	res, err := r.db.ExecContext(ctx, query, u.TwoFactorEnabled, nullableString(u.TwoFactorCodeHash), expires, u.ID)
	if err != nil {
		return mapError(err, nil)
	}
	return requireRow(res)
}

func (r *userRepository) RecordTwoFactorAttempt(ctx context.Context, userID int32, maxAttempts int32) (int32, error) {
	query := `UPDATE users SET two_factor_attempts = two_factor_attempts + 1,
	          two_factor_code_hash = CASE WHEN two_factor_attempts + 1 >= $2 THEN NULL ELSE two_factor_code_hash END,
	          two_factor_code_expires = CASE WHEN two_factor_attempts + 1 >= $2 THEN NULL ELSE two_factor_code_expires END
	          WHERE id = $1 RETURNING two_factor_attempts`
	logger.DatabaseCall("UPDATE", "users", "userID", userID, "op", "two_factor_attempt")
	var attempts int32
	err := r.db.QueryRowContext(ctx, query, userID, maxAttempts).Scan(&attempts)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "userID", userID)
		return 0, mapError(err, nil)
	}
	return attempts, nil
}

func (r *userRepository) List(ctx context.Context, role string, page, pageSize int32) ([]domain.User, int32, error) {
	limit, offset := pageOffset(page, pageSize)
	query := `SELECT ` + userColumns + ` FROM users WHERE ($1 = '' OR role = $1) ORDER BY id LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, role, limit, offset)
	if err != nil {
		return nil, 0, mapError(err, nil)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, mapError(err, nil)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError(err, nil)
	}

	var count int32
	countQuery := `SELECT count(*) FROM users WHERE ($1 = '' OR role = $1)`
	if err := r.db.QueryRowContext(ctx, countQuery, role).Scan(&count); err != nil {
		return nil, 0, mapError(err, nil)
	}
	return users, count, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(err, nil)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
