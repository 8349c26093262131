package user

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	userColumns = `
		u.id, u.name, u.email, u.password_hash, u.phone, u.date_of_birth,
		u.created_at, u.updated_at, u.last_login, u.is_active,
		(SELECT COUNT(*) FROM predictions p WHERE p.user_id = u.id) AS total_predictions
	`

	getUserByIDQuery = `
		SELECT ` + userColumns + `
		FROM users u
		WHERE u.id = $1
	`
	getUserByEmailQuery = `
		SELECT ` + userColumns + `
		FROM users u
		WHERE lower(u.email) = lower($1)
	`
	insertUserQuery = `
		INSERT INTO users (name, email, password_hash, phone, date_of_birth)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	updateLastLoginQuery = `
		UPDATE users SET last_login = $1, updated_at = $1 WHERE id = $2
	`
	deleteUserQuery = `DELETE FROM users WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	return scanUser(r.db.QueryRow(getUserByIDQuery, id))
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	return scanUser(r.db.QueryRow(getUserByEmailQuery, email))
}

func (r *PostgresRepository) Create(u User) (User, error) {
	err := r.db.QueryRow(
		insertUserQuery,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.Phone,
		u.DateOfBirth,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		// unique_violation on the lower(email) index
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrEmailExists
		}
		return User{}, err
	}
	u.IsActive = true
	return u, nil
}

func (r *PostgresRepository) UpdateLastLogin(id int, when time.Time) error {
	result, err := r.db.Exec(updateLastLoginQuery, when, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the user row; owned predictions go with it through the
// ON DELETE CASCADE foreign key.
func (r *PostgresRepository) Delete(id int) error {
	result, err := r.db.Exec(deleteUserQuery, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(scanner rowScanner) (User, error) {
	var (
		u         User
		phone     sql.NullString
		dob       sql.NullTime
		lastLogin sql.NullTime
	)

	err := scanner.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&phone,
		&dob,
		&u.CreatedAt,
		&u.UpdatedAt,
		&lastLogin,
		&u.IsActive,
		&u.TotalPredictions,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	if phone.Valid {
		u.Phone = &phone.String
	}
	if dob.Valid {
		formatted := dob.Time.Format("2006-01-02")
		u.DateOfBirth = &formatted
	}
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return u, nil
}
