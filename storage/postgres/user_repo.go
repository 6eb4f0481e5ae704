package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"
	interrors "github.com/jrsteele09/go-hms/internal/errors"
	"github.com/jrsteele09/go-hms/users"
	"github.com/pkg/errors"
)

type UserRepo struct {
	db DB
}

var _ users.Repo = (*UserRepo)(nil)

func NewUserRepo(db DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, username, email, password_hash, first_name, last_name, role, date_joined, last_login, blocked`

func (r *UserRepo) Upsert(user *users.User) error {
	ctx := context.Background()
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now()
	}

	if user.ID == 0 {
		err := r.db.QueryRow(ctx, `
			INSERT INTO users (username, email, password_hash, first_name, last_name, role, date_joined, blocked)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (username) DO UPDATE SET
				email = EXCLUDED.email,
				password_hash = EXCLUDED.password_hash,
				first_name = EXCLUDED.first_name,
				last_name = EXCLUDED.last_name,
				role = EXCLUDED.role,
				blocked = EXCLUDED.blocked
			RETURNING id`,
			user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName,
			string(user.Role), user.DateJoined, user.Blocked,
		).Scan(&user.ID)
		return errors.Wrap(err, "[UserRepo.Upsert] insert")
	}

	_, err := r.db.Exec(ctx, `
		UPDATE users SET username = $2, email = $3, password_hash = $4, first_name = $5,
			last_name = $6, role = $7, blocked = $8
		WHERE id = $1`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		string(user.Role), user.Blocked,
	)
	return errors.Wrap(err, "[UserRepo.Upsert] update")
}

func (r *UserRepo) Delete(username string) error {
	tag, err := r.db.Exec(context.Background(), `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return errors.Wrap(err, "[UserRepo.Delete] exec")
	}
	if tag.RowsAffected() == 0 {
		return interrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) GetByUsername(username string) (*users.User, error) {
	row := r.db.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

func (r *UserRepo) GetByID(id int64) (*users.User, error) {
	row := r.db.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepo) List(offset, limit int) ([]*users.User, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(context.Background(),
		`SELECT `+userColumns+` FROM users ORDER BY id OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, errors.Wrap(err, "[UserRepo.List] query")
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *UserRepo) ListByRole(role users.Role) ([]*users.User, error) {
	rows, err := r.db.Query(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY id`, string(role))
	if err != nil {
		return nil, errors.Wrap(err, "[UserRepo.ListByRole] query")
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *UserRepo) SetBlocked(username string, blocked bool) error {
	tag, err := r.db.Exec(context.Background(),
		`UPDATE users SET blocked = $2 WHERE username = $1`, username, blocked)
	if err != nil {
		return errors.Wrap(err, "[UserRepo.SetBlocked] exec")
	}
	if tag.RowsAffected() == 0 {
		return interrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) SetLastLogin(username string) error {
	tag, err := r.db.Exec(context.Background(),
		`UPDATE users SET last_login = now() WHERE username = $1`, username)
	if err != nil {
		return errors.Wrap(err, "[UserRepo.SetLastLogin] exec")
	}
	if tag.RowsAffected() == 0 {
		return interrors.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*users.User, error) {
	var user users.User
	var role string
	var lastLogin sql.NullTime
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &role, &user.DateJoined, &lastLogin, &user.Blocked)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, interrors.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[scanUser] scan")
	}
	user.Role = users.Role(role)
	if lastLogin.Valid {
		user.LastLogin = lastLogin.Time
	}
	return &user, nil
}

func scanUsers(rows pgx.Rows) ([]*users.User, error) {
	listed := make([]*users.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		listed = append(listed, user)
	}
	return listed, errors.Wrap(rows.Err(), "[scanUsers] rows")
}
