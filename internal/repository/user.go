package repository

import (
	"database/sql"
	"errors"
	"time"

	"lifecycle-api/internal/database"
	"lifecycle-api/internal/model"

	"github.com/google/uuid"
)

// UserRepo implements UserRepository
type UserRepo struct {
	db *database.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *database.DB) UserRepository {
	return &UserRepo{db: db}
}

const userColumns = `uuid, email, username, full_name, hashed_password, role, is_active, created_at`

func scanUser(scan func(dest ...interface{}) error) (*model.User, error) {
	user := &model.User{}
	err := scan(
		&user.UUID, &user.Email, &user.Username, &user.FullName,
		&user.HashedPassword, &user.Role, &user.IsActive, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser inserts a new user account
func (r *UserRepo) CreateUser(user *model.User) error {
	u, err := uuid.NewV7()
	if err != nil {
		return err
	}
	user.UUID = u.String()
	user.CreatedAt = time.Now()

	query := r.db.Rebind(`
		INSERT INTO users (uuid, email, username, full_name, hashed_password, role, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err = r.db.Exec(query,
		user.UUID, user.Email, user.Username, user.FullName,
		user.HashedPassword, user.Role, user.IsActive, user.CreatedAt,
	)
	return err
}

// GetUserByUUID retrieves a user by ID
func (r *UserRepo) GetUserByUUID(uuid string) (*model.User, error) {
	return r.getUserWhere(`uuid = ?`, uuid)
}

// GetUserByEmail retrieves a user by email
func (r *UserRepo) GetUserByEmail(email string) (*model.User, error) {
	return r.getUserWhere(`email = ?`, email)
}

// GetUserByUsername retrieves a user by username
func (r *UserRepo) GetUserByUsername(username string) (*model.User, error) {
	return r.getUserWhere(`username = ?`, username)
}

// GetUserByIdentifier retrieves a user whose username or email matches
func (r *UserRepo) GetUserByIdentifier(identifier string) (*model.User, error) {
	return r.getUserWhere(`username = ? OR email = ?`, identifier, identifier)
}

func (r *UserRepo) getUserWhere(where string, args ...interface{}) (*model.User, error) {
	query := r.db.Rebind(`
		SELECT ` + userColumns + `
		FROM users
		WHERE ` + where + `
	`)
	row := r.db.QueryRow(query, args...)
	user, err := scanUser(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// ListUsers retrieves users with optional role filtering and pagination
func (r *UserRepo) ListUsers(role string, limit, offset int) ([]*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
	`
	args := []interface{}{}
	if role != "" {
		query += ` WHERE role = ?`
		args = append(args, role)
	}
	query += ` ORDER BY created_at ASC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.Query(r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// CountUsers returns the number of users, optionally restricted to a role
func (r *UserRepo) CountUsers(role string) (int, error) {
	var count int
	if role != "" {
		err := r.db.QueryRow(r.db.Rebind(`SELECT COUNT(*) FROM users WHERE role = ?`), role).Scan(&count)
		return count, err
	}
	err := r.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// ListRoles returns the distinct roles present across all users
func (r *UserRepo) ListRoles() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT role FROM users ORDER BY role ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}

	return roles, rows.Err()
}
