package database

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"

	"github.com/microblog/app/internal/models"
)

// ErrUsernameTaken is returned by CreateUser when the username already
// exists. The uniqueness itself is enforced by the store constraint.
var ErrUsernameTaken = errors.New("username is already registered")

// CreateUser hashes the password and inserts a new user.
func CreateUser(db *sql.DB, username, password string) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	stmt, err := db.Prepare("INSERT INTO user(username, password) VALUES(?, ?)")
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	res, err := stmt.Exec(username, string(hashed))
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return GetUserByID(db, id)
}

// GetUserByID retrieves a user by id. Returns sql.ErrNoRows if absent.
func GetUserByID(db *sql.DB, id int64) (*models.User, error) {
	user := &models.User{}
	row := db.QueryRow("SELECT id, username, password FROM user WHERE id = ?", id)
	if err := row.Scan(&user.ID, &user.Username, &user.Password); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username. Returns sql.ErrNoRows
// if absent.
func GetUserByUsername(db *sql.DB, username string) (*models.User, error) {
	user := &models.User{}
	row := db.QueryRow("SELECT id, username, password FROM user WHERE username = ?", username)
	if err := row.Scan(&user.ID, &user.Username, &user.Password); err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyPassword compares a stored hash with a plaintext password.
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
