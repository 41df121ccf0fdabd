package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/comix/internal/models"
	"github.com/desertthunder/comix/internal/shared"
	"github.com/golang-jwt/jwt/v5"
)

// StoredSession is the persisted sign-in state.
type StoredSession struct {
	ID        string
	Token     string
	User      models.User
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionRepository keeps at most one session row.
type SessionRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

// Save replaces the stored session with token and user.
func (r *SessionRepository) Save(token string, user models.User) (*StoredSession, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: token is empty", shared.ErrInvalidInput)
	}

	now := r.now().UTC()
	session := &StoredSession{
		ID:        shared.GenerateID(),
		Token:     token,
		User:      user,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := withTx(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM sessions"); err != nil {
			return fmt.Errorf("failed to clear sessions: %w", err)
		}

		query := `
			INSERT INTO sessions (id, token, user_id, username, email, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`
		_, err := tx.Exec(query, session.ID, token, user.ID, user.Username, user.Email, now, now)
		if err != nil {
			return fmt.Errorf("failed to insert session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// Current returns the stored session or [shared.ErrNoSession].
func (r *SessionRepository) Current() (*StoredSession, error) {
	query := `
		SELECT id, token, user_id, username, email, created_at, updated_at
		FROM sessions
		ORDER BY updated_at DESC
		LIMIT 1
	`

	var (
		session  StoredSession
		userID   sql.NullInt64
		username sql.NullString
		email    sql.NullString
	)

	err := r.db.QueryRow(query).Scan(&session.ID, &session.Token, &userID, &username, &email, &session.CreatedAt, &session.UpdatedAt)
	if isNoRows(err) {
		return nil, shared.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	session.User = models.User{ID: userID.Int64, Username: username.String, Email: email.String}
	return &session, nil
}

// Clear deletes the stored session. Clearing when nothing is stored is not an error.
func (r *SessionRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM sessions"); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Restore loads the stored session and validates its token.
//
// A token that is not a JWT or has expired is deleted and the matching error is returned:
// [shared.ErrMalformedSession] or [shared.ErrTokenExpired]. The signature is not verified;
// the server remains the authority on whether the token is accepted.
func (r *SessionRepository) Restore() (*StoredSession, error) {
	session, err := r.Current()
	if err != nil {
		return nil, err
	}

	if err := ValidateToken(session.Token, r.now()); err != nil {
		if clearErr := r.Clear(); clearErr != nil {
			return nil, clearErr
		}
		return nil, err
	}

	return session, nil
}

// ValidateToken checks that token is JWT shaped and not expired at now.
func ValidateToken(token string, now time.Time) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrMalformedSession, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrMalformedSession, err)
	}
	if exp != nil && !now.Before(exp.Time) {
		return fmt.Errorf("%w: expired at %s", shared.ErrTokenExpired, exp.Time.Format(time.RFC3339))
	}

	return nil
}
