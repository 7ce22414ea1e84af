package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/surplusmkt/surplus/internal/database"
	"github.com/surplusmkt/surplus/internal/model"
	"github.com/surplusmkt/surplus/internal/sperror"
)

const (
	// TypeAccessToken is the access token type.
	TypeAccessToken = "access_token"
	// TypeRefreshToken is the refresh token type.
	TypeRefreshToken = "refresh_token"
)

type (
	// A Manager manages sessions.
	Manager interface {
		// SigningKey returns the key used to sign the tokens.
		SigningKey() []byte
		// Generate creates a new session without user information.
		Generate() *model.Session
		// Token wraps the session's opaque token of the given type into a signed JWT.
		Token(session *model.Session, kind string) (string, error)
		// ParseToken verifies the token signature and extracts the session id
		// and the wrapped opaque token. Expiry is left to Validate.
		ParseToken(token string) (id, opaque string, err error)
		// Validate validates an access token.
		Validate(token string) (*model.Session, error)
		// AccessTokenExpireAt returns the expiration date of the access token.
		AccessTokenExpireAt(session *model.Session) time.Time
		// Regenerate regenerates the session's tokens.
		Regenerate(session *model.Session) error
		// UserFromSession returns the user owning the given session.
		UserFromSession(session *model.Session) (*model.User, error)
	}

	manager struct {
		db         database.Client
		signingKey []byte
		// Session params
		accessTokenExpirationTime  time.Duration
		refreshTokenExpirationTime time.Duration
	}

	claims struct {
		Type string `json:"type"`
		jwt.RegisteredClaims
	}
)

// NewManager returns a new manager.
func NewManager(db database.Client, signingKey []byte, accessTokenExpirationTime, refreshTokenExpirationTime time.Duration) Manager {
	return &manager{
		db:                         db,
		signingKey:                 signingKey,
		accessTokenExpirationTime:  accessTokenExpirationTime,
		refreshTokenExpirationTime: refreshTokenExpirationTime,
	}
}

func (m *manager) SigningKey() []byte {
	return m.signingKey
}

func (m *manager) Generate() *model.Session {
	return &model.Session{
		ExpireAt:     time.Now().Add(m.refreshTokenExpirationTime).UTC(),
		AccessToken:  SecureToken(24),
		RefreshToken: SecureToken(24),
	}
}

func (m *manager) Token(session *model.Session, kind string) (string, error) {
	var opaque string
	var expire time.Time

	switch kind {
	case TypeAccessToken:
		opaque = session.AccessToken
		expire = m.AccessTokenExpireAt(session)
	case TypeRefreshToken:
		opaque = session.RefreshToken
		expire = session.ExpireAt
	default:
		return "", errors.Errorf("unknown token type: %s", kind)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Type: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.ID,
			ID:        opaque,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expire),
		},
	})

	payload, err := token.SignedString(m.signingKey)
	return payload, errors.Wrap(err, "could not sign session token")
}

// ParseToken only verifies the signature. Claims expiry is not checked here so
// the session manager can report expired access tokens with a dedicated error.
func (m *manager) ParseToken(token string) (string, string, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return m.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil {
		return "", "", errors.Wrap(err, "could not parse session token")
	}

	return c.Subject, c.ID, nil
}

func (m *manager) Validate(token string) (*model.Session, error) {
	id, opaque, err := m.ParseToken(token)
	if err != nil {
		return nil, sperror.NewWithTagCode(
			http.StatusUnauthorized,
			"invalid-auth",
			"Invalid login credentials.",
		)
	}

	session, err := m.db.FindSessionByAccessToken(id, opaque)
	if err != nil {
		if m.db.IsNotFound(err) {
			return nil, sperror.NewWithTagCode(
				http.StatusUnauthorized,
				"invalid-auth",
				"Invalid login credentials.",
			)
		}
		return nil, errors.Wrap(err, "could not get access to database")
	}

	if m.isSessionExpired(session) {
		return nil, sperror.NewWithTagCode(http.StatusUnauthorized, "invalid-auth", "Invalid login credentials.")
	}

	if m.isAccessTokenExpired(session) {
		return nil, sperror.NewWithTagCode(sperror.StatusExpiredAccessToken, "expired-access-token", "The provided access token has expired.")
	}

	return session, nil
}

func (m *manager) AccessTokenExpireAt(session *model.Session) time.Time {
	return session.ExpireAt.Add(-m.refreshTokenExpirationTime).Add(m.accessTokenExpirationTime)
}

func (m *manager) Regenerate(session *model.Session) error {
	if m.isSessionExpired(session) {
		return sperror.NewWithTagCode(
			http.StatusBadRequest,
			"expired-refresh-token",
			"The refresh token has expired.",
		)
	}

	session.AccessToken = SecureToken(24)
	session.RefreshToken = SecureToken(24)
	session.ExpireAt = time.Now().Add(m.refreshTokenExpirationTime).UTC()

	return errors.Wrap(m.db.Save(session), "could not save session after refreshing session")
}

func (m *manager) UserFromSession(session *model.Session) (*model.User, error) {
	user, err := m.db.FindUser(session.UserID)
	if err != nil {
		if m.db.IsNotFound(err) {
			return nil, sperror.NewWithTagCode(http.StatusUnauthorized, "invalid-auth", "No such user for the given token.")
		}
		return nil, errors.Wrap(err, "could not get access to database")
	}
	return user, nil
}

func (m *manager) isSessionExpired(session *model.Session) bool {
	return session.ExpireAt.Before(time.Now())
}

func (m *manager) isAccessTokenExpired(session *model.Session) bool {
	return m.AccessTokenExpireAt(session).Before(time.Now())
}
