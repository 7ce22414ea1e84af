package service

import (
	"net/http"

	argon2 "github.com/mdouchement/simple-argon2"
	"github.com/pkg/errors"
	"github.com/surplusmkt/surplus/internal/database"
	"github.com/surplusmkt/surplus/internal/model"
	"github.com/surplusmkt/surplus/internal/server/serializer"
	"github.com/surplusmkt/surplus/internal/server/session"
	"github.com/surplusmkt/surplus/internal/sperror"
)

type (
	// A UserService handles registration and authentication.
	UserService interface {
		Register(params RegisterParams) (Render, error)
		Login(params LoginParams) (Render, error)
	}

	// RegisterParams are used to register a user.
	RegisterParams struct {
		Params
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	}

	// LoginParams are used to login a user.
	LoginParams struct {
		Params
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	userService struct {
		db       database.Client
		sessions session.Manager
	}
)

// NewUser returns a new UserService.
func NewUser(db database.Client, sessions session.Manager) UserService {
	return &userService{
		db:       db,
		sessions: sessions,
	}
}

func (s *userService) Register(params RegisterParams) (Render, error) {
	// Check if the email is free to use.
	u, err := s.db.FindUserByMail(params.Email)
	if err != nil && !s.db.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not get access to database")
	}
	if u != nil {
		return nil, sperror.NewWithTagCode(http.StatusUnauthorized, "email-taken", "This email is already registered.")
	}

	user := &model.User{
		Email:       params.Email,
		DisplayName: params.DisplayName,
	}

	user.Password, err = argon2.GenerateFromPasswordString(params.Password, argon2.Default)
	if err != nil {
		return nil, errors.Wrap(err, "could not store user password safe")
	}

	if err = s.db.Save(user); err != nil {
		// The unique index catches registrations racing on the same email.
		if s.db.IsAlreadyExists(err) {
			return nil, sperror.NewWithTagCode(http.StatusUnauthorized, "email-taken", "This email is already registered.")
		}
		return nil, errors.Wrap(err, "could not persist user")
	}

	return s.render(user, params.UserAgent)
}

func (s *userService) Login(params LoginParams) (Render, error) {
	user, err := s.db.FindUserByMail(params.Email)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, sperror.NewWithTagCode(http.StatusUnauthorized, "invalid-auth", "Invalid email or password.")
		}
		return nil, errors.Wrap(err, "could not get access to database")
	}

	if err = argon2.CompareHashAndPasswordString(user.Password, params.Password); err != nil {
		if err == argon2.ErrMismatchedHashAndPassword {
			return nil, sperror.NewWithTagCode(http.StatusUnauthorized, "invalid-auth", "Invalid email or password.")
		}
		return nil, errors.Wrap(err, "could not validate user password")
	}

	return s.render(user, params.UserAgent)
}

// render opens a fresh session for the user and renders the payload expected
// by the client after both register and sign-in.
func (s *userService) render(user *model.User, userAgent string) (Render, error) {
	sess := s.sessions.Generate()
	sess.UserID = user.ID
	sess.UserAgent = userAgent

	if err := s.db.Save(sess); err != nil {
		return nil, errors.Wrap(err, "could not persist session")
	}

	access, err := s.sessions.Token(sess, session.TypeAccessToken)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sessions.Token(sess, session.TypeRefreshToken)
	if err != nil {
		return nil, err
	}

	return M{
		"user": serializer.User(user),
		"session": M{
			"access_token":       access,
			"refresh_token":      refresh,
			"access_expiration":  s.sessions.AccessTokenExpireAt(sess),
			"refresh_expiration": sess.ExpireAt,
		},
	}, nil
}
