package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/surplusmkt/surplus/internal/database"
	"github.com/surplusmkt/surplus/internal/model"
	"github.com/surplusmkt/surplus/internal/server/service"
	sessionpkg "github.com/surplusmkt/surplus/internal/server/session"
	"github.com/surplusmkt/surplus/internal/sperror"
)

type (
	// auth contains all authentication handlers.
	auth struct {
		db       database.Client
		sessions sessionpkg.Manager
	}

	refreshSessionParams struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
)

///// Register
////
//

// Register handler is used to register a user.
func (h *auth) Register(c echo.Context) error {
	// Filter params
	var params service.RegisterParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, sperror.New("Could not get user's params."))
	}
	params.UserAgent = c.Request().UserAgent()

	if params.Email == "" {
		return c.JSON(http.StatusUnauthorized, sperror.New("No email provided."))
	}
	if params.Password == "" {
		return c.JSON(http.StatusUnauthorized, sperror.New("No password provided."))
	}

	service := service.NewUser(h.db, h.sessions)
	register, err := service.Register(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, register)
}

///// Login
////
//

// Login authenticates a user and opens a session.
func (h *auth) Login(c echo.Context) error {
	// Filter params
	var params service.LoginParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, sperror.New("Could not get credentials."))
	}
	params.UserAgent = c.Request().UserAgent()

	if params.Email == "" || params.Password == "" {
		return c.JSON(http.StatusBadRequest, sperror.New("No email or password provided."))
	}

	service := service.NewUser(h.db, h.sessions)
	login, err := service.Login(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, login)
}

///// Logout
////
//

// Logout terminates the current session, or every session of the user with
// `?all=true`. The client is responsible for navigating back to its login
// view afterwards.
func (h *auth) Logout(c echo.Context) error {
	session := currentSession(c)
	if session == nil {
		return c.NoContent(http.StatusNoContent)
	}

	sessions := []*model.Session{session}
	if c.QueryParam("all") == "true" {
		var err error
		sessions, err = h.db.FindSessionsByUserID(session.UserID)
		if err != nil {
			return errors.Wrap(err, "could not get sessions")
		}
	}

	for _, session := range sessions {
		err := h.db.Delete(session)
		if err != nil && !h.db.IsNotFound(err) {
			return err
		}
	}

	return c.NoContent(http.StatusNoContent)
}

///// Refresh
////
//

// Refresh obtains a new pair of access token and refresh token.
func (h *auth) Refresh(c echo.Context) error {
	// Filter params
	var params refreshSessionParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, sperror.NewWithTagCode(
			http.StatusBadRequest,
			"invalid-parameters",
			"Invalid request body.",
		))
	}

	if params.AccessToken == "" || params.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, sperror.NewWithTagCode(
			http.StatusBadRequest,
			"invalid-parameters",
			"Please provide all required parameters.",
		))
	}

	sida, access, erra := h.sessions.ParseToken(params.AccessToken)
	sidr, refresh, errr := h.sessions.ParseToken(params.RefreshToken)
	if erra != nil || errr != nil || sida != sidr {
		return c.JSON(http.StatusBadRequest, sperror.NewWithTagCode(
			http.StatusBadRequest,
			"invalid-parameters",
			"The provided parameters are not valid.",
		))
	}

	// Retrieve session
	session, err := h.db.FindSession(sida)
	if err != nil {
		if h.db.IsNotFound(err) {
			return c.JSON(http.StatusBadRequest, sperror.NewWithTagCode(
				http.StatusBadRequest,
				"invalid-parameters",
				"The provided parameters are not valid.",
			))
		}
		return errors.Wrap(err, "could not get refresh session")
	}

	if !sessionpkg.SecureCompare(session.AccessToken, access) || !sessionpkg.SecureCompare(session.RefreshToken, refresh) {
		return c.JSON(http.StatusBadRequest, sperror.NewWithTagCode(
			http.StatusBadRequest,
			"invalid-parameters",
			"The provided parameters are not valid.",
		))
	}

	if err = h.sessions.Regenerate(session); err != nil {
		return err
	}

	accessToken, err := h.sessions.Token(session, sessionpkg.TypeAccessToken)
	if err != nil {
		return err
	}
	refreshToken, err := h.sessions.Token(session, sessionpkg.TypeRefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"session": echo.Map{
			"access_token":       accessToken,
			"refresh_token":      refreshToken,
			"access_expiration":  h.sessions.AccessTokenExpireAt(session),
			"refresh_expiration": session.ExpireAt,
		},
	})
}
