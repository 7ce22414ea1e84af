package server

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/surplusmkt/surplus/internal/database"
	"github.com/surplusmkt/surplus/internal/server/serializer"
	"github.com/surplusmkt/surplus/internal/sperror"
	"github.com/valyala/fastjson"
)

// profile contains all profile handlers.
type profile struct {
	db database.Client
}

///// Show
////
//

// Show returns the current user's profile, or 404 when it has never been saved.
func (h *profile) Show(c echo.Context) error {
	record, err := h.db.FindProfile(currentUser(c).ID)
	if err != nil {
		if h.db.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, sperror.NewWithTagCode(
				http.StatusNotFound,
				"not-found",
				"No profile saved yet.",
			))
		}
		return errors.Wrap(err, "could not get profile")
	}

	return c.JSON(http.StatusOK, serializer.Profile(record))
}

///// Update
////
//

// Update merges the fields present in the request body into the stored
// profile, creating it on first save. Absent fields keep their stored value so
// a save of one field never erases its siblings.
func (h *profile) Update(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, sperror.New("Could not get profile params."))
	}

	v, err := fastjson.ParseBytes(body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, sperror.New("Could not parse profile params."))
	}

	var patch database.ProfilePatch
	if v.Exists("username") {
		username := string(v.GetStringBytes("username"))
		patch.Username = &username
	}
	if v.Exists("contact") {
		contact := string(v.GetStringBytes("contact"))
		patch.Contact = &contact
	}
	if v.Exists("payment_id") {
		paymentID := string(v.GetStringBytes("payment_id"))
		patch.PaymentID = &paymentID
	}

	record, err := h.db.UpsertProfile(currentUser(c).ID, patch)
	if err != nil {
		return errors.Wrap(err, "could not save profile")
	}

	return c.JSON(http.StatusOK, serializer.Profile(record))
}
