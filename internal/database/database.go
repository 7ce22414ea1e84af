package database

import (
	"github.com/surplusmkt/surplus/internal/model"
)

type (
	// A Client can interacts with the database.
	Client interface {
		// Save inserts or updates the entry in database with the given model.
		Save(m model.Model) error
		// Delete deletes the entry in database with the given model.
		Delete(m model.Model) error
		// Close the database.
		Close() error
		// IsNotFound returns true if err is a not found error.
		IsNotFound(err error) bool
		// IsAlreadyExists returns true if err is an already exists error.
		IsAlreadyExists(err error) bool

		UserInteraction
		SessionInteraction
		ProfileInteraction
		ItemInteraction
	}

	// An UserInteraction defines all the methods used to interact with a user record.
	UserInteraction interface {
		// FindUser returns the user for the given id (UUID).
		FindUser(id string) (*model.User, error)
		// FindUserByMail returns the user for the given email.
		FindUserByMail(email string) (*model.User, error)
	}

	// An SessionInteraction defines all the methods used to interact with a session record.
	SessionInteraction interface {
		// FindSession returns the session for the given id (UUID).
		FindSession(id string) (*model.Session, error)
		// FindSessionByAccessToken returns the session for the given id and access token.
		FindSessionByAccessToken(id, token string) (*model.Session, error)
		// FindSessionsByUserID returns all sessions for the given user id.
		FindSessionsByUserID(userID string) ([]*model.Session, error)
	}

	// A ProfileInteraction defines all the methods used to interact with a profile record.
	ProfileInteraction interface {
		// FindProfile returns the profile owned by the given user id (UUID).
		FindProfile(userID string) (*model.Profile, error)
		// UpsertProfile merges the non-nil fields of the patch into the stored
		// profile of the given user, creating the record if it does not exist.
		// Fields absent from the patch are left untouched.
		UpsertProfile(userID string, patch ProfilePatch) (*model.Profile, error)
	}

	// A ProfilePatch carries the profile fields to merge.
	// A nil field means "keep the stored value".
	ProfilePatch struct {
		Username  *string
		Contact   *string
		PaymentID *string
	}

	// An ItemInteraction defines all the methods used to interact with item record(s).
	ItemInteraction interface {
		// FindItem returns the item for the given id (UUID).
		FindItem(id string) (*model.Item, error)
		// FindItems returns the complete current snapshot of the items collection.
		FindItems() ([]*model.Item, error)
		// DeleteItem deletes the item with the given id.
		DeleteItem(id string) error
	}
)
