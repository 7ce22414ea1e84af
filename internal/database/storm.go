package database

import (
	"time"

	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/codec/msgpack"
	"github.com/asdine/storm/v3/q"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/surplusmkt/surplus/internal/model"
)

type strm struct {
	db *storm.DB
}

// StormCodec is the format used to store data in the database.
var StormCodec = storm.Codec(msgpack.Codec)

// StormInit initializes Storm database.
func StormInit(database string) error {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return errors.Wrap(err, "could not get database connection")
	}
	defer db.Close()

	if err := db.Init(&model.User{}); err != nil {
		return errors.Wrap(err, "could not init user index")
	}

	if err := db.Init(&model.Profile{}); err != nil {
		return errors.Wrap(err, "could not init profile index")
	}

	err = db.Init(&model.Item{})
	return errors.Wrap(err, "could not init item index")
}

// StormReIndex reindex Storm database.
func StormReIndex(database string) error {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return errors.Wrap(err, "could not get database connection")
	}
	defer db.Close()

	if err := db.ReIndex(&model.User{}); err != nil {
		return errors.Wrap(err, "could not ReIndex users")
	}

	if err := db.ReIndex(&model.Profile{}); err != nil {
		return errors.Wrap(err, "could not ReIndex profiles")
	}

	err = db.ReIndex(&model.Item{})
	return errors.Wrap(err, "could not ReIndex items")
}

// StormOpen returns a new Storm database connection.
func StormOpen(database string) (Client, error) {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return nil, errors.Wrap(err, "could not get database connection")
	}

	return &strm{
		db: db,
	}, nil
}

// Save inserts or updates the entry in database with the given model.
func (c *strm) Save(m model.Model) error {
	t := time.Now().UTC()
	m.SetUpdatedAt(t)

	if m.GetID() == "" {
		m.SetID(uuid.Must(uuid.NewV4()).String())
		m.SetCreatedAt(t)
	}

	return errors.Wrap(c.db.Save(m), "could not save the model")
}

// Delete deletes the entry in database with the given model.
func (c *strm) Delete(m model.Model) error {
	return errors.Wrap(c.db.DeleteStruct(m), "could not delete the model")
}

// Close the database.
func (c *strm) Close() error {
	return c.db.Close()
}

// IsNotFound returns true if err is a not found error.
func (c *strm) IsNotFound(err error) bool {
	return errors.Cause(err) == storm.ErrNotFound
}

// IsAlreadyExists returns true if err is an already exists error.
func (c *strm) IsAlreadyExists(err error) bool {
	return errors.Cause(err) == storm.ErrAlreadyExists
}

// FindUser returns the user for the given id (UUID).
func (c *strm) FindUser(id string) (*model.User, error) {
	var user model.User
	if err := c.db.One("ID", id, &user); err != nil {
		return nil, errors.Wrap(err, "find user by id")
	}
	return &user, nil
}

// FindUserByMail returns the user for the given email.
func (c *strm) FindUserByMail(email string) (*model.User, error) {
	var user model.User
	if err := c.db.One("Email", email, &user); err != nil {
		return nil, errors.Wrap(err, "find user by mail")
	}
	return &user, nil
}

// FindSession returns the session for the given id (UUID).
func (c *strm) FindSession(id string) (*model.Session, error) {
	var session model.Session
	if err := c.db.One("ID", id, &session); err != nil {
		return nil, errors.Wrap(err, "find session by id")
	}
	return &session, nil
}

// FindSessionByAccessToken returns the session for the given id and access token.
func (c *strm) FindSessionByAccessToken(id, token string) (*model.Session, error) {
	var session model.Session
	err := c.db.Select(q.Eq("ID", id), q.Eq("AccessToken", token)).First(&session)
	if err != nil {
		return nil, errors.Wrap(err, "find session by access token")
	}
	return &session, nil
}

// FindSessionsByUserID returns all the sessions for the given user id.
func (c *strm) FindSessionsByUserID(userID string) ([]*model.Session, error) {
	sessions := make([]*model.Session, 0)
	err := c.db.Select(q.Eq("UserID", userID)).OrderBy("CreatedAt").Find(&sessions)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find sessions by user id")
	}
	return sessions, nil
}

// FindProfile returns the profile owned by the given user id (UUID).
// A profile's ID is its owner's ID.
func (c *strm) FindProfile(userID string) (*model.Profile, error) {
	var profile model.Profile
	if err := c.db.One("ID", userID, &profile); err != nil {
		return nil, errors.Wrap(err, "find profile by user id")
	}
	return &profile, nil
}

// UpsertProfile merges the non-nil fields of the patch into the stored profile
// of the given user. The record is created on first save so fields absent from
// the patch keep their stored value rather than being cleared.
func (c *strm) UpsertProfile(userID string, patch ProfilePatch) (*model.Profile, error) {
	profile, err := c.FindProfile(userID)
	if err != nil {
		if !c.IsNotFound(err) {
			return nil, err
		}
		profile = &model.Profile{}
		profile.SetID(userID)
		profile.SetCreatedAt(time.Now().UTC())
	}

	if patch.Username != nil {
		profile.Username = *patch.Username
	}
	if patch.Contact != nil {
		profile.Contact = *patch.Contact
	}
	if patch.PaymentID != nil {
		profile.PaymentID = *patch.PaymentID
	}

	profile.SetUpdatedAt(time.Now().UTC())
	if err := c.db.Save(profile); err != nil {
		return nil, errors.Wrap(err, "could not save the profile")
	}
	return profile, nil
}

// FindItem returns the item for the given id (UUID).
func (c *strm) FindItem(id string) (*model.Item, error) {
	var item model.Item
	if err := c.db.One("ID", id, &item); err != nil {
		return nil, errors.Wrap(err, "could not find item")
	}
	return &item, nil
}

// FindItems returns the complete current snapshot of the items collection.
// Ordering follows the CreatedAt index but consumers must not rely on it.
func (c *strm) FindItems() ([]*model.Item, error) {
	items := make([]*model.Item, 0)
	err := c.db.AllByIndex("CreatedAt", &items)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find items")
	}
	return items, nil
}

// DeleteItem deletes the item with the given id.
func (c *strm) DeleteItem(id string) error {
	err := c.db.Select(q.Eq("ID", id)).Delete(&model.Item{})
	return errors.Wrap(err, "could not delete item")
}
