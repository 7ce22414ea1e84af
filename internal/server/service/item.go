package service

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/surplusmkt/surplus/internal/database"
	"github.com/surplusmkt/surplus/internal/model"
	"github.com/surplusmkt/surplus/internal/pubsub"
	"github.com/surplusmkt/surplus/internal/sperror"
)

type (
	// An ItemService handles the surplus items collection.
	ItemService interface {
		// Snapshot returns the complete current set of items.
		Snapshot() ([]*model.Item, error)
		// Create stores a new item for the given user.
		Create(user *model.User, params CreateItemParams) (*model.Item, error)
		// Delete removes the item with the given id.
		Delete(id string) error
	}

	// CreateItemParams are the item form fields.
	CreateItemParams struct {
		Params
		Name        string `json:"name"`
		Quantity    string `json:"quantity"`
		Price       string `json:"price"`
		Location    string `json:"location"`
		Description string `json:"description"`
	}

	itemService struct {
		db     database.Client
		pub    pubsub.Publisher
		logger logrus.FieldLogger
	}
)

// NewItem returns a new ItemService.
func NewItem(db database.Client, pub pubsub.Publisher, logger logrus.FieldLogger) ItemService {
	return &itemService{
		db:     db,
		pub:    pub,
		logger: logger,
	}
}

func (s *itemService) Snapshot() ([]*model.Item, error) {
	return s.db.FindItems()
}

// Create stores a new item. The creator's profile must already hold a username
// and a contact; those fields plus the payment id are denormalized onto the
// item at creation time and never rewritten afterwards.
func (s *itemService) Create(user *model.User, params CreateItemParams) (*model.Item, error) {
	if params.Name == "" || params.Quantity == "" || params.Price == "" {
		return nil, sperror.NewWithTagCode(http.StatusBadRequest, "invalid-item", "Name, quantity and price are required.")
	}

	profile, err := s.db.FindProfile(user.ID)
	if err != nil && !s.db.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not get access to database")
	}
	if profile == nil || profile.Username == "" || profile.Contact == "" {
		return nil, sperror.NewWithTagCode(
			http.StatusUnprocessableEntity,
			"profile-incomplete",
			"Please fill your username and contact first.",
		)
	}

	item := &model.Item{
		UserID:      user.ID,
		Name:        params.Name,
		Quantity:    params.Quantity,
		Price:       params.Price,
		Location:    params.Location,
		Description: params.Description,
		Username:    profile.Username,
		Contact:     profile.Contact,
		PaymentID:   profile.PaymentID,
	}

	if err = s.db.Save(item); err != nil {
		return nil, errors.Wrap(err, "could not persist item")
	}

	s.publish()
	return item, nil
}

// Delete removes an item by id. Ownership is gated by the client UI only;
// the operation itself does not re-verify it.
func (s *itemService) Delete(id string) error {
	if err := s.db.DeleteItem(id); err != nil {
		return errors.Wrap(err, "could not delete item")
	}

	s.publish()
	return nil
}

// publish pushes a fresh snapshot of the whole collection to the subscribers.
func (s *itemService) publish() {
	snapshot, err := s.db.FindItems()
	if err != nil {
		s.logger.WithError(err).Error("could not load snapshot for publication")
		return
	}
	s.pub.Publish(snapshot)
}
