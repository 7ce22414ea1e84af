package client

import (
	"context"

	"github.com/pkg/errors"
	"github.com/surplusmkt/surplus/internal/home"
	"github.com/surplusmkt/surplus/internal/model"
)

// A Collaborators adapts the REST client to the collaborators the home
// component works against.
type Collaborators struct {
	client Client
	cfg    Config
}

// NewCollaborators returns a new Collaborators bound to the given session.
func NewCollaborators(c Client, cfg Config) *Collaborators {
	return &Collaborators{client: c, cfg: cfg}
}

// CurrentIdentity returns the identity stored at login time.
func (c *Collaborators) CurrentIdentity() *home.Identity {
	if c.cfg.User.UUID == "" {
		return nil
	}

	return &home.Identity{
		ID:          c.cfg.User.UUID,
		Email:       c.cfg.User.Email,
		DisplayName: c.cfg.User.DisplayName,
	}
}

// SignOut terminates the session and removes the credential file.
func (c *Collaborators) SignOut() error {
	if err := c.client.Logout(); err != nil {
		return errors.Wrap(err, "could not logout")
	}

	return errors.Wrap(Remove(), "could not remove credential file")
}

// Profile returns the stored profile, or (nil, nil) when none exists yet.
func (c *Collaborators) Profile(_ context.Context) (*model.Profile, error) {
	return c.client.Profile()
}

// SaveProfile writes the full profile. The server merges it into the stored
// document, creating it on first save.
func (c *Collaborators) SaveProfile(_ context.Context, profile home.Profile) error {
	_, err := c.client.SaveProfile(profile.Username, profile.Contact, profile.PaymentID)
	return err
}

// CreateItem stores a new item and returns its id.
func (c *Collaborators) CreateItem(_ context.Context, form home.ItemForm) (string, error) {
	item, err := c.client.CreateItem(CreateItemParams{
		Name:        form.Name,
		Quantity:    form.Quantity,
		Price:       form.Price,
		Location:    form.Location,
		Description: form.Description,
	})
	if err != nil {
		return "", err
	}

	return item.ID, nil
}

// DeleteItem removes one item by id.
func (c *Collaborators) DeleteItem(_ context.Context, id string) error {
	return c.client.DeleteItem(id)
}

// SubscribeItems opens the live item stream in the background. The returned
// function tears the subscription down.
func (c *Collaborators) SubscribeItems(ctx context.Context, onChange func([]*model.Item), onError func(error)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		if err := StreamItems(ctx, c.client, onChange); err != nil {
			onError(err)
		}
	}()

	return cancel, nil
}
