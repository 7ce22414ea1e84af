package home

import (
	"context"

	"github.com/surplusmkt/surplus/internal/model"
)

type (
	// An Identity is the authenticated user as seen by the Home component.
	Identity struct {
		ID          string
		Email       string
		DisplayName string
	}

	// An Auth collaborator exposes the current identity and sign-out.
	Auth interface {
		// CurrentIdentity returns the active identity, or nil.
		CurrentIdentity() *Identity
		// SignOut terminates the current session.
		SignOut() error
	}

	// A Navigator collaborator switches the active view.
	Navigator interface {
		GoTo(path string)
	}

	// A Backend collaborator is the document database the component delegates
	// persistence and real-time sync to.
	Backend interface {
		// Profile returns the stored profile of the current identity,
		// or (nil, nil) when none has been saved yet.
		Profile(ctx context.Context) (*model.Profile, error)
		// SaveProfile writes the given profile with upsert-with-merge
		// semantics: the document is created if absent and unrelated stored
		// fields are never cleared.
		SaveProfile(ctx context.Context, profile Profile) error
		// CreateItem stores a new item and returns its backend-assigned id.
		CreateItem(ctx context.Context, form ItemForm) (string, error)
		// DeleteItem removes one item by id.
		DeleteItem(ctx context.Context, id string) error
		// SubscribeItems opens a live subscription to the items collection.
		// Every event delivers the complete current snapshot to onChange.
		// The returned function tears the subscription down.
		SubscribeItems(ctx context.Context, onChange func([]*model.Item), onError func(error)) (unsubscribe func(), err error)
	}

	// A Profile is the component's local copy of the seller details.
	Profile struct {
		Username  string
		Contact   string
		PaymentID string
	}

	// An ItemForm holds the add-item form fields.
	ItemForm struct {
		Name        string
		Quantity    string
		Price       string
		Location    string
		Description string
	}
)

// A Field designates one editable profile field.
type Field string

// Editable profile fields.
const (
	FieldUsername  Field = "username"
	FieldContact   Field = "contact"
	FieldPaymentID Field = "payment_id"
)

func (p *Profile) get(f Field) string {
	switch f {
	case FieldUsername:
		return p.Username
	case FieldContact:
		return p.Contact
	case FieldPaymentID:
		return p.PaymentID
	}
	return ""
}

func (p *Profile) set(f Field, value string) {
	switch f {
	case FieldUsername:
		p.Username = value
	case FieldContact:
		p.Contact = value
	case FieldPaymentID:
		p.PaymentID = value
	}
}
