package home

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/surplusmkt/surplus/internal/model"
)

// A Home is the marketplace view: a live list of surplus items with search
// filters, an add-item modal, a description modal and a profile sidebar.
//
// It owns a single snapshot cell replaced wholesale by the subscription
// callback; every derived list is recomputed from it on demand. All state is
// guarded by one mutex since backend push callbacks arrive concurrently with
// user-triggered operations.
type Home struct {
	auth    Auth
	nav     Navigator
	backend Backend
	logger  logrus.FieldLogger

	mu       sync.RWMutex
	identity *Identity
	items    []*model.Item

	profile Profile // last saved values (or identity-seeded defaults)
	form    Profile // working copies while editing
	editing map[Field]bool

	itemForm      ItemForm
	nameQuery     string
	locationQuery string
	scopeToSelf   bool

	addModalOpen  bool
	descModalOpen bool
	description   string
	sidebarOpen   bool
	alert         string

	unsubscribe func()
}

// New returns a new Home component.
func New(auth Auth, nav Navigator, backend Backend, logger logrus.FieldLogger) *Home {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Home{
		auth:    auth,
		nav:     nav,
		backend: backend,
		logger:  logger,
		editing: make(map[Field]bool),
	}
}

// Mount loads the profile and opens the item subscription.
// The page is assumed reachable only post-authentication.
func (h *Home) Mount(ctx context.Context) {
	identity := h.auth.CurrentIdentity()

	h.mu.Lock()
	h.identity = identity
	if identity != nil {
		// Default username falls back to the identity until a profile is saved.
		username := identity.DisplayName
		if username == "" {
			username = identity.Email
		}
		h.profile = Profile{Username: username}
		h.form = h.profile
	}
	h.mu.Unlock()

	if identity != nil {
		h.loadProfile(ctx)
	}

	unsubscribe, err := h.backend.SubscribeItems(ctx, h.onSnapshot, h.onSubscriptionError)
	if err != nil {
		h.logger.WithError(err).Error("could not subscribe to items")
		return
	}

	h.mu.Lock()
	h.unsubscribe = unsubscribe
	h.mu.Unlock()
}

// Unmount tears the subscription down. It is safe to call more than once but
// the underlying unsubscribe runs exactly once.
func (h *Home) Unmount() {
	h.mu.Lock()
	unsubscribe := h.unsubscribe
	h.unsubscribe = nil
	h.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// LogOut signs out and navigates to the login view.
// On failure the error is logged and the current view stays.
func (h *Home) LogOut() {
	if err := h.auth.SignOut(); err != nil {
		h.logger.WithError(err).Error("could not sign out")
		return
	}
	h.nav.GoTo("/login")
}

// Identity returns the identity captured at mount time.
func (h *Home) Identity() *Identity {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.identity
}

func (h *Home) onSnapshot(items []*model.Item) {
	h.mu.Lock()
	h.items = items
	h.mu.Unlock()
}

func (h *Home) onSubscriptionError(err error) {
	h.logger.WithError(err).Error("items subscription failed")
}

///// Filter view
////
//

// SetNameQuery updates the inventory search query.
func (h *Home) SetNameQuery(q string) {
	h.mu.Lock()
	h.nameQuery = q
	h.mu.Unlock()
}

// SetLocationQuery updates the location search query.
func (h *Home) SetLocationQuery(q string) {
	h.mu.Lock()
	h.locationQuery = q
	h.mu.Unlock()
}

// ToggleScopeToSelf flips the "show my items only" switch and returns the new value.
func (h *Home) ToggleScopeToSelf() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scopeToSelf = !h.scopeToSelf
	return h.scopeToSelf
}

// Items derives the display list from the latest snapshot.
func (h *Home) Items() []*model.Item {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var identityID string
	if h.identity != nil {
		identityID = h.identity.ID
	}
	return Filter(h.items, h.nameQuery, h.locationQuery, h.scopeToSelf, identityID)
}

///// Item CRUD
////
//

// OpenAddModal shows the add-item form.
func (h *Home) OpenAddModal() {
	h.mu.Lock()
	h.addModalOpen = true
	h.mu.Unlock()
}

// CloseAddModal hides the add-item form and resets it.
func (h *Home) CloseAddModal() {
	h.mu.Lock()
	h.addModalOpen = false
	h.itemForm = ItemForm{}
	h.mu.Unlock()
}

// AddModalOpen reports whether the add-item form is shown.
func (h *Home) AddModalOpen() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.addModalOpen
}

// SetItemForm replaces the add-item form working copy.
func (h *Home) SetItemForm(form ItemForm) {
	h.mu.Lock()
	h.itemForm = form
	h.mu.Unlock()
}

// ItemForm returns the add-item form working copy.
func (h *Home) ItemForm() ItemForm {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.itemForm
}

// SubmitItem validates the profile preconditions and creates the item.
//
// When username or contact is missing the submission is blocked with an alert
// and no write is performed. On success the form is cleared and the modal
// closed; a backend failure is only logged.
func (h *Home) SubmitItem(ctx context.Context) {
	h.mu.Lock()
	profile := h.profile
	form := h.itemForm
	h.mu.Unlock()

	if profile.Username == "" || profile.Contact == "" {
		h.mu.Lock()
		h.alert = "Please fill your username and contact first in the sidebar."
		h.mu.Unlock()
		return
	}

	if _, err := h.backend.CreateItem(ctx, form); err != nil {
		h.logger.WithError(err).Error("could not add item")
		return
	}

	h.CloseAddModal()
}

// DeleteItem removes one item by id. Failures are only logged.
func (h *Home) DeleteItem(ctx context.Context, id string) {
	if err := h.backend.DeleteItem(ctx, id); err != nil {
		h.logger.WithError(err).Error("could not delete item")
	}
}

// DeleteAll deletes every item of the current snapshot, one request at a time.
// The loop aborts on the first failure: remaining items are left undeleted and
// no partial-failure report is produced. Ownership is not checked.
func (h *Home) DeleteAll(ctx context.Context) {
	h.mu.RLock()
	snapshot := make([]*model.Item, len(h.items))
	copy(snapshot, h.items)
	h.mu.RUnlock()

	for _, item := range snapshot {
		if err := h.backend.DeleteItem(ctx, item.ID); err != nil {
			h.logger.WithError(err).Error("could not delete items")
			return
		}
	}
}

///// Description modal
////
//

// ShowDescription opens the description modal for the given text.
func (h *Home) ShowDescription(text string) {
	h.mu.Lock()
	h.descModalOpen = true
	h.description = text
	h.mu.Unlock()
}

// CloseDescription hides the description modal.
func (h *Home) CloseDescription() {
	h.mu.Lock()
	h.descModalOpen = false
	h.description = ""
	h.mu.Unlock()
}

// Description returns the description modal content and visibility.
func (h *Home) Description() (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.description, h.descModalOpen
}

///// Alert
////
//

// Alert returns the pending blocking alert, if any.
func (h *Home) Alert() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.alert
}

// DismissAlert clears the pending alert.
func (h *Home) DismissAlert() {
	h.mu.Lock()
	h.alert = ""
	h.mu.Unlock()
}
