package home_test

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/surplusmkt/surplus/internal/home"
	"github.com/surplusmkt/surplus/internal/model"
)

type fakeAuth struct {
	identity   *home.Identity
	signOutErr error
	signedOut  int
}

func (a *fakeAuth) CurrentIdentity() *home.Identity {
	return a.identity
}

func (a *fakeAuth) SignOut() error {
	a.signedOut++
	return a.signOutErr
}

type fakeNavigator struct {
	paths []string
}

func (n *fakeNavigator) GoTo(path string) {
	n.paths = append(n.paths, path)
}

type fakeBackend struct {
	mu sync.Mutex

	profile    *model.Profile
	profileErr error

	saveErr error
	saved   []home.Profile

	createErr error
	created   []home.ItemForm

	deleteErr map[string]error
	deleted   []string

	onChange     func([]*model.Item)
	unsubscribed int
}

func (b *fakeBackend) Profile(context.Context) (*model.Profile, error) {
	return b.profile, b.profileErr
}

func (b *fakeBackend) SaveProfile(_ context.Context, profile home.Profile) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.saveErr != nil {
		return b.saveErr
	}
	b.saved = append(b.saved, profile)
	return nil
}

func (b *fakeBackend) CreateItem(_ context.Context, form home.ItemForm) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.createErr != nil {
		return "", b.createErr
	}
	b.created = append(b.created, form)
	return "some-uuid", nil
}

func (b *fakeBackend) DeleteItem(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.deleteErr[id]; err != nil {
		return err
	}
	b.deleted = append(b.deleted, id)
	return nil
}

func (b *fakeBackend) SubscribeItems(_ context.Context, onChange func([]*model.Item), _ func(error)) (func(), error) {
	b.onChange = onChange
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.unsubscribed++
	}, nil
}

func (b *fakeBackend) push(items ...*model.Item) {
	b.onChange(items)
}

func discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func item(id, userID, name string) *model.Item {
	i := &model.Item{UserID: userID, Name: name}
	i.ID = id
	return i
}

func setupHome(backend *fakeBackend) (*home.Home, *fakeAuth, *fakeNavigator) {
	auth := &fakeAuth{identity: &home.Identity{ID: "alice-uuid", Email: "alice@x.com", DisplayName: "Alice"}}
	nav := &fakeNavigator{}

	h := home.New(auth, nav, backend, discard())
	h.Mount(context.Background())
	return h, auth, nav
}

func TestHomeMountSeedsProfileDefaults(t *testing.T) {
	h, _, _ := setupHome(&fakeBackend{})
	defer h.Unmount()

	// No stored profile: username falls back to the identity's display name.
	assert.Equal(t, home.Profile{Username: "Alice"}, h.Profile())
}

func TestHomeMountFallsBackToEmail(t *testing.T) {
	backend := &fakeBackend{}
	auth := &fakeAuth{identity: &home.Identity{ID: "alice-uuid", Email: "alice@x.com"}}
	h := home.New(auth, &fakeNavigator{}, backend, discard())
	h.Mount(context.Background())
	defer h.Unmount()

	assert.Equal(t, "alice@x.com", h.Profile().Username)
}

func TestHomeMountLoadsStoredProfile(t *testing.T) {
	profile := &model.Profile{Username: "al", Contact: "al@x.com", PaymentID: "al@upi"}
	h, _, _ := setupHome(&fakeBackend{profile: profile})
	defer h.Unmount()

	assert.Equal(t, home.Profile{Username: "al", Contact: "al@x.com", PaymentID: "al@upi"}, h.Profile())
	assert.Equal(t, h.Profile(), h.ProfileForm())
}

func TestHomeMountKeepsDefaultsOnProfileError(t *testing.T) {
	h, _, _ := setupHome(&fakeBackend{profileErr: errors.New("boom")})
	defer h.Unmount()

	assert.Equal(t, home.Profile{Username: "Alice"}, h.Profile())
}

func TestHomeSnapshotReplacesState(t *testing.T) {
	backend := &fakeBackend{}
	h, _, _ := setupHome(backend)
	defer h.Unmount()

	assert.Empty(t, h.Items())

	backend.push(item("1", "alice-uuid", "Chairs"), item("2", "bob-uuid", "Tables"))
	assert.Len(t, h.Items(), 2)

	// Every event replaces the whole snapshot, no incremental patching.
	backend.push(item("2", "bob-uuid", "Tables"))
	items := h.Items()
	assert.Len(t, items, 1)
	assert.Equal(t, "Tables", items[0].Name)
}

func TestHomeUnmountUnsubscribesExactlyOnce(t *testing.T) {
	backend := &fakeBackend{}
	h, _, _ := setupHome(backend)

	h.Unmount()
	h.Unmount()
	assert.Equal(t, 1, backend.unsubscribed)
}

func TestHomeItemsAppliesFilters(t *testing.T) {
	backend := &fakeBackend{}
	h, _, _ := setupHome(backend)
	defer h.Unmount()

	backend.push(
		item("1", "alice-uuid", "Chairs"),
		item("2", "bob-uuid", "Chalkboards"),
		item("3", "bob-uuid", "Tables"),
	)

	h.SetNameQuery("cha")
	assert.Len(t, h.Items(), 2)

	h.ToggleScopeToSelf()
	items := h.Items()
	assert.Len(t, items, 1)
	assert.Equal(t, "Chairs", items[0].Name)
}

func TestHomeSubmitItemBlockedWithoutProfile(t *testing.T) {
	backend := &fakeBackend{}
	auth := &fakeAuth{identity: &home.Identity{ID: "alice-uuid", Email: "alice@x.com"}}
	h := home.New(auth, &fakeNavigator{}, backend, discard())
	h.Mount(context.Background())
	defer h.Unmount()

	// Email-seeded username but no contact: the submission must be blocked
	// with an alert and perform zero writes.
	h.OpenAddModal()
	h.SetItemForm(home.ItemForm{Name: "Chairs", Quantity: "10", Price: "5.00"})
	h.SubmitItem(context.Background())

	assert.NotEmpty(t, h.Alert())
	assert.Empty(t, backend.created)
	assert.True(t, h.AddModalOpen())
	assert.Empty(t, h.Items())

	// Save the missing fields then resubmit the same form.
	h.DismissAlert()
	h.SetField(home.FieldUsername, "alice")
	h.SaveField(context.Background(), home.FieldUsername)
	h.SetField(home.FieldContact, "alice@x.com")
	h.SaveField(context.Background(), home.FieldContact)

	h.SubmitItem(context.Background())
	assert.Empty(t, h.Alert())
	assert.Len(t, backend.created, 1)
	assert.Equal(t, "Chairs", backend.created[0].Name)
	assert.False(t, h.AddModalOpen())
	assert.Equal(t, home.ItemForm{}, h.ItemForm())
}

func TestHomeSubmitItemBackendFailureOnlyLogs(t *testing.T) {
	backend := &fakeBackend{
		profile:   &model.Profile{Username: "alice", Contact: "alice@x.com"},
		createErr: errors.New("boom"),
	}
	h, _, _ := setupHome(backend)
	defer h.Unmount()

	h.OpenAddModal()
	h.SetItemForm(home.ItemForm{Name: "Chairs", Quantity: "10", Price: "5.00"})
	h.SubmitItem(context.Background())

	// The modal stays open with the form intact, no alert is raised.
	assert.Empty(t, h.Alert())
	assert.True(t, h.AddModalOpen())
	assert.Equal(t, "Chairs", h.ItemForm().Name)
}

func TestHomeSaveFieldCommitsAndExitsEditMode(t *testing.T) {
	backend := &fakeBackend{profile: &model.Profile{Username: "alice", Contact: "old@x.com", PaymentID: "alice@upi"}}
	h, _, _ := setupHome(backend)
	defer h.Unmount()

	h.BeginEdit(home.FieldContact)
	assert.True(t, h.Editing(home.FieldContact))

	h.SetField(home.FieldContact, "new@x.com")
	h.SaveField(context.Background(), home.FieldContact)

	assert.False(t, h.Editing(home.FieldContact))
	assert.Equal(t, "new@x.com", h.Profile().Contact)
	// Sibling fields are untouched.
	assert.Equal(t, "alice", h.Profile().Username)
	assert.Equal(t, "alice@upi", h.Profile().PaymentID)

	// The write carried the whole merged profile.
	assert.Len(t, backend.saved, 1)
	assert.Equal(t, home.Profile{Username: "alice", Contact: "new@x.com", PaymentID: "alice@upi"}, backend.saved[0])
}

func TestHomeSaveFieldFailureStillExitsEditMode(t *testing.T) {
	backend := &fakeBackend{
		profile: &model.Profile{Username: "alice", Contact: "old@x.com"},
		saveErr: errors.New("boom"),
	}
	h, _, _ := setupHome(backend)
	defer h.Unmount()

	h.BeginEdit(home.FieldContact)
	h.SetField(home.FieldContact, "new@x.com")
	h.SaveField(context.Background(), home.FieldContact)

	// The field closes as if saved even though the write failed.
	assert.False(t, h.Editing(home.FieldContact))
	assert.Equal(t, "old@x.com", h.Profile().Contact)
}

func TestHomeCancelEditRestoresLastSavedValue(t *testing.T) {
	backend := &fakeBackend{profile: &model.Profile{Username: "alice", Contact: "old@x.com"}}
	h, _, _ := setupHome(backend)
	defer h.Unmount()

	h.BeginEdit(home.FieldContact)
	h.SetField(home.FieldContact, "draft@x.com")
	h.CancelEdit(home.FieldContact)

	assert.False(t, h.Editing(home.FieldContact))
	assert.Equal(t, "old@x.com", h.ProfileForm().Contact)
}

func TestHomeDeleteAllAbortsOnFirstFailure(t *testing.T) {
	backend := &fakeBackend{
		deleteErr: map[string]error{"2": errors.New("boom")},
	}
	h, _, _ := setupHome(backend)
	defer h.Unmount()

	backend.push(
		item("1", "alice-uuid", "Chairs"),
		item("2", "bob-uuid", "Tables"),
		item("3", "bob-uuid", "Lamps"),
	)

	h.DeleteAll(context.Background())

	// Exactly one delete went through, the failure aborted the loop.
	assert.Equal(t, []string{"1"}, backend.deleted)
}

func TestHomeLogOut(t *testing.T) {
	h, auth, nav := setupHome(&fakeBackend{})
	defer h.Unmount()

	h.LogOut()
	assert.Equal(t, 1, auth.signedOut)
	assert.Equal(t, []string{"/login"}, nav.paths)
}

func TestHomeLogOutFailureStays(t *testing.T) {
	backend := &fakeBackend{}
	auth := &fakeAuth{
		identity:   &home.Identity{ID: "alice-uuid", Email: "alice@x.com"},
		signOutErr: errors.New("boom"),
	}
	nav := &fakeNavigator{}
	h := home.New(auth, nav, backend, discard())
	h.Mount(context.Background())
	defer h.Unmount()

	h.LogOut()
	assert.Empty(t, nav.paths)
}

func TestHomeDescriptionModal(t *testing.T) {
	h, _, _ := setupHome(&fakeBackend{})
	defer h.Unmount()

	text, open := h.Description()
	assert.False(t, open)
	assert.Empty(t, text)

	h.ShowDescription("Hardly used office chairs.")
	text, open = h.Description()
	assert.True(t, open)
	assert.Equal(t, "Hardly used office chairs.", text)

	h.CloseDescription()
	_, open = h.Description()
	assert.False(t, open)
}

func TestHomeSidebarToggle(t *testing.T) {
	h, _, _ := setupHome(&fakeBackend{})
	defer h.Unmount()

	assert.False(t, h.SidebarOpen())
	assert.True(t, h.ToggleSidebar())
	assert.False(t, h.ToggleSidebar())
}
