package server_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/appleboy/gofight/v2"
	"github.com/stretchr/testify/assert"
)

type itemPayload struct {
	UUID      string `json:"uuid"`
	UserUUID  string `json:"user_uuid"`
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	Price     string `json:"price"`
	Location  string `json:"location"`
	Username  string `json:"username"`
	Contact   string `json:"contact"`
	PaymentID string `json:"payment_id"`
}

type itemsPayload struct {
	Items []itemPayload `json:"items"`
}

func TestRequestItemCreateRequiresProfile(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()

	_, session := createUserWithSession(ctrl, "george.abitbol@nowhere.lan")
	header := authHeader(ctrl, session)

	r.POST("/items").SetHeader(header).SetJSON(gofight.D{
		"name":     "Chairs",
		"quantity": "10",
		"price":    "5.00",
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnprocessableEntity, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"profile-incomplete","message":"Please fill your username and contact first."}}`, r.Body.String())
	})

	// The blocked creation performed zero writes.
	items, err := ctrl.Database.FindItems()
	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestRequestItemCreateDenormalizesProfile(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()

	user, session := createUserWithSession(ctrl, "alice@nowhere.lan")
	header := authHeader(ctrl, session)
	saveProfile(ctrl, user, "alice", "alice@x.com", "alice@upi")

	var created itemPayload
	r.POST("/items").SetHeader(header).SetJSON(gofight.D{
		"name":     "Chairs",
		"quantity": "10",
		"price":    "5.00",
		"location": "USA, California, San Francisco",
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusCreated, r.Code)
		assert.NoError(t, json.Unmarshal(r.Body.Bytes(), &created))

		assert.NotEmpty(t, created.UUID)
		assert.Equal(t, user.ID, created.UserUUID)
		assert.Equal(t, "alice", created.Username)
		assert.Equal(t, "alice@x.com", created.Contact)
		assert.Equal(t, "alice@upi", created.PaymentID)
	})

	// The profile is a creation-time snapshot: later profile changes must not
	// rewrite the stored item.
	saveProfile(ctrl, user, "alice-renamed", "alice@x.com", "alice@upi")

	item, err := ctrl.Database.FindItem(created.UUID)
	assert.NoError(t, err)
	assert.Equal(t, "alice", item.Username)
}

func TestRequestItemCreateValidatesForm(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()

	user, session := createUserWithSession(ctrl, "alice@nowhere.lan")
	header := authHeader(ctrl, session)
	saveProfile(ctrl, user, "alice", "alice@x.com", "")

	r.POST("/items").SetHeader(header).SetJSON(gofight.D{
		"name": "Chairs",
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"invalid-item","message":"Name, quantity and price are required."}}`, r.Body.String())
	})
}

func TestRequestItemList(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()

	user, session := createUserWithSession(ctrl, "alice@nowhere.lan")
	header := authHeader(ctrl, session)
	saveProfile(ctrl, user, "alice", "alice@x.com", "")

	r.GET("/items").SetHeader(header).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.JSONEq(t, `{"items":[]}`, r.Body.String())
	})

	for _, name := range []string{"Chairs", "Tables"} {
		r.POST("/items").SetHeader(header).SetJSON(gofight.D{
			"name":     name,
			"quantity": "1",
			"price":    "10",
		}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusCreated, r.Code)
		})
	}

	r.GET("/items").SetHeader(header).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		var v itemsPayload
		assert.NoError(t, json.Unmarshal(r.Body.Bytes(), &v))
		assert.Len(t, v.Items, 2)
	})
}

func TestRequestItemDelete(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()

	alice, session := createUserWithSession(ctrl, "alice@nowhere.lan")
	header := authHeader(ctrl, session)
	saveProfile(ctrl, alice, "alice", "alice@x.com", "")

	var created itemPayload
	r.POST("/items").SetHeader(header).SetJSON(gofight.D{
		"name":     "Chairs",
		"quantity": "1",
		"price":    "10",
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.NoError(t, json.Unmarshal(r.Body.Bytes(), &created))
	})

	// Any authenticated identity can delete any item: the client only offers
	// the control to the owner, the operation does not re-verify ownership.
	_, bobSession := createUserWithSession(ctrl, "bob@nowhere.lan")
	r.DELETE("/items/"+created.UUID).SetHeader(authHeader(ctrl, bobSession)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusNoContent, r.Code)
	})

	items, err := ctrl.Database.FindItems()
	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestRequestItemStream(t *testing.T) {
	engine, ctrl, _, cleanup := setup()
	defer cleanup()

	user, session := createUserWithSession(ctrl, "alice@nowhere.lan")
	saveProfile(ctrl, user, "alice", "alice@x.com", "")

	ts := httptest.NewServer(engine)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/items/stream", nil)
	assert.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+accessToken(ctrl, session))

	res, err := ts.Client().Do(req)
	assert.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/event-stream")

	scanner := bufio.NewScanner(res.Body)
	events := make(chan string, 2)
	go func() {
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, "data: ") {
				events <- strings.TrimPrefix(line, "data: ")
			}
		}
	}()

	// The first event carries the current (empty) snapshot.
	select {
	case event := <-events:
		assert.JSONEq(t, `{"items":[]}`, event)
	case <-ctx.Done():
		t.Fatal("no initial snapshot received")
	}

	// A mutation pushes a fresh snapshot.
	gofight.New().POST("/items").SetHeader(gofight.H{
		"Authorization": "Bearer " + accessToken(ctrl, session),
	}).SetJSON(gofight.D{
		"name":     "Chairs",
		"quantity": "1",
		"price":    "10",
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusCreated, r.Code)
	})

	select {
	case event := <-events:
		var v itemsPayload
		assert.NoError(t, json.Unmarshal([]byte(event), &v))
		assert.Len(t, v.Items, 1)
		assert.Equal(t, "Chairs", v.Items[0].Name)
	case <-ctx.Done():
		t.Fatal("no snapshot received after mutation")
	}
}
