package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"

	"github.com/pkg/errors"
	"github.com/surplusmkt/surplus/internal/model"
)

type (
	// A Client defines all interactions that can be performed on a Surplus server.
	Client interface {
		// Register creates a new account and opens its first session.
		Register(email, password, displayName string) (*model.User, *Session, error)
		// Login connects the Client to the Surplus server.
		Login(email, password string) (*model.User, *Session, error)
		// Logout terminates the current session.
		Logout() error
		// RefreshSession gets a new pair of tokens by refreshing the session.
		RefreshSession(access, refresh string) (*Session, error)
		// Profile returns the stored profile of the current user.
		// It returns (nil, nil) when no profile has been saved yet.
		Profile() (*model.Profile, error)
		// SaveProfile merges the given fields into the stored profile,
		// creating it on first save.
		SaveProfile(username, contact, paymentID string) (*model.Profile, error)
		// Items returns the complete current snapshot of the items collection.
		Items() ([]*model.Item, error)
		// CreateItem stores a new item for the current user.
		CreateItem(params CreateItemParams) (*model.Item, error)
		// DeleteItem removes one item by id.
		DeleteItem(id string) error
		// Session returns the authentication session used for requests.
		Session() Session
		// SetSession sets the authentication session used for requests.
		SetSession(session Session)
	}

	// CreateItemParams are the fields of a new item.
	CreateItemParams struct {
		Name        string `json:"name"`
		Quantity    string `json:"quantity"`
		Price       string `json:"price"`
		Location    string `json:"location"`
		Description string `json:"description"`
	}

	p      map[string]any
	client struct {
		http     *http.Client
		endpoint string
		session  Session
	}
)

// NewDefaultClient returns a new Client with default HTTP client.
func NewDefaultClient(endpoint string) (Client, error) {
	return NewClient(http.DefaultClient, endpoint)
}

// NewClient returns a new Client.
func NewClient(c *http.Client, endpoint string) (Client, error) {
	_, err := url.Parse(endpoint)
	return &client{endpoint: endpoint, http: c}, errors.Wrap(err, "could not parse endpoint")
}

func (c *client) Session() Session {
	return c.session
}

func (c *client) SetSession(session Session) {
	c.session = session
}

func (c *client) Register(email, password, displayName string) (*model.User, *Session, error) {
	return c.authenticate("/auth", p{
		"email":        email,
		"password":     password,
		"display_name": displayName,
	})
}

func (c *client) Login(email, password string) (*model.User, *Session, error) {
	return c.authenticate("/auth/sign_in", p{
		"email":    email,
		"password": password,
	})
}

func (c *client) authenticate(route string, params p) (*model.User, *Session, error) {
	res, err := c.perform(http.MethodPost, route, params)
	if err != nil {
		return nil, nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return nil, nil, parseAPIError(res.Body, res.StatusCode)
	}

	var login struct {
		User    model.User `json:"user"`
		Session Session    `json:"session"`
	}
	dec := json.NewDecoder(res.Body)
	err = dec.Decode(&login)
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not parse response")
	}

	c.SetSession(login.Session)
	return &login.User, &login.Session, nil
}

func (c *client) Logout() error {
	if !c.session.Defined() {
		return errors.New("no session defined")
	}

	res, err := c.perform(http.MethodDelete, "/auth/sign_out", nil)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return parseAPIError(res.Body, res.StatusCode)
	}

	return nil
}

func (c *client) RefreshSession(access, refresh string) (*Session, error) {
	res, err := c.perform(http.MethodPost, "/session/refresh", p{
		"access_token":  access,
		"refresh_token": refresh,
	})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return nil, parseAPIError(res.Body, res.StatusCode)
	}

	var session = struct {
		Session Session `json:"session"`
	}{}

	dec := json.NewDecoder(res.Body)
	err = dec.Decode(&session)

	return &session.Session, errors.Wrap(err, "could not parse response")
}

func (c *client) Profile() (*model.Profile, error) {
	res, err := c.perform(http.MethodGet, "/profile", nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	// Not found is a valid state, the profile does not exist until its
	// first save.
	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if res.StatusCode >= 400 {
		return nil, parseAPIError(res.Body, res.StatusCode)
	}

	var profile model.Profile
	dec := json.NewDecoder(res.Body)
	return &profile, errors.Wrap(dec.Decode(&profile), "could not parse response")
}

func (c *client) SaveProfile(username, contact, paymentID string) (*model.Profile, error) {
	res, err := c.perform(http.MethodPatch, "/profile", p{
		"username":   username,
		"contact":    contact,
		"payment_id": paymentID,
	})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return nil, parseAPIError(res.Body, res.StatusCode)
	}

	var profile model.Profile
	dec := json.NewDecoder(res.Body)
	return &profile, errors.Wrap(dec.Decode(&profile), "could not parse response")
}

func (c *client) Items() ([]*model.Item, error) {
	res, err := c.perform(http.MethodGet, "/items", nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return nil, parseAPIError(res.Body, res.StatusCode)
	}

	var snapshot struct {
		Items []*model.Item `json:"items"`
	}
	dec := json.NewDecoder(res.Body)
	return snapshot.Items, errors.Wrap(dec.Decode(&snapshot), "could not parse response")
}

func (c *client) CreateItem(params CreateItemParams) (*model.Item, error) {
	res, err := c.perform(http.MethodPost, "/items", params)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return nil, parseAPIError(res.Body, res.StatusCode)
	}

	var item model.Item
	dec := json.NewDecoder(res.Body)
	return &item, errors.Wrap(dec.Decode(&item), "could not parse response")
}

func (c *client) DeleteItem(id string) error {
	res, err := c.perform(http.MethodDelete, "/items/"+id, nil)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return parseAPIError(res.Body, res.StatusCode)
	}

	return nil
}

func (c *client) perform(method, route string, params any) (*http.Response, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse endpoint")
	}
	u.Path = path.Join(u.Path, route)

	//
	// Build request
	var body *bytes.Reader
	if params == nil {
		body = bytes.NewReader(nil)
	} else {
		payload, err := json.Marshal(params)
		if err != nil {
			return nil, errors.Wrap(err, "could not serialize params")
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "could not build request")
	}
	req.Close = true
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	if c.session.AccessToken != "" {
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.session.AccessToken))
	}

	//
	// Perform request
	res, err := c.http.Do(req)
	return res, errors.Wrap(err, "could not perform request")
}
