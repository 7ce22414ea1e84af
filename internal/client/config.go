package client

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
)

const credentialsfile = ".surplus"

type (
	// A Config holds client's configuration.
	Config struct {
		Endpoint string  `json:"endpoint"`
		User     User    `json:"user"`
		Session  Session `json:"session"`
	}

	// A User holds the identity the session belongs to.
	User struct {
		UUID        string `json:"uuid"`
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
	}
)

// Remove removes the credential file from the current directory.
func Remove() error {
	return os.Remove(credentialsfile)
}

// Load gets the configuration from the current folder according to `credentialsfile` const.
func Load() (Config, error) {
	var cfg Config

	payload, err := os.ReadFile(credentialsfile)
	if err != nil {
		return cfg, errors.Wrap(err, "could not read credentials file")
	}

	err = json.Unmarshal(payload, &cfg)
	return cfg, errors.Wrap(err, "could not parse config")
}

// Save stores the configuration in the current folder according to `credentialsfile` const.
func Save(cfg Config) error {
	payload, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not serialize config")
	}

	// Session tokens inside, keep it owner-only.
	err = os.WriteFile(credentialsfile, payload, 0o600)
	return errors.Wrap(err, "could not store credentials")
}

// Refresh refreshes the session if needed.
func Refresh(c Client, cfg *Config) error {
	if !cfg.Session.AccessExpiredAt(time.Now().Add(time.Hour)) {
		c.SetSession(cfg.Session)
		return nil
	}

	fmt.Println("Refreshing the session")

	session, err := c.RefreshSession(cfg.Session.AccessToken, cfg.Session.RefreshToken)
	if err != nil {
		return errors.Wrap(err, "could not refresh session")
	}
	cfg.Session = *session
	c.SetSession(cfg.Session)

	err = Save(*cfg)
	return errors.Wrap(err, "could not save refreshed session")
}
