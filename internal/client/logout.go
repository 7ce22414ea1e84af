package client

import (
	"github.com/pkg/errors"
)

// Logout disconnects from a Surplus server.
func Logout() error {
	cfg, err := Load()
	if err != nil {
		return errors.Wrap(err, "could not load config")
	}

	//
	//

	c, err := NewDefaultClient(cfg.Endpoint)
	if err != nil {
		return errors.Wrap(err, "could not reach Surplus endpoint")
	}

	if !cfg.Session.Defined() {
		return errors.New("could not logout because session is not defined")
	}
	c.SetSession(cfg.Session)

	//
	//

	if err = c.Logout(); err != nil {
		return errors.Wrap(err, "could not logout")
	}

	return errors.Wrap(Remove(), "could not remove credential file")
}
