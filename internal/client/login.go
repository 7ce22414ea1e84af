package client

import (
	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/surplusmkt/surplus/internal/model"
)

// Register creates an account on a Surplus server and stores its credentials.
func Register() error {
	cfg, c, err := promptEndpoint()
	if err != nil {
		return err
	}

	email, err := readline.Line("Email: ")
	if err != nil {
		return errors.Wrap(err, "could not read email from stdin")
	}

	displayName, err := readline.Line("Display name (optional): ")
	if err != nil {
		return errors.Wrap(err, "could not read display name from stdin")
	}

	password, err := readline.Password("Password: ")
	if err != nil {
		return errors.Wrap(err, "could not read password from stdin")
	}

	user, session, err := c.Register(email, string(password), displayName)
	if err != nil {
		return errors.Wrap(err, "could not register")
	}

	return saveCredentials(cfg, user, session)
}

// Login connects to a Surplus server and stores its credentials.
func Login() error {
	cfg, c, err := promptEndpoint()
	if err != nil {
		return err
	}

	email, err := readline.Line("Email: ")
	if err != nil {
		return errors.Wrap(err, "could not read email from stdin")
	}

	password, err := readline.Password("Password: ")
	if err != nil {
		return errors.Wrap(err, "could not read password from stdin")
	}

	user, session, err := c.Login(email, string(password))
	if err != nil {
		return errors.Wrap(err, "could not login")
	}

	return saveCredentials(cfg, user, session)
}

func promptEndpoint() (Config, Client, error) {
	cfg := Config{}

	endpoint, err := readline.Line("Endpoint: ")
	if err != nil {
		return cfg, nil, errors.Wrap(err, "could not read endpoint from stdin")
	}
	cfg.Endpoint = endpoint

	c, err := NewDefaultClient(cfg.Endpoint)
	if err != nil {
		return cfg, nil, errors.Wrap(err, "could not reach given endpoint")
	}

	return cfg, c, nil
}

func saveCredentials(cfg Config, user *model.User, session *Session) error {
	cfg.User = User{
		UUID:        user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}
	cfg.Session = *session

	return Save(cfg)
}
