package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/surplusmkt/surplus/internal/client"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"
)

func main() {
	c := &cobra.Command{
		Use:     "spc",
		Short:   "Surplus marketplace client",
		Version: fmt.Sprintf("%s - build %.7s @ %s", version, revision, date),
		Args:    cobra.NoArgs,
	}
	c.AddCommand(registerCmd)
	c.AddCommand(loginCmd)
	c.AddCommand(logoutCmd)
	c.AddCommand(homeCmd)

	if err := c.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var (
	registerCmd = &cobra.Command{
		Use:   "register",
		Short: "Create an account on a Surplus server",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Register()
		},
	}

	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Login to a Surplus server",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Login()
		},
	}

	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Logout from a Surplus server session",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Logout()
		},
	}

	homeCmd = &cobra.Command{
		Use:   "home",
		Short: "Text-based marketplace view",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return client.Home()
		},
	}
)
