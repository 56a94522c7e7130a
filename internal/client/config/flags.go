package config

import (
	"flag"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/codehunt/internal/flagx"
)

// parseFlags overlays the client flags found in args.
//
//	-a string         address and port of the backend server
//	-f string         path of the local SQLite database
//	-i int            online check interval in seconds
//	-redirect string  redirect target for password reset links
func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&c.ServerEndpointAddr, "a", c.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&c.DatabasePath, "f", c.DatabasePath, "local database file")
	fs.StringVar(&c.ResetRedirectURL, "redirect", c.ResetRedirectURL, "password reset redirect URL")
	fs.Func("i", "online check interval (in seconds)", func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%q is not a number of seconds", s)
		}
		c.OnlineCheckInterval = time.Duration(n) * time.Second
		return nil
	})

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-a", "-f", "-i", "-redirect"})); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
