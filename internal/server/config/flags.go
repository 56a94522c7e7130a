package config

import (
	"flag"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/codehunt/internal/flagx"
)

var serverFlags = []string{"-a", "-h", "-l", "-d", "-s", "-t", "-r", "-m", "-u", "-p", "-b", "-g", "-e"}

// parseFlags overlays the server flags found in args. Token lifetimes are
// given in whole minutes.
func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&c.EndpointAddrGRPC, "a", c.EndpointAddrGRPC, "gRPC listen address")
	fs.StringVar(&c.EndpointAddrHTTP, "h", c.EndpointAddrHTTP, "HTTP listen address (health, email links)")
	fs.StringVar(&c.PublicBaseURL, "l", c.PublicBaseURL, "public base URL used in emailed links")
	fs.StringVar(&c.DatabaseDSN, "d", c.DatabaseDSN, "PostgreSQL DSN")
	fs.StringVar(&c.SecretKey, "s", c.SecretKey, "JWT signing secret")
	fs.BoolVar(&c.AutoConfirm, "m", c.AutoConfirm, "start sessions on sign-up without email confirmation")
	fs.StringVar(&c.S3RootUser, "u", c.S3RootUser, "S3 access key")
	fs.StringVar(&c.S3RootPassword, "p", c.S3RootPassword, "S3 secret key")
	fs.StringVar(&c.S3Bucket, "b", c.S3Bucket, "S3 bucket for avatars")
	fs.StringVar(&c.S3Region, "g", c.S3Region, "S3 region")
	fs.StringVar(&c.S3BaseEndpoint, "e", c.S3BaseEndpoint, "S3 endpoint")
	minutesVar(fs, &c.AccessTokenValidityDuration, "t", "access token lifetime in minutes")
	minutesVar(fs, &c.RefreshTokenValidityDuration, "r", "refresh token lifetime in minutes")

	if err := fs.Parse(flagx.FilterArgs(args, serverFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}

func minutesVar(fs *flag.FlagSet, d *time.Duration, name, usage string) {
	fs.Func(name, fmt.Sprintf("%s (default %d)", usage, int(d.Minutes())), func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%q is not a number of minutes", s)
		}
		*d = time.Duration(n) * time.Minute
		return nil
	})
}
