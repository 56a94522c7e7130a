// Package config loads runtime configuration for the CodeHunt terminal client.
//
// Sources, in order of precedence (later wins):
//
//  1. Built-in defaults (see Default).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags: -a, -f, -i and -redirect.
//
// Example JSON:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "database_path": "codehunt.db",
//	  "online_check_interval": "3s",
//	  "reset_redirect_url": "codehunt://reset-password"
//	}
package config
