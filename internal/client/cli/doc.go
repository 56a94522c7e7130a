// Package cli provides the interactive CodeHunt terminal client.
//
// It wires configuration, the local session database, the backend client,
// the session store and the route guard into a REPL. Every screen of the
// app is reachable through a command; the guard moves the user between the
// signed-out and signed-in screens as the session comes and goes.
//
// Commands:
//   - signin, signup, forgot, recover <link>, update-password, signout
//   - home, listings, search [text] [city=..] [status=..] [type=..], show <id>
//   - create-listing, profile, edit-profile, avatar <file>
//   - onboarding, preferences, back, help, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
