package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. *App satisfies it.
type execIface interface {
	isSignedIn() bool

	SignIn(ctx context.Context) error
	SignUp(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	Recover(ctx context.Context, link string) error
	UpdatePassword(ctx context.Context) error
	SignOut(ctx context.Context) error

	Home(ctx context.Context) error
	Search(ctx context.Context, args []string) error
	Show(ctx context.Context, id string) error
	CreateListing(ctx context.Context) error

	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Avatar(ctx context.Context, path string) error
	Onboarding(ctx context.Context) error
	Preferences(ctx context.Context) error

	Back(ctx context.Context) error
}

// runREPL reads commands from reader until EOF or "exit" and dispatches
// them to a. Handlers prompt for their fields from the same reader, so
// commands are read line by line without extra buffering. The prompt shows statusFn. Handlers report their own errors,
// so their return values only matter to tests.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("codehunt (%s)> ", statusFn()))
		if ctx.Err() != nil {
			return
		}
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isSignedIn() {
				printlnFn("Available commands: home, (l)istings, search, show <id>, create-listing, profile, edit-profile, avatar <file>, preferences, onboarding, update-password, signout, back, exit")
			} else {
				printlnFn("Available commands: signin, signup, forgot, recover <link>, update-password, back, exit")
			}

		case "signin", "login":
			_ = a.SignIn(ctx)
		case "signup", "register":
			_ = a.SignUp(ctx)
		case "forgot":
			_ = a.ForgotPassword(ctx)
		case "recover":
			if len(args) == 0 {
				printlnFn("Usage: recover <link from the email>")
				continue
			}
			_ = a.Recover(ctx, args[0])
		case "update-password":
			_ = a.UpdatePassword(ctx)
		case "signout", "logout":
			_ = a.SignOut(ctx)

		case "home":
			_ = a.Home(ctx)
		case "l", "listings", "search":
			_ = a.Search(ctx, args)
		case "show":
			if len(args) == 0 {
				printlnFn("Usage: show <id>")
				continue
			}
			_ = a.Show(ctx, args[0])
		case "create-listing":
			_ = a.CreateListing(ctx)

		case "profile":
			_ = a.Profile(ctx)
		case "edit-profile":
			_ = a.EditProfile(ctx)
		case "avatar":
			if len(args) == 0 {
				printlnFn("Usage: avatar <image file>")
				continue
			}
			_ = a.Avatar(ctx, args[0])
		case "onboarding":
			_ = a.Onboarding(ctx)
		case "preferences":
			_ = a.Preferences(ctx)

		case "back":
			_ = a.Back(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
