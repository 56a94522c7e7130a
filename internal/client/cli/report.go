package cli

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/dmitrijs2005/codehunt/internal/client/client"
	"github.com/dmitrijs2005/codehunt/internal/client/router"
	"github.com/dmitrijs2005/codehunt/internal/client/services"
)

// report prints a failure next to the form it belongs to.
func (a *App) report(err error) {
	var (
		ve *services.ValidationError
		ce *services.CredentialError
	)
	switch {
	case errors.As(err, &ve):
		for _, k := range slices.Sorted(maps.Keys(ve.Fields)) {
			a.printf("  %s: %s\n", fieldLabel(k), ve.Fields[k])
		}
	case errors.As(err, &ce):
		if ce.Field != "" {
			a.printf("  %s: %s\n", fieldLabel(ce.Field), ce.Message)
			return
		}
		a.println("Error:", ce.Message)
	case errors.Is(err, client.ErrNoSession):
		a.println("Please sign in first.")
	default:
		a.println(err.Error())
	}
}

// reportAuth is report for the credential screens: form-level refusals
// open the auth-error screen.
func (a *App) reportAuth(err error) {
	var ce *services.CredentialError
	if errors.As(err, &ce) && ce.Field == "" {
		a.history.Push(router.ScreenAuthError)
		a.println("Something went wrong")
		a.println(ce.Message)
		a.println("Type 'back' to try again.")
		return
	}
	a.report(err)
}

func fieldLabel(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}
