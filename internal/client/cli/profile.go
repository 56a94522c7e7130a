package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/codehunt/internal/client/client"
	"github.com/dmitrijs2005/codehunt/internal/client/models"
	"github.com/dmitrijs2005/codehunt/internal/client/router"
	"github.com/dmitrijs2005/codehunt/internal/client/services"
)

// clearValue typed at a field prompt empties the field.
const clearValue = "-"

func (a *App) Profile(ctx context.Context) error {
	if !a.open(router.ScreenProfile) {
		return nil
	}
	ed := services.NewProfileEditor(a.client, a.store, a.logger)
	defer ed.Close()

	form, err := ed.Load(ctx)
	if err != nil {
		a.report(err)
		return err
	}
	s := a.store.State().Session
	if s == nil {
		a.println("Please sign in first.")
		return client.ErrNoSession
	}
	a.println("Profile")
	a.printf("  Name:  %s\n", orDash(form.FullName))
	a.printf("  Email: %s\n", s.User.Email)
	a.printf("  Phone: %s\n", orDash(form.Phone))
	a.printf("  City:  %s\n", orDash(form.City))
	a.println("Use 'edit-profile', 'avatar <file>' or 'preferences'.")
	return nil
}

// EditProfile loads the profile into an edit buffer, lets the user change
// it and saves. A failed save keeps what was typed and offers a retry.
func (a *App) EditProfile(ctx context.Context) error {
	if !a.open(router.ScreenEditProfile) {
		return nil
	}
	ed := services.NewProfileEditor(a.client, a.store, a.logger)
	defer ed.Close()

	form, err := ed.Load(ctx)
	if err != nil {
		if !isTransient(err) {
			a.report(err)
			return err
		}
		a.println("Could not load your profile; starting from blank fields.")
		a.report(err)
	}

	a.printf("Press Enter to keep a value, '%s' to clear it.\n", clearValue)
	for _, f := range []struct {
		label string
		field *string
	}{
		{"Full name", &form.FullName},
		{"Phone", &form.Phone},
		{"City", &form.City},
	} {
		v, err := a.promptField(f.label, *f.field)
		if err != nil {
			return err
		}
		*f.field = v
	}
	ed.Edit(func(f *models.ProfileForm) { *f = form })

	if err := a.saveWithRetry(func() error { return ed.Save(ctx) }); err != nil {
		return err
	}
	a.println("Profile Updated")
	a.history.Back()
	return nil
}

func (a *App) Avatar(ctx context.Context, path string) error {
	if !a.open(router.ScreenEditProfile) {
		return nil
	}
	defer a.history.Back()

	key, err := a.avatars.Upload(ctx, path)
	if err != nil {
		a.report(err)
		return err
	}
	a.println("Avatar uploaded:", key)
	return nil
}

// promptField shows the current value and returns the new one.
func (a *App) promptField(label, current string) (string, error) {
	prompt := label
	if current != "" {
		prompt += " [" + current + "]"
	}
	v, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return current, err
	}
	switch v {
	case "":
		return current, nil
	case clearValue:
		return "", nil
	}
	return v, nil
}

// saveWithRetry runs save until it succeeds or the user gives up. The edit
// buffer is not touched in between.
func (a *App) saveWithRetry(save func() error) error {
	for {
		err := save()
		if err == nil {
			return nil
		}
		a.report(err)
		var te *services.TransientError
		if !errors.As(err, &te) {
			return err
		}
		answer, rerr := getSimpleText(a.reader, "Retry? (y/N)", a.out)
		if rerr != nil || !strings.EqualFold(answer, "y") {
			return err
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// isTransient reports whether an editor can carry on from blank fields
// after err. Other load failures mean the buffer does not belong to the
// signed-in user.
func isTransient(err error) bool {
	var te *services.TransientError
	return errors.As(err, &te)
}
