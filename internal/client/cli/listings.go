package cli

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/dmitrijs2005/codehunt/internal/client/client"
	"github.com/dmitrijs2005/codehunt/internal/client/models"
	"github.com/dmitrijs2005/codehunt/internal/client/router"
	"github.com/dmitrijs2005/codehunt/internal/client/services"
)

// Home shows the newest listings.
func (a *App) Home(ctx context.Context) error {
	if !a.open(router.ScreenHome) {
		return nil
	}
	out, err := a.listings.Browse(ctx, 10)
	if err != nil {
		a.report(err)
		return err
	}
	a.println("Newly launched")
	a.printListings(out)
	return nil
}

// Search takes free text plus optional city=, status= and type= filters.
func (a *App) Search(ctx context.Context, args []string) error {
	if !a.open(router.ScreenSearch) {
		return nil
	}
	f := parseFilter(args)
	out, err := a.listings.Search(ctx, f)
	if err != nil {
		a.report(err)
		return err
	}
	if len(out) == 0 {
		a.println("No properties found.")
		return nil
	}
	a.printListings(out)
	return nil
}

func parseFilter(args []string) models.ListingFilter {
	var f models.ListingFilter
	var text []string
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			text = append(text, arg)
			continue
		}
		v = strings.ReplaceAll(v, "_", " ")
		switch strings.ToLower(k) {
		case "city":
			f.City = v
		case "status":
			f.Status = v
		case "type":
			f.PropertyType = v
		default:
			text = append(text, arg)
		}
	}
	f.Text = strings.Join(text, " ")
	return f
}

func (a *App) printListings(ls []*models.Listing) {
	for _, l := range ls {
		a.printf("  %s  %-30s %12s  %s  [%s]\n", l.ID, l.Title, l.PriceLabel, l.Location, l.Status)
	}
}

func (a *App) Show(ctx context.Context, id string) error {
	if !a.open(router.ScreenListing) {
		return nil
	}
	l, err := a.listings.Get(ctx, id)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			a.println("Property not found.")
		} else {
			a.report(err)
		}
		a.history.Back()
		return err
	}

	a.println(l.Title)
	a.printf("  %s\n  %s · %s · %s\n", l.PriceLabel, l.Location, l.PropertyType, l.Status)
	if l.BHKConfig != nil {
		a.printf("  Configuration: %s\n", *l.BHKConfig)
	}
	if l.AreaSqft != nil {
		a.printf("  Area: %d sq.ft\n", *l.AreaSqft)
	}
	if l.IsRERACertified {
		a.println("  RERA certified")
	}
	if l.IsHIRACertified {
		a.println("  HIRA certified")
	}
	if l.CompletionDate != nil {
		a.printf("  Completion: %s\n", l.CompletionDate.Format("Jan 2006"))
	}
	if l.Description != nil {
		a.println()
		a.println(*l.Description)
	}
	return nil
}

func (a *App) CreateListing(ctx context.Context) error {
	if !a.open(router.ScreenCreateListing) {
		return nil
	}
	var d services.ListingDraft
	for _, f := range []struct {
		prompt string
		field  *string
	}{
		{"Property title *", &d.Title},
		{"Description", &d.Description},
		{"Location *", &d.Location},
		{"Price (₹) *", &d.Price},
		{"Area (sq.ft)", &d.AreaSqft},
	} {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.field = v
	}

	for _, c := range []struct {
		prompt  string
		options []string
		field   *string
	}{
		{"Property type *", models.PropertyTypes, &d.PropertyType},
		{"BHK configuration", models.BHKConfigs, &d.BHKConfig},
		{"Listing type *", models.ListingStatuses, &d.Status},
	} {
		i, err := GetChoice(a.reader, c.prompt, c.options, a.out)
		if err != nil {
			return err
		}
		if i >= 0 {
			*c.field = c.options[i]
		}
	}

	l, err := a.listings.Create(ctx, d)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) && slices.Contains(slices.Collect(maps.Values(ve.Fields)), services.MissingFieldsMessage) {
			a.println("Missing Fields")
		}
		a.report(err)
		return err
	}
	a.printf("Property Listed! %s (%s)\n", l.ID, l.PriceLabel)
	a.history.Back()
	return nil
}
