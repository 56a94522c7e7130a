package cli

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/codehunt/internal/client/models"
	"github.com/dmitrijs2005/codehunt/internal/client/router"
	"github.com/dmitrijs2005/codehunt/internal/client/services"
)

// Onboarding collects investment preferences right after sign-up.
func (a *App) Onboarding(ctx context.Context) error {
	if !a.open(router.ScreenOnboarding) {
		return nil
	}
	a.println("Let's personalise CodeHunt for you.")
	if err := a.editPreferences(ctx); err != nil {
		return err
	}
	a.println("You're all set!")
	a.history.Replace(router.ScreenHome)
	return nil
}

func (a *App) Preferences(ctx context.Context) error {
	if !a.open(router.ScreenPreferences) {
		return nil
	}
	if err := a.editPreferences(ctx); err != nil {
		return err
	}
	a.println("Preferences Saved!")
	a.history.Back()
	return nil
}

func (a *App) editPreferences(ctx context.Context) error {
	ed := services.NewPreferencesEditor(a.client, a.store, a.logger)
	defer ed.Close()

	if _, err := ed.Load(ctx); err != nil {
		if !isTransient(err) {
			a.report(err)
			return err
		}
		a.println("Could not load your preferences; starting from scratch.")
		a.report(err)
	}
	form := ed.Form()

	goal, err := GetChoice(a.reader, "Investment goal"+current(form.Goal), models.Goals, a.out)
	if err != nil {
		return err
	}
	if goal >= 0 && models.Goals[goal] != form.Goal {
		ed.SetGoal(models.Goals[goal])
	}

	labels := make([]string, len(models.BudgetRanges))
	for i, r := range models.BudgetRanges {
		labels[i] = r.Label
	}
	budgetLabel := ""
	if form.Budget != nil {
		budgetLabel = form.Budget.Label
	}
	budget, err := GetChoice(a.reader, "Budget range"+current(budgetLabel), labels, a.out)
	if err != nil {
		return err
	}
	if budget >= 0 {
		ed.SetBudget(&models.BudgetRanges[budget])
	}

	picks, err := GetToggles(a.reader, "Preferred cities (numbers to toggle)", models.Cities,
		func(c string) bool { return slices.Contains(form.Cities, c) }, a.out)
	if err != nil {
		return err
	}
	for _, i := range picks {
		ed.ToggleCity(models.Cities[i])
	}

	picks, err = GetToggles(a.reader, "Property types (numbers to toggle)", models.PropertyTypes,
		func(t string) bool { return slices.Contains(form.PropertyTypes, t) }, a.out)
	if err != nil {
		return err
	}
	for _, i := range picks {
		ed.TogglePropertyType(models.PropertyTypes[i])
	}

	return a.saveWithRetry(func() error { return ed.Save(ctx) })
}

func current(v string) string {
	if v == "" {
		return ""
	}
	return " [" + v + "]"
}
