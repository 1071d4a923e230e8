package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/travelmate/internal/client/api"
	"github.com/dmitrijs2005/travelmate/internal/client/dashboard"
	"github.com/dmitrijs2005/travelmate/internal/client/guard"
	"github.com/dmitrijs2005/travelmate/internal/client/models"
)

const plansRoute = "/travel-plans"

// Dashboard shows the profile and, for regular users, their plans and
// join requests.
func (a *App) Dashboard(ctx context.Context) error {
	if !a.protect(ctx, dashboard.Path) {
		return nil
	}

	page, err := a.dashboard.Load(ctx, a.state.State())
	if err != nil {
		return a.fail(ctx, "loading dashboard failed", err)
	}
	if page.Decision.Action != guard.Allow {
		return nil
	}

	d := page.Data
	printUser(a.out, d.Profile)
	if d.View == dashboard.AdminView {
		fmt.Fprintln(a.out, "Admin dashboard: use 'matches' and 'reviews' to moderate users.")
		return nil
	}

	fmt.Fprintln(a.out, "\nMy travel plans:")
	printPlans(a.out, d.Plans)
	fmt.Fprintln(a.out, "\nRequests for my plans:")
	printJoinRequests(a.out, d.Requests)
	fmt.Fprintln(a.out, "\nMy requests:")
	printJoinRequests(a.out, d.SentRequests)
	return nil
}

func (a *App) Plans(ctx context.Context) error {
	if !a.protect(ctx, plansRoute) {
		return nil
	}
	plans, err := a.api.TravelPlans.Mine(ctx)
	if err != nil {
		return a.fail(ctx, "listing travel plans failed", err)
	}
	printPlans(a.out, plans)
	return nil
}

func (a *App) Plan(ctx context.Context, id string) error {
	if !a.protect(ctx, plansRoute+"/"+id) {
		return nil
	}
	p, err := a.api.TravelPlans.Get(ctx, id)
	if err != nil {
		return a.fail(ctx, "loading travel plan failed", err)
	}
	printPlan(a.out, p)
	return nil
}

// NewPlan prompts for the plan fields and an optional image path.
func (a *App) NewPlan(ctx context.Context) error {
	if !a.protect(ctx, plansRoute+"/new") {
		return nil
	}

	var in models.PlanInput
	prompts := []struct {
		text string
		dst  *string
	}{
		{"Destination", &in.Destination},
		{"Start date (YYYY-MM-DD)", &in.StartDate},
		{"End date (YYYY-MM-DD)", &in.EndDate},
		{"Travel type (SOLO, FAMILY, FRIENDS)", &in.TravelType},
	}
	for _, p := range prompts {
		v, err := getSimpleText(a.reader, p.text, a.out)
		if err != nil {
			return err
		}
		*p.dst = v
	}
	if in.Destination == "" {
		fmt.Fprintln(a.out, "Destination is required.")
		return nil
	}

	budget, err := getSimpleText(a.reader, "Budget (empty for none)", a.out)
	if err != nil {
		return err
	}
	if in.Budget, err = parseBudget(budget); err != nil {
		return a.fail(ctx, "invalid budget", err)
	}

	if in.Description, err = getMultiline(a.reader, "Description", a.out); err != nil {
		return err
	}

	imagePath, err := getSimpleText(a.reader, "Image file path (empty for none)", a.out)
	if err != nil {
		return err
	}

	var image *api.Image
	if imagePath != "" {
		f, err := os.Open(imagePath)
		if err != nil {
			return a.fail(ctx, "opening image failed", err)
		}
		defer f.Close()
		image = &api.Image{Filename: filepath.Base(imagePath), Content: f}
	}

	p, err := a.api.TravelPlans.Create(ctx, in, image)
	if err != nil {
		return a.fail(ctx, "creating travel plan failed", err)
	}
	fmt.Fprintf(a.out, "Created plan %s\n", p.ID)
	return nil
}

func (a *App) Complete(ctx context.Context, id string) error {
	if !a.protect(ctx, plansRoute+"/"+id) {
		return nil
	}
	p, err := a.api.TravelPlans.Complete(ctx, id)
	if err != nil {
		return a.fail(ctx, "completing travel plan failed", err)
	}
	fmt.Fprintf(a.out, "Plan %s is now %s\n", p.ID, p.Status)
	return nil
}

func (a *App) Join(ctx context.Context, planID string) error {
	msg, err := getSimpleText(a.reader, "Message to the organiser (optional)", a.out)
	if err != nil {
		return err
	}
	r, err := a.api.JoinRequests.Create(ctx, models.JoinRequestInput{TravelPlanID: planID, Message: msg})
	if err != nil {
		return a.fail(ctx, "sending join request failed", err)
	}
	fmt.Fprintf(a.out, "Join request %s sent (%s)\n", r.ID, r.Status)
	return nil
}

// Requests shows requests for the caller's plans and the ones they sent.
func (a *App) Requests(ctx context.Context) error {
	incoming, err := a.api.JoinRequests.ForMyPlans(ctx)
	if err != nil {
		return a.fail(ctx, "listing join requests failed", err)
	}
	sent, err := a.api.JoinRequests.Mine(ctx)
	if err != nil {
		return a.fail(ctx, "listing join requests failed", err)
	}

	fmt.Fprintln(a.out, "Requests for my plans:")
	printJoinRequests(a.out, incoming)
	fmt.Fprintln(a.out, "\nMy requests:")
	printJoinRequests(a.out, sent)
	return nil
}

func (a *App) Respond(ctx context.Context, id, status string) error {
	st := models.JoinRequestStatus(strings.ToUpper(status))
	r, err := a.api.JoinRequests.Respond(ctx, id, st)
	if err != nil {
		return a.fail(ctx, "responding to join request failed", err)
	}
	fmt.Fprintf(a.out, "Request %s is now %s\n", r.ID, r.Status)
	return nil
}
