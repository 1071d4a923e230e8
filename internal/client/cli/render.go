package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/travelmate/internal/client/models"
)

const dateLayout = "2006-01-02"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printUser(w io.Writer, u *models.User) {
	if u == nil {
		return
	}
	fmt.Fprintf(w, "%s <%s>\n", u.Name, u.Email)
	fmt.Fprintf(w, "  id: %s  role: %s  subscription: %s\n", u.ID, u.Role, orDash(string(u.SubscriptionStatus)))
	if !u.EmailVerified {
		fmt.Fprintln(w, "  email not verified (use 'sendotp' and 'verify')")
	}
	if u.Location != "" {
		fmt.Fprintf(w, "  location: %s\n", u.Location)
	}
	if len(u.Interests) > 0 {
		fmt.Fprintf(w, "  interests: %s\n", strings.Join(u.Interests, ", "))
	}
	if u.Bio != "" {
		fmt.Fprintf(w, "  bio: %s\n", u.Bio)
	}
}

func printUsers(w io.Writer, users []models.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tLOCATION\tINTERESTS")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Name, orDash(u.Location), orDash(strings.Join(u.Interests, ",")))
	}
	tw.Flush()
}

func printPlans(w io.Writer, plans []models.TravelPlan) {
	if len(plans) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDESTINATION\tDATES\tTYPE\tSTATUS")
	for _, p := range plans {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Destination, dates(p), orDash(p.TravelType), orDash(string(p.Status)))
	}
	tw.Flush()
}

func printPlan(w io.Writer, p *models.TravelPlan) {
	fmt.Fprintf(w, "%s (%s)\n", p.Destination, orDash(string(p.Status)))
	fmt.Fprintf(w, "  id: %s  dates: %s  type: %s\n", p.ID, dates(*p), orDash(p.TravelType))
	if p.Budget > 0 {
		fmt.Fprintf(w, "  budget: %.2f\n", p.Budget)
	}
	if p.User != nil {
		fmt.Fprintf(w, "  organiser: %s (%s)\n", p.User.Name, p.User.ID)
	}
	if p.Description != "" {
		fmt.Fprintf(w, "  %s\n", p.Description)
	}
}

func printJoinRequests(w io.Writer, reqs []models.JoinRequest) {
	if len(reqs) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tPLAN\tFROM\tSTATUS")
	for _, r := range reqs {
		plan := r.TravelPlanID
		if r.TravelPlan != nil {
			plan = r.TravelPlan.Destination
		}
		from := r.RequesterID
		if r.Requester != nil {
			from = r.Requester.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, orDash(plan), orDash(from), r.Status)
	}
	tw.Flush()
}

func printReviews(w io.Writer, reviews []models.Review) {
	if len(reviews) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, r := range reviews {
		from := r.ReviewerID
		if r.Reviewer != nil {
			from = r.Reviewer.Name
		}
		fmt.Fprintf(w, "%s %s: %s\n", strings.Repeat("*", r.Rating), from, r.Comment)
	}
}

func dates(p models.TravelPlan) string {
	if p.StartDate == nil {
		return "-"
	}
	s := p.StartDate.Format(dateLayout)
	if p.EndDate != nil {
		s += " to " + p.EndDate.Format(dateLayout)
	}
	return s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
