package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/travelmate/internal/client/models"
)

func (a *App) Matches(ctx context.Context) error {
	users, err := a.api.Users.Matches(ctx)
	if err != nil {
		return a.fail(ctx, "loading matches failed", err)
	}
	printUsers(a.out, users)
	return nil
}

// Search finds travellers by name. Words prefixed with '#' are sent as
// interests instead: "search ana #hiking #food".
func (a *App) Search(ctx context.Context, query string) error {
	var words, interests []string
	for _, w := range strings.Fields(query) {
		if tag, ok := strings.CutPrefix(w, "#"); ok && tag != "" {
			interests = append(interests, tag)
			continue
		}
		words = append(words, w)
	}

	users, err := a.api.Users.Search(ctx, strings.Join(words, " "), interests)
	if err != nil {
		return a.fail(ctx, "search failed", err)
	}
	printUsers(a.out, users)
	return nil
}

// Reviews lists reviews about userID, or about the caller when empty.
func (a *App) Reviews(ctx context.Context, userID string) error {
	if userID == "" {
		st := a.state.State()
		if !st.SignedIn() {
			fmt.Fprintln(a.out, "Usage: reviews <userId> (or log in to see your own)")
			return nil
		}
		userID = st.User.ID
	}

	reviews, err := a.api.Reviews.ForUser(ctx, userID)
	if err != nil {
		return a.fail(ctx, "loading reviews failed", err)
	}
	printReviews(a.out, reviews)
	return nil
}

func (a *App) Review(ctx context.Context) error {
	var in models.ReviewInput
	var err error

	if in.RevieweeID, err = getSimpleText(a.reader, "User ID to review", a.out); err != nil {
		return err
	}
	if in.TravelPlanID, err = getSimpleText(a.reader, "Travel plan ID (optional)", a.out); err != nil {
		return err
	}
	stars, err := getSimpleText(a.reader, "Rating (1-5)", a.out)
	if err != nil {
		return err
	}
	if in.Rating, err = parseRating(stars); err != nil {
		return a.fail(ctx, "invalid rating", err)
	}
	if in.Comment, err = getMultiline(a.reader, "Comment", a.out); err != nil {
		return err
	}

	r, err := a.api.Reviews.Create(ctx, in)
	if err != nil {
		return a.fail(ctx, "posting review failed", err)
	}
	fmt.Fprintf(a.out, "Review %s posted\n", r.ID)
	return nil
}

// Subscribe starts a checkout for plan and prints the payment page URL.
func (a *App) Subscribe(ctx context.Context, plan string) error {
	cs, err := a.api.Payments.CreateCheckoutSession(ctx, models.BillingPlan(strings.ToLower(plan)))
	if err != nil {
		return a.fail(ctx, "starting checkout failed", err)
	}
	fmt.Fprintf(a.out, "Complete payment at:\n  %s\nThen run: verify-payment %s\n", cs.URL, cs.SessionID)
	return nil
}

func (a *App) VerifyPayment(ctx context.Context, sessionID string) error {
	v, err := a.api.Payments.VerifySession(ctx, sessionID)
	if err != nil {
		return a.fail(ctx, "verifying payment failed", err)
	}
	if !v.Success {
		fmt.Fprintf(a.out, "Payment not completed (%s)\n", v.Status)
		return nil
	}

	a.state.RefreshUser(ctx)
	fmt.Fprintln(a.out, "Subscription active. Thank you!")
	return nil
}
