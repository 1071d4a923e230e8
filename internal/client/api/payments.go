package api

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/travelmate/internal/client/models"
	"github.com/dmitrijs2005/travelmate/internal/common"
)

// Payments starts and confirms subscription checkouts.
type Payments struct{ c *Client }

func (p Payments) CreateCheckoutSession(ctx context.Context, plan models.BillingPlan) (*models.CheckoutSession, error) {
	if !plan.Valid() {
		return nil, fmt.Errorf("billing plan %q: %w", plan, common.ErrValidation)
	}

	body := struct {
		Plan models.BillingPlan `json:"plan"`
	}{plan}

	var out models.CheckoutSession
	if err := p.c.Post(ctx, "/payments/create-checkout-session", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p Payments) VerifySession(ctx context.Context, sessionID string) (*models.PaymentVerification, error) {
	body := struct {
		SessionID string `json:"sessionId"`
	}{sessionID}

	var out models.PaymentVerification
	if err := p.c.Post(ctx, "/payments/verify-session", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
