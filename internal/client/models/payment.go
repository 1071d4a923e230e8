package models

type BillingPlan string

const (
	BillingMonthly BillingPlan = "monthly"
	BillingYearly  BillingPlan = "yearly"
)

func (p BillingPlan) Valid() bool {
	return p == BillingMonthly || p == BillingYearly
}

// CheckoutSession points the user at the payment provider's hosted page.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type PaymentVerification struct {
	Success            bool               `json:"success"`
	Status             string             `json:"status,omitempty"`
	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus,omitempty"`
}
