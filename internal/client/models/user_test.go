package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_DecodeServerPayload(t *testing.T) {
	raw := `{
		"id": "u1", "name": "Ana", "email": "ana@example.com",
		"emailVerified": true, "role": "ADMIN",
		"subscriptionStatus": "PAST_DUE",
		"createdAt": "2025-03-01T10:00:00Z",
		"somethingNew": 42
	}`

	var u User
	require.NoError(t, json.Unmarshal([]byte(raw), &u))

	assert.Equal(t, "u1", u.ID)
	assert.True(t, u.EmailVerified)
	assert.True(t, u.IsAdmin())
	assert.False(t, u.HasActiveSubscription())
	require.NotNil(t, u.CreatedAt)
	assert.Equal(t, 2025, u.CreatedAt.Year())
}

func TestUser_NilSafeHelpers(t *testing.T) {
	var u *User
	assert.False(t, u.IsAdmin())
	assert.False(t, u.HasActiveSubscription())
}

func TestStatusValidation(t *testing.T) {
	assert.True(t, JoinAccepted.Valid())
	assert.False(t, JoinRequestStatus("MAYBE").Valid())
	assert.True(t, BillingYearly.Valid())
	assert.False(t, BillingPlan("weekly").Valid())
}

func TestProfileUpdate_OmitsUnsetFields(t *testing.T) {
	bio := "hiker"
	b, err := json.Marshal(ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.JSONEq(t, `{"bio":"hiker"}`, string(b))
}
