// Package models holds the client-side views of the travelmate service
// resources. They mirror the JSON the service returns; fields the client
// does not use are ignored on decode.
package models

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "ACTIVE"
	SubscriptionInactive SubscriptionStatus = "INACTIVE"
	SubscriptionPastDue  SubscriptionStatus = "PAST_DUE"
	SubscriptionCanceled SubscriptionStatus = "CANCELED"
)

// User is a read-through copy of the server's account record. The client
// never computes it locally.
type User struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Email              string             `json:"email"`
	EmailVerified      bool               `json:"emailVerified"`
	Role               Role               `json:"role"`
	Image              string             `json:"image,omitempty"`
	Bio                string             `json:"bio,omitempty"`
	IsVerified         bool               `json:"isVerified,omitempty"`
	Location           string             `json:"location,omitempty"`
	Interests          []string           `json:"interests,omitempty"`
	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus,omitempty"`
	CreatedAt          *time.Time         `json:"createdAt,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) HasActiveSubscription() bool {
	return u != nil && u.SubscriptionStatus == SubscriptionActive
}

// ProfileUpdate carries the editable profile fields. Nil pointers are left
// out of the request so the server keeps its current value.
type ProfileUpdate struct {
	Name      *string  `json:"name,omitempty"`
	Bio       *string  `json:"bio,omitempty"`
	Location  *string  `json:"location,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Success     bool   `json:"success"`
	User        *User  `json:"user"`
	AccessToken string `json:"accessToken"`
}
