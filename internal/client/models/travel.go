package models

import "time"

type PlanStatus string

const (
	PlanPlanned   PlanStatus = "PLANNED"
	PlanOngoing   PlanStatus = "ONGOING"
	PlanCompleted PlanStatus = "COMPLETED"
)

type TravelPlan struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	User        *User      `json:"user,omitempty"`
	Destination string     `json:"destination"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Budget      float64    `json:"budget,omitempty"`
	TravelType  string     `json:"travelType,omitempty"`
	Description string     `json:"description,omitempty"`
	Image       string     `json:"image,omitempty"`
	Status      PlanStatus `json:"status,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// PlanInput is the writable part of a travel plan. Dates use the
// YYYY-MM-DD form the service accepts.
type PlanInput struct {
	Destination string  `json:"destination,omitempty"`
	StartDate   string  `json:"startDate,omitempty"`
	EndDate     string  `json:"endDate,omitempty"`
	Budget      float64 `json:"budget,omitempty"`
	TravelType  string  `json:"travelType,omitempty"`
	Description string  `json:"description,omitempty"`
}

type JoinRequestStatus string

const (
	JoinPending  JoinRequestStatus = "PENDING"
	JoinAccepted JoinRequestStatus = "ACCEPTED"
	JoinRejected JoinRequestStatus = "REJECTED"
)

// Valid reports whether s is one of the statuses a plan owner may set.
func (s JoinRequestStatus) Valid() bool {
	switch s {
	case JoinPending, JoinAccepted, JoinRejected:
		return true
	}
	return false
}

type JoinRequest struct {
	ID           string            `json:"id"`
	TravelPlanID string            `json:"travelPlanId"`
	TravelPlan   *TravelPlan       `json:"travelPlan,omitempty"`
	RequesterID  string            `json:"requesterId"`
	Requester    *User             `json:"requester,omitempty"`
	Status       JoinRequestStatus `json:"status"`
	Message      string            `json:"message,omitempty"`
	CreatedAt    *time.Time        `json:"createdAt,omitempty"`
}

type JoinRequestInput struct {
	TravelPlanID string `json:"travelPlanId"`
	Message      string `json:"message,omitempty"`
}

type Review struct {
	ID           string     `json:"id"`
	ReviewerID   string     `json:"reviewerId"`
	Reviewer     *User      `json:"reviewer,omitempty"`
	RevieweeID   string     `json:"revieweeId"`
	TravelPlanID string     `json:"travelPlanId,omitempty"`
	Rating       int        `json:"rating"`
	Comment      string     `json:"comment,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
}

type ReviewInput struct {
	RevieweeID   string `json:"revieweeId,omitempty"`
	TravelPlanID string `json:"travelPlanId,omitempty"`
	Rating       int    `json:"rating,omitempty"`
	Comment      string `json:"comment,omitempty"`
}
