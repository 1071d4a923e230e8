package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/travelmate/internal/client/models"
	"github.com/dmitrijs2005/travelmate/internal/common"
)

// JoinRequests groups the /join-requests endpoints.
type JoinRequests struct{ c *Client }

// ForMyPlans lists requests other users sent to the caller's plans.
func (j JoinRequests) ForMyPlans(ctx context.Context) ([]models.JoinRequest, error) {
	return list[models.JoinRequest](ctx, j.c, "/join-requests/for-my-plans")
}

// Mine lists requests the caller sent.
func (j JoinRequests) Mine(ctx context.Context) ([]models.JoinRequest, error) {
	return list[models.JoinRequest](ctx, j.c, "/join-requests/my")
}

func (j JoinRequests) ForPlan(ctx context.Context, planID string) ([]models.JoinRequest, error) {
	return list[models.JoinRequest](ctx, j.c, "/join-requests/plan/"+url.PathEscape(planID))
}

func (j JoinRequests) Create(ctx context.Context, in models.JoinRequestInput) (*models.JoinRequest, error) {
	var out models.JoinRequest
	if err := j.c.Post(ctx, "/join-requests", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (j JoinRequests) Update(ctx context.Context, id string, in models.JoinRequestInput) (*models.JoinRequest, error) {
	var out models.JoinRequest
	if err := j.c.Put(ctx, joinPath(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (j JoinRequests) Delete(ctx context.Context, id string) error {
	return j.c.Delete(ctx, joinPath(id), nil)
}

// Respond accepts or rejects a request on one of the caller's plans.
func (j JoinRequests) Respond(ctx context.Context, id string, status models.JoinRequestStatus) (*models.JoinRequest, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("join request status %q: %w", status, common.ErrValidation)
	}

	body := struct {
		Status models.JoinRequestStatus `json:"status"`
	}{status}

	var out models.JoinRequest
	if err := j.c.Put(ctx, joinPath(id)+"/respond", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (j JoinRequests) List(ctx context.Context) ([]models.JoinRequest, error) {
	return list[models.JoinRequest](ctx, j.c, "/join-requests")
}

func joinPath(id string) string {
	return "/join-requests/" + url.PathEscape(id)
}
