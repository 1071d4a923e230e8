package api

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/travelmate/internal/client/models"
)

type Reviews struct{ c *Client }

func (r Reviews) ForUser(ctx context.Context, userID string) ([]models.Review, error) {
	return list[models.Review](ctx, r.c, "/reviews/user/"+url.PathEscape(userID))
}

func (r Reviews) Delete(ctx context.Context, id string) error {
	return r.c.Delete(ctx, "/reviews/"+url.PathEscape(id), nil)
}

func (r Reviews) List(ctx context.Context) ([]models.Review, error) {
	return list[models.Review](ctx, r.c, "/reviews")
}

func (r Reviews) Create(ctx context.Context, in models.ReviewInput) (*models.Review, error) {
	var out models.Review
	if err := r.c.Post(ctx, "/reviews", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r Reviews) Update(ctx context.Context, id string, in models.ReviewInput) (*models.Review, error) {
	var out models.Review
	if err := r.c.Put(ctx, "/reviews/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
