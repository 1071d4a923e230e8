package api

import (
	"context"
	"io"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/travelmate/internal/client/httpx"
	"github.com/dmitrijs2005/travelmate/internal/client/models"
)

// Image is an optional file attached to a multipart create.
type Image struct {
	Filename string
	Content  io.Reader
}

// TravelPlans groups the /travel-plans endpoints.
type TravelPlans struct{ c *Client }

func (t TravelPlans) Mine(ctx context.Context) ([]models.TravelPlan, error) {
	return list[models.TravelPlan](ctx, t.c, "/travel-plans/my")
}

func (t TravelPlans) Get(ctx context.Context, id string) (*models.TravelPlan, error) {
	var out models.TravelPlan
	if err := t.c.Get(ctx, planPath(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t TravelPlans) Update(ctx context.Context, id string, in models.PlanInput) (*models.TravelPlan, error) {
	var out models.TravelPlan
	if err := t.c.Put(ctx, planPath(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t TravelPlans) Delete(ctx context.Context, id string) error {
	return t.c.Delete(ctx, planPath(id), nil)
}

// Create posts a new plan as multipart form fields, with image attached
// when non-nil.
func (t TravelPlans) Create(ctx context.Context, in models.PlanInput, image *Image) (*models.TravelPlan, error) {
	var form httpx.Form
	addIf := func(name, value string) {
		if value != "" {
			form.Add(name, value)
		}
	}
	addIf("destination", in.Destination)
	addIf("startDate", in.StartDate)
	addIf("endDate", in.EndDate)
	if in.Budget > 0 {
		form.Add("budget", strconv.FormatFloat(in.Budget, 'f', -1, 64))
	}
	addIf("travelType", in.TravelType)
	addIf("description", in.Description)
	if image != nil {
		form.AddFile("image", image.Filename, image.Content)
	}

	var out models.TravelPlan
	if err := t.c.upload(ctx, "/travel-plans", &form, "Create travel plan failed", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t TravelPlans) Complete(ctx context.Context, id string) (*models.TravelPlan, error) {
	var out models.TravelPlan
	if err := t.c.Put(ctx, planPath(id)+"/complete", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t TravelPlans) List(ctx context.Context) ([]models.TravelPlan, error) {
	return list[models.TravelPlan](ctx, t.c, "/travel-plans")
}

// Search passes query through as the query string.
func (t TravelPlans) Search(ctx context.Context, query url.Values) ([]models.TravelPlan, error) {
	return list[models.TravelPlan](ctx, t.c, "/travel-plans/search?"+query.Encode())
}

func planPath(id string) string {
	return "/travel-plans/" + url.PathEscape(id)
}
