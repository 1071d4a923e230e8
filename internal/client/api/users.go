package api

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/travelmate/internal/client/httpx"
	"github.com/dmitrijs2005/travelmate/internal/client/models"
)

// Users groups the /users endpoints.
type Users struct{ c *Client }

func (u Users) Matches(ctx context.Context) ([]models.User, error) {
	return list[models.User](ctx, u.c, "/users/matches")
}

func (u Users) Profile(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := u.c.Get(ctx, "/users/profile", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (u Users) Get(ctx context.Context, id string) (*models.User, error) {
	var out models.User
	if err := u.c.Get(ctx, "/users/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (u Users) List(ctx context.Context) ([]models.User, error) {
	return list[models.User](ctx, u.c, "/users")
}

func (u Users) Update(ctx context.Context, id string, in models.ProfileUpdate) (*models.User, error) {
	var out models.User
	if err := u.c.Put(ctx, "/users/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (u Users) Delete(ctx context.Context, id string) error {
	return u.c.Delete(ctx, "/users/"+url.PathEscape(id), nil)
}

func (u Users) UpdateProfile(ctx context.Context, in models.ProfileUpdate) (*models.User, error) {
	var out models.User
	if err := u.c.Put(ctx, "/users/profile", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadImage sends content as the profile picture.
func (u Users) UploadImage(ctx context.Context, filename string, content io.Reader) (*models.User, error) {
	var form httpx.Form
	form.AddFile("image", filename, content)

	var out models.User
	if err := u.c.upload(ctx, "/users/upload-image", &form, "Upload failed", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search finds users by free text and interests. Empty arguments are
// left out of the query.
func (u Users) Search(ctx context.Context, query string, interests []string) ([]models.User, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	if len(interests) > 0 {
		params.Set("interests", strings.Join(interests, ","))
	}

	return list[models.User](ctx, u.c, "/users/search?"+params.Encode())
}
