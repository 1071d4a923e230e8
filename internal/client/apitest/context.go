package apitest

import "context"

func withUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, userID)
}

func userID(ctx context.Context) string {
	id, _ := ctx.Value(ctxUserKey{}).(string)
	return id
}
