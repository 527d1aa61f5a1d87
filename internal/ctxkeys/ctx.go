package ctxkeys

import (
	"context"

	"github.com/lkd-web/kurs/internal/model"
)

type ctxKey int

const (
	userKey ctxKey = iota
)

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// User returns the authenticated user from the context, or nil.
func User(ctx context.Context) *model.User {
	user, _ := ctx.Value(userKey).(*model.User)
	return user
}
