package main

import "context"

type contextKey struct{}

func withAccount(ctx context.Context, acct *account) context.Context {
	return context.WithValue(ctx, contextKey{}, acct)
}

func accountFrom(ctx context.Context) *account {
	acct, _ := ctx.Value(contextKey{}).(*account)
	return acct
}
