package session

import (
	"context"

	"bybud-web/internal/domain"
)

type (
	stateKey  struct{}
	recordKey struct{}
	idKey     struct{}
)

// WithState returns ctx carrying st and its record.
func WithState(ctx context.Context, st State) context.Context {
	ctx = context.WithValue(ctx, stateKey{}, st)
	return WithRecord(ctx, st.Record)
}

// StateFrom returns the state in ctx; unresolved when none was attached.
func StateFrom(ctx context.Context) State {
	st, _ := ctx.Value(stateKey{}).(State)
	return st
}

// WithRecord returns ctx carrying rec for outgoing API calls.
func WithRecord(ctx context.Context, rec domain.Session) context.Context {
	return context.WithValue(ctx, recordKey{}, rec)
}

// RecordFrom returns the record in ctx.
func RecordFrom(ctx context.Context) (domain.Session, bool) {
	rec, ok := ctx.Value(recordKey{}).(domain.Session)
	return rec, ok
}

// WithID returns ctx carrying the session id.
func WithID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, idKey{}, sid)
}

// IDFrom returns the session id in ctx, or "".
func IDFrom(ctx context.Context) string {
	sid, _ := ctx.Value(idKey{}).(string)
	return sid
}
