package auth

import "context"

type sessionContextKey string

const sessionKey sessionContextKey = "auth_session"

type Session struct {
	ID string
}

func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

func SessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionKey).(Session)
	return session, ok
}
