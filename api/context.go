package api

import "context"

type contextKey string

const subjectKey contextKey = "subject"

func ctxWithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

// subjectFromCtx returns the authenticated token subject, or "" on public
// routes.
func subjectFromCtx(ctx context.Context) string {
	subject, _ := ctx.Value(subjectKey).(string)
	return subject
}
