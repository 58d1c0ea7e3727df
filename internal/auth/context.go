package auth

import (
	"context"
	"net/http"
	"strings"
)

type userIDKey struct{}

func ContextWithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

func UserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDKey{}).(int)
	return userID, ok && userID > 0
}

const TokenHeader = "X-WZ-TOKEN"

// TokenFromRequest reads the session token from the Authorization bearer
// header, falling back to TokenHeader.
func TokenFromRequest(r *http.Request) string {
	if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(bearer)
	}
	return r.Header.Get(TokenHeader)
}
