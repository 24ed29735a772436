// Package rbac holds role checks for authenticated RPCs.
package rbac

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"craftconnect/backend/internal/account/domain"
	"craftconnect/backend/internal/server/interceptors"
)

// RequireAccount ensures the caller is authenticated. Returns (accountID, role, nil) on success
// and a gRPC Unauthenticated error otherwise.
func RequireAccount(ctx context.Context) (accountID string, role domain.Role, err error) {
	accountID, okID := interceptors.GetAccountID(ctx)
	r, okRole := interceptors.GetRole(ctx)
	if !okID || accountID == "" || !okRole || !domain.Role(r).Valid() {
		return "", "", status.Error(codes.Unauthenticated, "authenticated account required")
	}
	return accountID, domain.Role(r), nil
}

// RequireRole ensures the caller is authenticated with the given role. Returns the account id,
// or Unauthenticated / PermissionDenied.
func RequireRole(ctx context.Context, want domain.Role) (string, error) {
	accountID, role, err := RequireAccount(ctx)
	if err != nil {
		return "", err
	}
	if role != want {
		return "", status.Errorf(codes.PermissionDenied, "%s role required", want)
	}
	return accountID, nil
}
