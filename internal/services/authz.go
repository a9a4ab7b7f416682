package services

import (
	"context"
	"errors"
	"fmt"

	"earnwallet/internal/models"
	"earnwallet/internal/store"
)

// ErrForbidden is returned when a caller lacks the role a privileged
// operation requires. It is distinct from store.ErrNotFound so handlers can
// map the two to different status codes.
var ErrForbidden = errors.New("forbidden")

// requireAdmin resolves the caller to a user record and checks its role.
// Privileged operations call this before doing any work; the role on the
// stored record is authoritative, not whatever the caller's token claims.
func requireAdmin(ctx context.Context, st store.Store, callerID string) (*models.User, error) {
	caller, err := st.GetUser(ctx, callerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("caller %s: %w", callerID, ErrForbidden)
		}
		return nil, err
	}
	if caller.Role != string(models.RoleAdmin) {
		return nil, fmt.Errorf("caller %s: %w", callerID, ErrForbidden)
	}
	return caller, nil
}
