package reading

import (
	"context"
	"fmt"
)

// EntitlementChecker answers whether a user may read a book's content.
type EntitlementChecker struct {
	store EntitlementStore
}

// NewEntitlementChecker creates an EntitlementChecker.
func NewEntitlementChecker(store EntitlementStore) *EntitlementChecker {
	return &EntitlementChecker{store: store}
}

// CanRead reports whether the user may read the book: an admin always may;
// otherwise an entitlement record must exist for (userID, bookID).
// Pure lookup, no side effects. Whether the book itself exists is the
// caller's concern, not this check's.
func (c *EntitlementChecker) CanRead(ctx context.Context, userID, bookID string, isAdmin bool) (bool, error) {
	if isAdmin {
		return true, nil
	}
	ok, err := c.store.HasEntitlement(ctx, userID, bookID)
	if err != nil {
		return false, fmt.Errorf("failed to check entitlement: %w", err)
	}
	return ok, nil
}
