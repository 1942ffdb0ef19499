package reading

import (
	"context"
	"errors"
	"testing"
)

type fakeEntitlements struct {
	granted map[string]bool // userID|bookID
	err     error
	calls   int
}

func (f *fakeEntitlements) HasEntitlement(ctx context.Context, userID, bookID string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.granted[userID+"|"+bookID], nil
}

func TestCanRead(t *testing.T) {
	testCases := []struct {
		name    string
		userID  string
		bookID  string
		isAdmin bool
		granted map[string]bool
		want    bool
	}{
		{
			name:    "admin without entitlement",
			userID:  "u1",
			bookID:  "b1",
			isAdmin: true,
			want:    true,
		},
		{
			name:    "reader with entitlement",
			userID:  "u1",
			bookID:  "b1",
			granted: map[string]bool{"u1|b1": true},
			want:    true,
		},
		{
			name:    "reader without entitlement",
			userID:  "u1",
			bookID:  "b1",
			granted: map[string]bool{"u1|b2": true},
			want:    false,
		},
		{
			name:   "anonymous reader",
			userID: "",
			bookID: "b1",
			want:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeEntitlements{granted: tc.granted}
			checker := NewEntitlementChecker(store)

			got, err := checker.CanRead(context.Background(), tc.userID, tc.bookID, tc.isAdmin)
			if err != nil {
				t.Fatalf("CanRead returned error: %v", err)
			}
			if got != tc.want {
				t.Errorf("CanRead = %v, want %v", got, tc.want)
			}
			if tc.isAdmin && store.calls != 0 {
				t.Errorf("admin check must not hit the store, got %d calls", store.calls)
			}
		})
	}
}

func TestCanReadPropagatesStoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	checker := NewEntitlementChecker(&fakeEntitlements{err: storeErr})

	ok, err := checker.CanRead(context.Background(), "u1", "b1", false)
	if ok {
		t.Error("a failed lookup must not grant access")
	}
	if !errors.Is(err, storeErr) {
		t.Errorf("expected wrapped store error, got: %v", err)
	}
}
