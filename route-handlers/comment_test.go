package routehandlers

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/pageturn/biblio/webutil"
)

func TestValidateRating(t *testing.T) {
	testCases := []struct {
		rating int
		valid  bool
	}{
		{0, true}, // unrated
		{1, true},
		{3, true},
		{5, true},
		{-1, false},
		{6, false},
		{100, false},
	}

	for _, tc := range testCases {
		t.Run(strconv.Itoa(tc.rating), func(t *testing.T) {
			err := validateRating(tc.rating)
			if tc.valid {
				if err != nil {
					t.Fatalf("validateRating(%d) = %v, want nil", tc.rating, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("validateRating(%d) = nil, want error", tc.rating)
			}

			var httpErr *webutil.HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("error type = %T, want *webutil.HTTPError", err)
			}
			if httpErr.Code != 400 {
				t.Errorf("code = %d, want 400", httpErr.Code)
			}
			if !strings.Contains(httpErr.Message, "1 to 5") || !strings.Contains(httpErr.Message, "omitted") {
				t.Errorf("message %q does not describe the accepted range", httpErr.Message)
			}
		})
	}
}
