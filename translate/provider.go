// Package translate post-processes extracted book markup through an external
// machine-translation provider, chunking text nodes to fit the provider's
// request size limits and reassembling the translated segments in place.
package translate

import "context"

// Provider is the external translation service. Implementations may fail,
// throttle, or reject requests; the pipeline recovers from all of these by
// falling back to the untranslated content.
type Provider interface {
	TranslateText(ctx context.Context, text, targetLang string) (string, error)
}
