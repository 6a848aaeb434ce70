package campaign

import "errors"

var (
	// ErrEmptyBody is returned when an assignment request has no body.
	ErrEmptyBody = errors.New("empty request body")
	// ErrMalformedJSON is returned when the request body is not valid JSON.
	ErrMalformedJSON = errors.New("invalid json")
	// ErrMissingLeadField is returned when the request has no usable "lead" object.
	ErrMissingLeadField = errors.New("invalid request format")
	// ErrNoCampaignsAvailable is returned when the store yields an empty list.
	ErrNoCampaignsAvailable = errors.New("no campaigns available")
	// ErrStoreUnavailable wraps transport, auth and decoding failures of a campaign store.
	ErrStoreUnavailable = errors.New("campaign store unavailable")
	// ErrCompletionUnavailable wraps failures of the completion engine.
	ErrCompletionUnavailable = errors.New("completion engine unavailable")
	// ErrRecommendationParse is returned when a completion reply does not name a listed campaign.
	ErrRecommendationParse = errors.New("could not parse campaign recommendation")
)

// ErrorMessage returns the client-facing message for err. Request and
// availability errors get fixed messages; everything else reports the
// wrapped error text. Store failures never expose their cause.
func ErrorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyBody):
		return "Empty request body"
	case errors.Is(err, ErrMalformedJSON):
		return "Invalid JSON"
	case errors.Is(err, ErrMissingLeadField):
		return "Invalid request format"
	case errors.Is(err, ErrNoCampaignsAvailable), errors.Is(err, ErrStoreUnavailable):
		return "No campaigns available"
	default:
		return err.Error()
	}
}
