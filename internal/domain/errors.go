package domain

import "errors"

var (
	// ErrConfiguration is returned when required configuration such as the API key is missing
	ErrConfiguration = errors.New("invalid configuration")

	// ErrUpstreamUnavailable is returned when the recipe API cannot be reached or answers with a non-2xx status
	ErrUpstreamUnavailable = errors.New("recipe API unavailable")

	// ErrMalformedResponse is returned when the recipe API answers with JSON that does not match the expected schema
	ErrMalformedResponse = errors.New("malformed recipe API response")
)
