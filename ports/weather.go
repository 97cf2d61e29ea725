package ports

import "context"

// WeatherPort produces one opaque entropy string from remote weather
// measurements. Retrieval failures are fully absorbed behind this interface:
// Fingerprint always returns a usable value, substituting a documented
// fallback when the remote fetch fails.
type WeatherPort interface {
	Fingerprint(ctx context.Context) string
}
