package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Override raises or lowers the limit of one client on one endpoint.
type Override struct {
	ClientID string
	Endpoint string
	Limit    RateLimit
}

// ParseOverrides reads "client@METHOD:/route=rpm/burst" entries separated by
// commas, e.g. "api:ops-key@GET:/api/v1/units/export=120/30".
func ParseOverrides(raw string) ([]Override, error) {
	var overrides []Override
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		target, limits, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("rate limit override %q: missing '='", entry)
		}
		clientID, endpoint, ok := strings.Cut(target, "@")
		if !ok || clientID == "" || !strings.Contains(endpoint, ":/") {
			return nil, fmt.Errorf("rate limit override %q: want client@METHOD:/route", entry)
		}
		rpmRaw, burstRaw, ok := strings.Cut(limits, "/")
		if !ok {
			return nil, fmt.Errorf("rate limit override %q: want rpm/burst", entry)
		}
		rpm, err := strconv.Atoi(rpmRaw)
		if err != nil || rpm <= 0 {
			return nil, fmt.Errorf("rate limit override %q: invalid requests per minute", entry)
		}
		burst, err := strconv.Atoi(burstRaw)
		if err != nil || burst <= 0 {
			return nil, fmt.Errorf("rate limit override %q: invalid burst size", entry)
		}

		overrides = append(overrides, Override{
			ClientID: clientID,
			Endpoint: endpoint,
			Limit:    RateLimit{RequestsPerMinute: rpm, BurstSize: burst, WindowSize: time.Minute},
		})
	}
	return overrides, nil
}

// ApplyOverrides installs every override on limiter.
func ApplyOverrides(ctx context.Context, limiter RateLimiter, overrides []Override) error {
	for _, o := range overrides {
		if err := limiter.SetCustomLimit(ctx, o.ClientID, o.Endpoint, o.Limit); err != nil {
			return fmt.Errorf("failed to apply override for %s on %s: %w", o.ClientID, o.Endpoint, err)
		}
	}
	return nil
}
