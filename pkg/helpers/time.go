package helpers

import (
	"context"
	"strings"
	"time"

	mailtpl "github.com/dietia/dietia-backend/pkg/mailer/templates"
)

const localLayout = "02 January 2006, 15:04 MST"

// LocalizeTimesIfPossible rewrites Time and ExpiresAtText into the timezone
// of the job's IP, and fills Location when it is still empty.
func LocalizeTimesIfPossible(ctx context.Context, resolver mailtpl.GeoResolver, data map[string]any) {
	ip := dataString(data, "IP")
	if resolver == nil || ip == "" {
		return
	}
	g, err := resolver.Lookup(ctx, ip)
	if err != nil {
		return
	}
	if dataString(data, "Location") == "" {
		if loc := mailtpl.FormatGeo(g); loc != "" {
			data["Location"] = loc
		}
	}
	if strings.TrimSpace(g.Timezone) == "" {
		return
	}
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		return
	}
	if t, ok := parseTimeAny(dataString(data, "ExpiresAt")); ok {
		data["ExpiresAtText"] = t.In(loc).Format(localLayout)
	}
	if t, ok := parseTimeAny(dataString(data, "TimeAt")); ok {
		data["Time"] = t.In(loc).Format(localLayout)
	}
}

func parseTimeAny(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05 -0700 MST",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil && !t.IsZero() {
			return t, true
		}
	}
	return time.Time{}, false
}
