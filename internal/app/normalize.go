package app

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"lodgify_sync/internal/domain"
)

/********** raw-record helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// firstPresent returns the value of the first path that is present and not
// an empty string. Path order is significant: it encodes producer priority.
func firstPresent(m map[string]any, paths ...string) any {
	for _, p := range paths {
		v := lookupAny(m, p)
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		return v
	}
	return nil
}

// asString renders a raw field as a string. Numeric reservation ids arrive
// from JSON as float64, so integers are formatted without an exponent.
func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	}
	return ""
}

/********** normalizers (pure, never error) **********/

// NormalizePhone reduces a free-form phone string to an E.164-like form:
// digits and a leading + only, international 00 prefix rewritten to +.
// Anything without a country code, or too short to be a real number,
// normalizes to "".
func NormalizePhone(raw string) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range raw {
		if r == '+' || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	p := b.String()
	if strings.HasPrefix(p, "00") {
		p = "+" + p[2:]
	}
	if !strings.HasPrefix(p, "+") {
		return ""
	}
	if len(p) <= 4 {
		return ""
	}
	return p
}

// ParseDate extracts the YYYY-MM-DD date component from a date or timestamp
// string. Returns "" when the value does not parse.
func ParseDate(raw string) string {
	if raw == "" {
		return ""
	}
	raw, _, _ = strings.Cut(raw, "T")
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}

var statusLabels = map[string]string{
	"confirmed": domain.StatusConfirmed,
	"booked":    domain.StatusConfirmed,
	"pending":   domain.StatusPending,
	"paid":      domain.StatusPaid,
	"cancelled": domain.StatusCancelled,
	"canceled":  domain.StatusCancelled,
}

// NormalizeStatus maps a raw status onto a board label. Total: unknown and
// empty inputs land on Pending.
func NormalizeStatus(raw string) string {
	if label, ok := statusLabels[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return label
	}
	return domain.StatusPending
}

// CoerceAmount pulls a float out of whatever the producer sent
// (float64/int/string, comma decimals tolerated). ok is false for
// non-numeric input.
func CoerceAmount(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f, true
		}
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		if s == "" {
			return 0, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
