// Package preferences holds per-user storefront settings such as cookie
// consent, colour theme and analytics opt-in.
package preferences

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	KeyCookieConsent  = "cookie_consent"
	KeyTheme          = "theme"
	KeyAnalyticsOptIn = "analytics_opt_in"
)

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

var (
	ErrUnknownKey   = errors.New("unknown preference key")
	ErrInvalidValue = errors.New("invalid preference value")
)

// Keys lists every supported preference in a stable order.
var Keys = []string{KeyCookieConsent, KeyTheme, KeyAnalyticsOptIn}

type Preferences struct {
	CookieConsent  bool   `json:"cookie_consent"`
	Theme          string `json:"theme"`
	AnalyticsOptIn bool   `json:"analytics_opt_in"`
}

// Defaults is what a user without stored preferences gets.
func Defaults() Preferences {
	return Preferences{Theme: ThemeSystem}
}

// Get returns the string form of key.
func (p *Preferences) Get(key string) (string, error) {
	switch key {
	case KeyCookieConsent:
		return strconv.FormatBool(p.CookieConsent), nil
	case KeyTheme:
		return p.Theme, nil
	case KeyAnalyticsOptIn:
		return strconv.FormatBool(p.AnalyticsOptIn), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
}

// Set parses value for key. p is left untouched on error.
func (p *Preferences) Set(key, value string) error {
	switch key {
	case KeyCookieConsent, KeyAnalyticsOptIn:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be a boolean, got %q", ErrInvalidValue, key, value)
		}
		if key == KeyCookieConsent {
			p.CookieConsent = b
		} else {
			p.AnalyticsOptIn = b
		}
	case KeyTheme:
		switch value {
		case ThemeLight, ThemeDark, ThemeSystem:
			p.Theme = value
		default:
			return fmt.Errorf("%w: theme must be light, dark or system, got %q", ErrInvalidValue, value)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}

// Apply sets every pair in values, stopping at the first failure. p is left
// untouched unless all pairs are valid.
func (p *Preferences) Apply(values map[string]string) error {
	next := *p
	for _, key := range Keys {
		if v, ok := values[key]; ok {
			if err := next.Set(key, v); err != nil {
				return err
			}
		}
	}
	for key := range values {
		if _, err := next.Get(key); err != nil {
			return err
		}
	}
	*p = next
	return nil
}

// Map returns every preference in string form.
func (p *Preferences) Map() map[string]string {
	out := make(map[string]string, len(Keys))
	for _, key := range Keys {
		v, _ := p.Get(key)
		out[key] = v
	}
	return out
}
