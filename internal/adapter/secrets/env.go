// Package secrets resolves named secrets for the ingestion service.
// Deployments provide secrets through the environment; the store maps a
// logical secret name like "OpenWeatherApiKey" onto its environment
// variable form.
package secrets

import (
	"context"
	"os"
	"strings"
	"unicode"

	"github.com/maghrebwx/weather-ingest/internal/domain"
)

// EnvStore resolves secrets from environment variables.
type EnvStore struct{}

// NewEnvStore creates an environment-backed secret store.
func NewEnvStore() *EnvStore {
	return &EnvStore{}
}

// Resolve returns the secret value for name. A missing or empty variable
// is a resolution error; callers treat it as fatal for the run.
func (s *EnvStore) Resolve(_ context.Context, name string) (string, error) {
	key := EnvName(name)
	v := os.Getenv(key)
	if v == "" {
		return "", &domain.SecretResolutionError{Name: name, Reason: key + " is not set"}
	}
	return v, nil
}

// EnvName converts a CamelCase secret name to its environment variable
// form: "OpenWeatherApiKey" becomes "OPEN_WEATHER_API_KEY".
func EnvName(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				b.WriteRune('_')
			}
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
