package secrets

import (
	"context"
	"testing"

	"github.com/maghrebwx/weather-ingest/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvName(t *testing.T) {
	assert.Equal(t, "OPEN_WEATHER_API_KEY", EnvName("OpenWeatherApiKey"))
	assert.Equal(t, "TOKEN", EnvName("Token"))
	assert.Equal(t, "SINK_BUCKET", EnvName("SinkBucket"))
	assert.Equal(t, "API_KEY", EnvName("APIKey"))
}

func TestResolve(t *testing.T) {
	t.Setenv("OPEN_WEATHER_API_KEY", "sk-test")

	store := NewEnvStore()
	v, err := store.Resolve(context.Background(), "OpenWeatherApiKey")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", v)
}

func TestResolve_Missing(t *testing.T) {
	store := NewEnvStore()
	_, err := store.Resolve(context.Background(), "NoSuchSecretEver")
	require.Error(t, err)

	var serr *domain.SecretResolutionError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "NoSuchSecretEver", serr.Name)
}
