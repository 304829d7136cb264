package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg := fromViper(newTestViper())

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "classes", cfg.Viewer.DefaultViewType)
	assert.Equal(t, 2*time.Hour, cfg.Viewer.SessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.Viewer.TimetableTTL)
	assert.Equal(t, int64(5*1024*1024), cfg.Viewer.MaxPayloadBytes)
	assert.Equal(t, "csv", cfg.Exports.DefaultFormat)
	assert.Equal(t, time.Hour, cfg.Exports.CleanupInterval)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestFromViperEnvOverrides(t *testing.T) {
	t.Setenv("ENABLE_REDIS", "true")
	t.Setenv("VIEWER_DEFAULT_VIEW", " Faculty ")
	t.Setenv("VIEWER_SESSION_TTL", "45m")
	t.Setenv("EXPORTS_SIGNED_URL_TTL", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg := fromViper(newTestViper())

	require.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "faculty", cfg.Viewer.DefaultViewType)
	assert.Equal(t, 45*time.Minute, cfg.Viewer.SessionTTL)
	assert.Equal(t, 24*time.Hour, cfg.Exports.SignedURLTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("bogus", time.Minute))
	assert.Equal(t, 3*time.Second, parseDuration("3s", time.Minute))
}
