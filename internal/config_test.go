package internal

import (
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	req := require.New(t)

	var config Config
	_, err := env.UnmarshalFromEnviron(&config)
	req.NoError(err)

	req.Equal("127.0.0.1:5555", config.Addr())
	req.Equal("INFO", config.LogLevel)
	req.True(config.ModerationEnabled)
	req.Equal("*", config.CharReplacement)
	req.Equal(30*time.Second, config.TelemetryInterval)
}

func TestConfig_OverridesFromEnvironment(t *testing.T) {
	req := require.New(t)
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("PORT", "6000")
	t.Setenv("MODERATION_ENABLED", "false")

	var config Config
	_, err := env.UnmarshalFromEnviron(&config)
	req.NoError(err)

	req.Equal("0.0.0.0:6000", config.Addr())
	req.False(config.ModerationEnabled)
}

func TestCharacterRune(t *testing.T) {
	req := require.New(t)

	r, err := CharacterRune("*")
	req.NoError(err)
	req.Equal('*', r)

	_, err = CharacterRune("")
	req.Error(err)

	_, err = CharacterRune("**")
	req.Error(err)
}
