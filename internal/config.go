package internal

import (
	"fmt"
	"time"
)

// Config is the server-side environment configuration.
type Config struct {
	Host              string        `env:"HOST,default=127.0.0.1"`
	Port              int           `env:"PORT,default=5555"`
	LogLevel          string        `env:"LOG_LEVEL,default=INFO"`
	ModerationEnabled bool          `env:"MODERATION_ENABLED,default=true"`
	CharReplacement   string        `env:"CHARACTER_REPLACEMENT,default=*"`
	TelemetryInterval time.Duration `env:"TELEMETRY_INTERVAL,default=30s"`
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CharacterRune converts the single-character replacement setting.
func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
