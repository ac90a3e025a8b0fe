// Package config loads server and canvas settings from a TOML file, with
// sensible defaults when no file is present and TIKZCANVAS_* environment
// overrides on top.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/okrause/tikzcanvas/pkg/apperr"
	"github.com/okrause/tikzcanvas/pkg/canvas"
)

// Config is the full application configuration.
type Config struct {
	Server Server `toml:"server"`
	Canvas Canvas `toml:"canvas"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string   `toml:"addr"`
	DatabasePath string   `toml:"database_path"`
	JWTSecret    string   `toml:"jwt_secret"`
	TokenTTL     Duration `toml:"token_ttl"`
}

// Canvas configures the unit-to-pixel projection and drag snapping.
type Canvas struct {
	Scale    float64 `toml:"scale"`
	OriginX  float64 `toml:"origin_x"`
	OriginY  float64 `toml:"origin_y"`
	SnapGrid float64 `toml:"snap_grid"`
}

// Duration wraps time.Duration so TOML values like "24h" decode.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Server: Server{
			Addr:         ":8080",
			DatabasePath: "tikzcanvas.db",
			TokenTTL:     Duration(24 * time.Hour),
		},
		Canvas: Canvas{
			Scale:   canvas.DefaultScale,
			OriginX: canvas.DefaultOriginX,
			OriginY: canvas.DefaultOriginY,
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		applyEnv(&cfg)
		return cfg, nil
	}
	if err != nil {
		return cfg, apperr.Wrap(apperr.CodeInvalidInput, err, "reading config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, apperr.Wrap(apperr.CodeInvalidInput, err, "parsing config %s", path)
	}
	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv lets deployment environments override the file. Secrets in
// particular tend to be injected this way rather than written to disk.
func applyEnv(cfg *Config) {
	if v := os.Getenv("TIKZCANVAS_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TIKZCANVAS_DB"); v != "" {
		cfg.Server.DatabasePath = v
	}
	if v := os.Getenv("TIKZCANVAS_JWT_SECRET"); v != "" {
		cfg.Server.JWTSecret = v
	}
}

// TokenTTLDuration returns the configured token lifetime.
func (s Server) TokenTTLDuration() time.Duration {
	return time.Duration(s.TokenTTL)
}

// Mapper builds the coordinate mapper described by the canvas settings.
func (c Canvas) Mapper() canvas.Mapper {
	return canvas.Mapper{
		Scale:  c.Scale,
		Origin: canvas.Pixel{X: c.OriginX, Y: c.OriginY},
	}
}
