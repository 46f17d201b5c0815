// Package internal provides the application entry points for the build,
// serve, browse, and MCP commands.
package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Garden GardenConfig      `yaml:"garden"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	return c.Garden.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds the preview server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// GardenConfig holds the content and output paths.
//
// TemplatePath and StaticPath are optional: an empty TemplatePath uses
// the embedded default templates, an empty StaticPath skips asset
// copying.
type GardenConfig struct {
	ContentPath  string `yaml:"content_path"`
	OutputPath   string `yaml:"output_path"`
	TemplatePath string `yaml:"template_path"`
	StaticPath   string `yaml:"static_path"`
}

// Validate validates the garden configuration.
func (c *GardenConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ContentPath, validation.Required),
		validation.Field(&c.OutputPath, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Garden: GardenConfig{
			ContentPath: "./notes",
			OutputPath:  "./public",
			StaticPath:  "./static",
		},
	}
}
