// Package config loads docexport settings from defaults, an optional config
// file, a .env file and DOCEXPORT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/gompdf/docexport/internal/pagination"
	"github.com/gompdf/docexport/internal/render/ics"
	"github.com/gompdf/docexport/internal/text"
	"github.com/gompdf/docexport/pkg/api"
)

// EnvPrefix is prepended to every environment variable
const EnvPrefix = "DOCEXPORT"

// ConfigFileEnv names the variable that points at a config file
const ConfigFileEnv = EnvPrefix + "_CONFIG"

type (
	Config struct {
		Server    ServerConfig    `mapstructure:"server"`
		Log       LogConfig       `mapstructure:"log"`
		Page      PageConfig      `mapstructure:"page"`
		Font      FontConfig      `mapstructure:"font"`
		PDF       PDFConfig       `mapstructure:"pdf"`
		Calendar  CalendarConfig  `mapstructure:"calendar"`
		Resources ResourcesConfig `mapstructure:"resources"`
	}

	ServerConfig struct {
		Address         string        `mapstructure:"address"`
		ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
		RequestLogs     bool          `mapstructure:"requestLogs"`
		Debug           bool          `mapstructure:"debug"`
	}

	LogConfig struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	}

	PageConfig struct {
		// Size is a paper name (A4, Letter, ...) and wins over Width and Height
		Size                string  `mapstructure:"size"`
		Width               float64 `mapstructure:"width"`
		Height              float64 `mapstructure:"height"`
		Orientation         string  `mapstructure:"orientation"`
		Margin              float64 `mapstructure:"margin"`
		LineHeight          float64 `mapstructure:"lineHeight"`
		TitleFontSize       float64 `mapstructure:"titleFontSize"`
		BodyFontSize        float64 `mapstructure:"bodyFontSize"`
		TitleReservedHeight float64 `mapstructure:"titleReservedHeight"`
	}

	FontConfig struct {
		Family string `mapstructure:"family"`
	}

	PDFConfig struct {
		Author   string `mapstructure:"author"`
		Creator  string `mapstructure:"creator"`
		Producer string `mapstructure:"producer"`
	}

	CalendarConfig struct {
		ProdID string `mapstructure:"prodId"`
	}

	ResourcesConfig struct {
		Paths []string `mapstructure:"paths"`
	}
)

// New returns a viper instance with defaults, environment binding and, when
// configFile (or DOCEXPORT_CONFIG) is set, the contents of that file.
// A .env file in the working directory is loaded first if present.
func New(configFile string) (*viper.Viper, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		configFile = os.Getenv(ConfigFileEnv)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config.ReadInConfig(%s): %w", configFile, err)
		}
	}
	return v, nil
}

// Load reads the configuration into a Config and validates it
func Load(configFile string) (*Config, error) {
	v, err := New(configFile)
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// FromViper decodes and validates the settings held by v
func FromViper(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config.Unmarshal: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err == nil {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("config.godotenv(%s): %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("config.os.Stat(%s): %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	g := pagination.DefaultGeometry()

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.shutdownTimeout", 10*time.Second)
	v.SetDefault("server.requestLogs", true)
	v.SetDefault("server.debug", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("page.size", "")
	v.SetDefault("page.width", g.Width)
	v.SetDefault("page.height", g.Height)
	v.SetDefault("page.orientation", string(api.PageOrientationPortrait))
	v.SetDefault("page.margin", g.Margin)
	v.SetDefault("page.lineHeight", g.LineHeight)
	v.SetDefault("page.titleFontSize", g.TitleFontSize)
	v.SetDefault("page.bodyFontSize", g.BodyFontSize)
	v.SetDefault("page.titleReservedHeight", g.TitleReservedHeight)

	v.SetDefault("font.family", text.DefaultFamily)

	v.SetDefault("pdf.author", "")
	v.SetDefault("pdf.creator", "docexport")
	v.SetDefault("pdf.producer", "docexport")

	v.SetDefault("calendar.prodId", ics.DefaultProdID)

	v.SetDefault("resources.paths", []string{})
}

// Validate rejects settings that cannot produce a working exporter
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q", c.Log.Format)
	}
	switch api.PageOrientation(strings.ToLower(c.Page.Orientation)) {
	case api.PageOrientationPortrait, api.PageOrientationLandscape:
	default:
		return fmt.Errorf("invalid page.orientation %q", c.Page.Orientation)
	}
	if c.Page.Size != "" {
		if _, _, ok := api.PageSizeByName(c.Page.Size); !ok {
			return fmt.Errorf("unknown page.size %q", c.Page.Size)
		}
	}
	if _, err := text.MetricsFor(c.Font.Family); err != nil {
		return fmt.Errorf("invalid font.family: %w", err)
	}
	return nil
}

// ExportOptions translates the configuration into exporter options
func (c *Config) ExportOptions() []api.Option {
	width, height := c.Page.Width, c.Page.Height
	if w, h, ok := api.PageSizeByName(c.Page.Size); ok {
		width, height = w, h
	}

	opts := []api.Option{
		api.WithPageSize(width, height),
		api.WithPageOrientation(api.PageOrientation(strings.ToLower(c.Page.Orientation))),
		api.WithMargin(c.Page.Margin),
		api.WithLineHeight(c.Page.LineHeight),
		api.WithFontSizes(c.Page.TitleFontSize, c.Page.BodyFontSize),
		func(o *api.Options) { o.TitleReservedHeight = c.Page.TitleReservedHeight },
		api.WithFontFamily(c.Font.Family),
		api.WithAuthor(c.PDF.Author),
		api.WithCreator(c.PDF.Creator),
		func(o *api.Options) { o.Producer = c.PDF.Producer },
		api.WithProdID(c.Calendar.ProdID),
	}
	for _, p := range c.Resources.Paths {
		opts = append(opts, api.WithResourcePath(p))
	}
	return opts
}
