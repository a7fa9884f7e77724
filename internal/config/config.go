package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/chartloom-cli/internal/analysis"
	"github.com/KaramelBytes/chartloom-cli/internal/figure"
	"github.com/KaramelBytes/chartloom-cli/internal/render"
	"github.com/KaramelBytes/chartloom-cli/internal/streetmap"
)

// Global configuration structure.
type Global struct {
	Theme figure.Theme `mapstructure:"theme" yaml:"theme"`

	TopN        int  `mapstructure:"top_n" yaml:"top_n" validate:"gte=1"`
	YearStart   int  `mapstructure:"year_start" yaml:"year_start" validate:"gte=1"`
	YearEnd     int  `mapstructure:"year_end" yaml:"year_end" validate:"gtefield=YearStart"`
	StrictDates bool `mapstructure:"strict_dates" yaml:"strict_dates"`

	OutputFormat string `mapstructure:"output_format" yaml:"output_format" validate:"oneof=json html png svg"`

	// Street map viewport
	MapStyle     string  `mapstructure:"map_style" yaml:"map_style" validate:"required"`
	MapCenterLat float64 `mapstructure:"map_center_lat" yaml:"map_center_lat" validate:"gte=-90,lte=90"`
	MapCenterLon float64 `mapstructure:"map_center_lon" yaml:"map_center_lon" validate:"gte=-180,lte=180"`
	MapZoom      float64 `mapstructure:"map_zoom" yaml:"map_zoom" validate:"gte=0,lte=22"`
	MapHeight    int     `mapstructure:"map_height" yaml:"map_height" validate:"gte=0"`

	ServerAddr string `mapstructure:"server_addr" yaml:"server_addr" validate:"required"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"theme.background_color", "theme.font_family", "theme.accent_font_family",
	"theme.dark_color", "theme.pale_color", "theme.line_chart_color",
	"theme.label_font_size", "theme.label_background_color", "theme.colorscale",
	"theme.base_template",
	"top_n", "year_start", "year_end", "strict_dates", "output_format",
	"map_style", "map_center_lat", "map_center_lon", "map_zoom", "map_height",
	"server_addr",
}

var validate = validator.New()

// Validate checks every field, the theme included.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return c.Theme.Validate()
}

// Years is the configured inclusive year window.
func (c *Global) Years() analysis.YearRange {
	return analysis.YearRange{Start: c.YearStart, End: c.YearEnd}
}

// View is the configured street map viewport.
func (c *Global) View() streetmap.View {
	return streetmap.View{
		Style:  c.MapStyle,
		Lat:    c.MapCenterLat,
		Lon:    c.MapCenterLon,
		Zoom:   c.MapZoom,
		Height: c.MapHeight,
	}
}

// Get returns the value of key formatted for display.
func (c *Global) Get(key string) (string, error) {
	t := c.Theme
	switch key {
	case "theme.background_color":
		return t.BackgroundColor, nil
	case "theme.font_family":
		return t.FontFamily, nil
	case "theme.accent_font_family":
		return t.AccentFontFamily, nil
	case "theme.dark_color":
		return t.DarkColor, nil
	case "theme.pale_color":
		return t.PaleColor, nil
	case "theme.line_chart_color":
		return t.LineChartColor, nil
	case "theme.label_font_size":
		return strconv.Itoa(t.LabelFontSize), nil
	case "theme.label_background_color":
		return t.LabelBackgroundColor, nil
	case "theme.colorscale":
		return t.Colorscale, nil
	case "theme.base_template":
		return t.BaseTemplate, nil
	case "top_n":
		return strconv.Itoa(c.TopN), nil
	case "year_start":
		return strconv.Itoa(c.YearStart), nil
	case "year_end":
		return strconv.Itoa(c.YearEnd), nil
	case "strict_dates":
		return strconv.FormatBool(c.StrictDates), nil
	case "output_format":
		return c.OutputFormat, nil
	case "map_style":
		return c.MapStyle, nil
	case "map_center_lat":
		return strconv.FormatFloat(c.MapCenterLat, 'f', -1, 64), nil
	case "map_center_lon":
		return strconv.FormatFloat(c.MapCenterLon, 'f', -1, 64), nil
	case "map_zoom":
		return strconv.FormatFloat(c.MapZoom, 'f', -1, 64), nil
	case "map_height":
		return strconv.Itoa(c.MapHeight), nil
	case "server_addr":
		return c.ServerAddr, nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Set parses val into key and validates the result. On error c is left
// unchanged.
func (c *Global) Set(key, val string) error {
	next := *c
	t := &next.Theme
	var err error
	switch key {
	case "theme.background_color":
		t.BackgroundColor = val
	case "theme.font_family":
		t.FontFamily = val
	case "theme.accent_font_family":
		t.AccentFontFamily = val
	case "theme.dark_color":
		t.DarkColor = val
	case "theme.pale_color":
		t.PaleColor = val
	case "theme.line_chart_color":
		t.LineChartColor = val
	case "theme.label_font_size":
		t.LabelFontSize, err = atoi(key, val)
	case "theme.label_background_color":
		t.LabelBackgroundColor = val
	case "theme.colorscale":
		t.Colorscale = val
	case "theme.base_template":
		t.BaseTemplate = val
	case "top_n":
		next.TopN, err = atoi(key, val)
	case "year_start":
		next.YearStart, err = atoi(key, val)
	case "year_end":
		next.YearEnd, err = atoi(key, val)
	case "strict_dates":
		next.StrictDates, err = strconv.ParseBool(val)
		if err != nil {
			err = fmt.Errorf("invalid bool for %s: %v", key, val)
		}
	case "output_format":
		var f render.Format
		f, err = render.ParseFormat(val)
		next.OutputFormat = string(f)
	case "map_style":
		next.MapStyle = val
	case "map_center_lat":
		next.MapCenterLat, err = atof(key, val)
	case "map_center_lon":
		next.MapCenterLon, err = atof(key, val)
	case "map_zoom":
		next.MapZoom, err = atof(key, val)
	case "map_height":
		next.MapHeight, err = atoi(key, val)
	case "server_addr":
		next.ServerAddr = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

func atoi(key, val string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %v", key, val)
	}
	return i, nil
}

func atof(key, val string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float for %s: %v", key, val)
	}
	return f, nil
}

// Dir is the default configuration directory, ~/.chartloom.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".chartloom"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.chartloom/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	t := figure.DefaultTheme()
	v.SetDefault("theme.background_color", t.BackgroundColor)
	v.SetDefault("theme.font_family", t.FontFamily)
	v.SetDefault("theme.accent_font_family", t.AccentFontFamily)
	v.SetDefault("theme.dark_color", t.DarkColor)
	v.SetDefault("theme.pale_color", t.PaleColor)
	v.SetDefault("theme.line_chart_color", t.LineChartColor)
	v.SetDefault("theme.label_font_size", t.LabelFontSize)
	v.SetDefault("theme.label_background_color", t.LabelBackgroundColor)
	v.SetDefault("theme.colorscale", t.Colorscale)
	v.SetDefault("theme.base_template", t.BaseTemplate)

	v.SetDefault("top_n", 5)
	v.SetDefault("year_start", 2010)
	v.SetDefault("year_end", 2020)
	v.SetDefault("strict_dates", false)
	v.SetDefault("output_format", string(render.JSON))

	view := streetmap.DefaultView()
	v.SetDefault("map_style", view.Style)
	v.SetDefault("map_center_lat", view.Lat)
	v.SetDefault("map_center_lon", view.Lon)
	v.SetDefault("map_zoom", view.Zoom)
	v.SetDefault("map_height", view.Height)

	v.SetDefault("server_addr", "127.0.0.1:8050")
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CHARTLOOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	if err := v.ReadInConfig(); err != nil && !missing(err, cfgFile) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// missing reports whether err only says that there is no config file yet.
func missing(err error, cfgFile string) bool {
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return true
	}
	if cfgFile == "" {
		return false
	}
	_, statErr := os.Stat(cfgFile)
	return errors.Is(statErr, fs.ErrNotExist)
}
