package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Input       InputConfig       `yaml:"input" envconfig:"INPUT"`
	Aggregation AggregationConfig `yaml:"aggregation" envconfig:"AGGREGATION"`
	Chart       ChartConfig       `yaml:"chart" envconfig:"CHART"`
	Output      OutputConfig      `yaml:"output" envconfig:"OUTPUT"`
	Server      ServerConfig      `yaml:"server" envconfig:"SERVER"`
	Logging     LoggingConfig     `yaml:"logging" envconfig:"LOGGING"`
}

// InputConfig locates the commissioning workbook
type InputConfig struct {
	Path    string        `yaml:"path" envconfig:"PATH" validate:"required"`
	Sheet   string        `yaml:"sheet" envconfig:"SHEET"`
	Columns ColumnsConfig `yaml:"columns" envconfig:"COLUMNS"`
}

// ColumnsConfig names the five date columns in the workbook header
type ColumnsConfig struct {
	ConstructionStart string `yaml:"construction_start" envconfig:"CONSTRUCTION_START"`
	GridSync          string `yaml:"grid_sync" envconfig:"GRID_SYNC"`
	Commercial        string `yaml:"commercial" envconfig:"COMMERCIAL" validate:"required"`
	Shutdown          string `yaml:"shutdown" envconfig:"SHUTDOWN" validate:"required"`
	Cancelled         string `yaml:"cancelled" envconfig:"CANCELLED"`
}

// AggregationConfig contains the year window and the data capture date
type AggregationConfig struct {
	FirstYear   int    `yaml:"first_year" envconfig:"FIRST_YEAR" validate:"min=1800,max=2200"`
	LastYear    int    `yaml:"last_year" envconfig:"LAST_YEAR" validate:"min=1800,max=2200,gtefield=FirstYear"`
	CaptureDate string `yaml:"capture_date" envconfig:"CAPTURE_DATE" validate:"required,datetime=2006-01-02"`
}

// ChartConfig contains chart text and geometry
type ChartConfig struct {
	Title         string  `yaml:"title" envconfig:"TITLE"`
	YAxisTitle    string  `yaml:"y_axis_title" envconfig:"Y_AXIS_TITLE"`
	ColorbarTitle string  `yaml:"colorbar_title" envconfig:"COLORBAR_TITLE"`
	SeriesName    string  `yaml:"series_name" envconfig:"SERIES_NAME"`
	ColorScale    string  `yaml:"color_scale" envconfig:"COLOR_SCALE" validate:"oneof=emrld kindlmann blackbody"`
	Width         float64 `yaml:"width" envconfig:"WIDTH" validate:"gt=0"`
	Height        float64 `yaml:"height" envconfig:"HEIGHT" validate:"gt=0"`
	YMin          float64 `yaml:"y_min" envconfig:"Y_MIN"`
	// YMax of 0 scales the axis to the tallest bar
	YMax float64 `yaml:"y_max" envconfig:"Y_MAX" validate:"gte=0"`
}

// OutputConfig contains output artifact locations
type OutputConfig struct {
	HTMLPath string `yaml:"html_path" envconfig:"HTML_PATH" validate:"required"`
	CSVPath  string `yaml:"csv_path" envconfig:"CSV_PATH"`
	PNGPath  string `yaml:"png_path" envconfig:"PNG_PATH"`
	// RecordsCSVPath exports the parsed workbook rows when set
	RecordsCSVPath string `yaml:"records_csv_path" envconfig:"RECORDS_CSV_PATH"`
	Show           bool   `yaml:"show" envconfig:"SHOW"`
}

// ServerConfig contains the viewer HTTP server configuration
type ServerConfig struct {
	Host            string          `yaml:"host" envconfig:"HOST"`
	Port            int             `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	OpenBrowser     bool            `yaml:"open_browser" envconfig:"OPEN_BROWSER"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig throttles the /api routes; zero RPS disables limiting
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Load builds the configuration from defaults, an optional YAML file and
// FLEET_* environment variables, in increasing order of precedence.
// An empty configFile searches the usual locations.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; keys absent from the file keep their value
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate normalises case-insensitive keywords and checks struct constraints
func (c *Config) Validate() error {
	c.normalize()
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging.file_path is required when output is %q", c.Logging.Output)
	}
	return nil
}

// normalize lowercases the keyword fields so "Emrld" and "emrld" agree
func (c *Config) normalize() {
	for _, s := range []*string{
		&c.Chart.ColorScale,
		&c.Logging.Level,
		&c.Logging.Format,
		&c.Logging.Output,
	} {
		*s = strings.ToLower(strings.TrimSpace(*s))
	}
}

// CaptureTime returns the data capture instant used as the reference for
// the capture year.
func (a AggregationConfig) CaptureTime() (time.Time, error) {
	t, err := time.Parse(CaptureDateLayout, a.CaptureDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid capture date %q: %w", a.CaptureDate, err)
	}
	return t, nil
}

// ResolveInputPath returns the absolute workbook path. Relative paths are
// looked up next to the executable first and then in the working directory.
func (c *Config) ResolveInputPath(paths *Paths) (string, error) {
	if filepath.IsAbs(c.Input.Path) {
		return c.Input.Path, nil
	}
	if paths != nil {
		candidate := paths.GetRelativePath(c.Input.Path)
		if FileExists(candidate) {
			return candidate, nil
		}
	}
	abs, err := filepath.Abs(c.Input.Path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve input path: %w", err)
	}
	return abs, nil
}

// ListenAddr returns host:port for the viewer server
func (s ServerConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Path: DefaultInputPath,
			Columns: ColumnsConfig{
				ConstructionStart: ColumnConstructionStart,
				GridSync:          ColumnGridSync,
				Commercial:        ColumnCommercial,
				Shutdown:          ColumnShutdown,
				Cancelled:         ColumnCancelled,
			},
		},
		Aggregation: AggregationConfig{
			FirstYear:   DefaultFirstYear,
			LastYear:    DefaultLastYear,
			CaptureDate: DefaultCaptureDate,
		},
		Chart: ChartConfig{
			Title:         ChartTitle,
			YAxisTitle:    ChartYAxisTitle,
			ColorbarTitle: ChartColorbarTitle,
			SeriesName:    ChartSeriesName,
			ColorScale:    "emrld",
			Width:         DefaultChartWidth,
			Height:        DefaultChartHeight,
			YMin:          DefaultYMin,
		},
		Output: OutputConfig{
			HTMLPath: DefaultHTMLFile,
		},
		Server: ServerConfig{
			Host:            DefaultServerHost,
			Port:            DefaultServerPort,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			RateLimit: RateLimitConfig{
				RPS:   DefaultRateLimitRPS,
				Burst: DefaultRateLimitBurst,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
	}
}
