package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves into an empty directory so no config.yaml is discovered
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultInputPath, cfg.Input.Path)
	assert.Equal(t, "Kommerzieller Betrieb", cfg.Input.Columns.Commercial)
	assert.Equal(t, "Abschaltung", cfg.Input.Columns.Shutdown)
	assert.Equal(t, 1955, cfg.Aggregation.FirstYear)
	assert.Equal(t, 2023, cfg.Aggregation.LastYear)
	assert.Equal(t, "2023-05-07", cfg.Aggregation.CaptureDate)
	assert.Equal(t, "index.html", cfg.Output.HTMLPath)
	assert.Equal(t, float64(997), cfg.Chart.Width)
	assert.Equal(t, float64(580), cfg.Chart.Height)
	assert.Equal(t, "emrld", cfg.Chart.ColorScale)
	assert.Equal(t, ChartSeriesName, cfg.Chart.SeriesName)
	assert.Equal(t, float64(50), cfg.Server.RateLimit.RPS)
	assert.Empty(t, cfg.Output.RecordsCSVPath)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars or file",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 1955, cfg.Aggregation.FirstYear)
				assert.Equal(t, 8050, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
			},
		},
		{
			name: "env vars override defaults",
			env: map[string]string{
				"FLEET_INPUT_PATH":             "/data/plants.xlsx",
				"FLEET_AGGREGATION_FIRST_YEAR": "1960",
				"FLEET_LOGGING_LEVEL":          "debug",
				"FLEET_SERVER_READ_TIMEOUT":    "30s",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/data/plants.xlsx", cfg.Input.Path)
				assert.Equal(t, 1960, cfg.Aggregation.FirstYear)
				assert.Equal(t, 2023, cfg.Aggregation.LastYear)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
			},
		},
		{
			name: "yaml file overlays defaults",
			file: `
input:
  sheet: Reaktoren
aggregation:
  last_year: 2022
chart:
  y_max: 210
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "Reaktoren", cfg.Input.Sheet)
				assert.Equal(t, 2022, cfg.Aggregation.LastYear)
				assert.Equal(t, float64(210), cfg.Chart.YMax)
				assert.Equal(t, "Abschaltung", cfg.Input.Columns.Shutdown)
			},
		},
		{
			name: "env wins over file",
			env:  map[string]string{"FLEET_AGGREGATION_LAST_YEAR": "2020"},
			file: "aggregation:\n  last_year: 2022\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 2020, cfg.Aggregation.LastYear)
			},
		},
		{
			name:    "inverted year range fails validation",
			env:     map[string]string{"FLEET_AGGREGATION_FIRST_YEAR": "2000", "FLEET_AGGREGATION_LAST_YEAR": "1990"},
			wantErr: true,
		},
		{
			name:    "bad capture date fails validation",
			env:     map[string]string{"FLEET_AGGREGATION_CAPTURE_DATE": "07.05.2023"},
			wantErr: true,
		},
		{
			name:    "unknown color scale fails validation",
			env:     map[string]string{"FLEET_CHART_COLOR_SCALE": "rainbow"},
			wantErr: true,
		},
		{
			name:    "unparseable env value",
			env:     map[string]string{"FLEET_SERVER_PORT": "not-a-port"},
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "aggregation: [unterminated",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := chdirTemp(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			configFile := ""
			if tt.file != "" {
				configFile = filepath.Join(dir, "config.yaml")
				require.NoError(t, os.WriteFile(configFile, []byte(tt.file), 0644))
			}

			cfg, err := Load(configFile)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoad_DiscoversConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "config.yaml"), []byte("output:\n  csv_path: fleet.csv\n"), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "fleet.csv", cfg.Output.CSVPath)
}

func TestValidate_FileLoggingNeedsPath(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "file"
	cfg.Logging.FilePath = ""

	assert.Error(t, cfg.Validate())
}

func TestValidate_KeywordsAreCaseInsensitive(t *testing.T) {
	cfg := Default()
	cfg.Chart.ColorScale = "Emrld"
	cfg.Logging.Level = " DEBUG"
	cfg.Logging.Format = "Text"

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "emrld", cfg.Chart.ColorScale)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)

	cfg.Chart.ColorScale = "Viridis"
	assert.Error(t, cfg.Validate())
}

func TestAggregationConfig_CaptureTime(t *testing.T) {
	got, err := Default().Aggregation.CaptureTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.May, 7, 0, 0, 0, 0, time.UTC), got)

	_, err = AggregationConfig{CaptureDate: "yesterday"}.CaptureTime()
	assert.Error(t, err)
}

func TestResolveInputPath(t *testing.T) {
	exeDir := t.TempDir()
	workDir := chdirTemp(t)
	paths := NewPaths(exeDir, workDir)

	t.Run("absolute path kept", func(t *testing.T) {
		cfg := Default()
		cfg.Input.Path = filepath.Join(exeDir, "plants.xlsx")
		got, err := cfg.ResolveInputPath(paths)
		require.NoError(t, err)
		assert.Equal(t, cfg.Input.Path, got)
	})

	t.Run("relative path found next to executable", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(exeDir, "plants.xlsx"), []byte("x"), 0644))
		cfg := Default()
		cfg.Input.Path = "plants.xlsx"
		got, err := cfg.ResolveInputPath(paths)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(exeDir, "plants.xlsx"), got)
	})

	t.Run("relative path falls back to working directory", func(t *testing.T) {
		cfg := Default()
		cfg.Input.Path = "elsewhere.xlsx"
		got, err := cfg.ResolveInputPath(paths)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(workDir, "elsewhere.xlsx"), got)
	})
}

func TestServerConfig_ListenAddr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:8050", Default().Server.ListenAddr())
}
