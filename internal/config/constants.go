package config

import (
	"time"

	"nuclearfleet/pkg/contracts"
)

// Application constants
const (
	AppName    = "Nuclear Fleet Chart"
	AppVersion = contracts.Version

	// Environment prefix for envconfig (FLEET_INPUT_PATH, FLEET_LOGGING_LEVEL, ...)
	EnvPrefix = "FLEET"

	// Input workbook, relative to the executable directory
	DefaultInputPath = "../ee-nuclear-commissioning/data/nuclear_power_plants.xlsx"

	// Source-locale column headers of the commissioning workbook
	ColumnConstructionStart = "Baubeginn"
	ColumnGridSync          = "erste Netzsynchronisation"
	ColumnCommercial        = "Kommerzieller Betrieb"
	ColumnShutdown          = "Abschaltung"
	ColumnCancelled         = "Bau/Projekt eingestellt"

	// Aggregation window and data capture date
	DefaultFirstYear   = 1955
	DefaultLastYear    = 2023
	DefaultCaptureDate = "2023-05-07"
	CaptureDateLayout  = "2006-01-02"

	// Output files
	DefaultHTMLFile = "index.html"
	DefaultLogFile  = "logs/fleetchart.log"

	// Chart geometry in points
	DefaultChartWidth  = 997
	DefaultChartHeight = 580
	DefaultYMin        = -5

	// Viewer server
	DefaultServerHost      = "127.0.0.1"
	DefaultServerPort      = 8050
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultRateLimitRPS    = 50
	DefaultRateLimitBurst  = 100
)

// Chart text
const (
	ChartTitle         = "Evolution of Nuclear Power Plants in Europe:\nCount and Average Age of Operating Nuclear Reactors by Year"
	ChartYAxisTitle    = "Number of Operating Nuclear Reactors"
	ChartColorbarTitle = "Average Age in Years"
	ChartSeriesName    = "Number of Operating Nuclear Reactors"
)
