package config

// Application constants for the Skye period report tools
const (
	AppName    = "Skye Financials Automation"
	AppVersion = "1.2.0"

	// EnvPrefix namespaces every environment override, e.g. SKYE_LOGGING_LEVEL.
	EnvPrefix = "SKYE"

	// File Paths (relative to the base directory)
	DefaultDataDir    = "data"
	DefaultInputDir   = "data/input"
	DefaultReportsDir = "data/reports"
	DefaultLogsDir    = "logs"
	DefaultLogFile    = "skye.log"
	DefaultTraceFile  = "traces.json"
	DefaultEnvFile    = ".env"

	// ReportFilePrefix starts every period report file name.
	ReportFilePrefix = "Skye_Period_Report"
)
