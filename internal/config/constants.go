package config

// Application constants
const (
	// Application Info
	AppName   = "reportsplit"
	EnvPrefix = "REPORTSPLIT"

	// Split defaults
	DefaultTimestampColumn = "origin_timestamp_utc"
	DefaultInputDir        = "."
	DefaultOutputDir       = "split_by_month"
	OutputExtension        = ".csv"

	// Summary report
	SummaryFormatCSV  = "csv"
	SummaryFormatXLSX = "xlsx"
	SummaryFileBase   = "split_summary"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogOutput = "console"
	DefaultLogFile   = "logs/reportsplit.log"

	// Telemetry
	TraceExporterStdout = "stdout"
	TraceExporterNone   = "none"
)

// DefaultEncodings is the ordered list of candidate input encodings.
// The first encoding that decodes a file without error wins.
var DefaultEncodings = []string{"utf-8", "latin-1", "cp1252", "iso-8859-1"}

// ConfigFileLocations are searched in order when no config file is given
var ConfigFileLocations = []string{
	"reportsplit.yaml",
	"configs/reportsplit.yaml",
}
