// Package appconf holds application-level configuration shared across packages.
package appconf

// Environment identifies the runtime environment of the application.
type Environment int

const (
	Development Environment = iota
	Test
	Production
)

// String returns the lowercase name of the environment.
func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}

// EnvFlagToEnvironment maps the -env CLI flag value onto an Environment.
// Unknown values fall back to Development.
func EnvFlagToEnvironment(flag string) Environment {
	switch flag {
	case "test":
		return Test
	case "production", "prod":
		return Production
	default:
		return Development
	}
}

// Config holds the runtime configuration for the application.
type Config struct {
	// Env selects development, test, or production behavior.
	Env Environment

	// Verbose enables debug-level logging.
	Verbose bool

	// Port is the listen port for the companion read-only API.
	Port int

	// RateLimit is the per-client request rate for the companion API,
	// in requests per second. Zero disables the API entirely.
	RateLimit int

	// CatalogDBPath is the SQLite path for the station/incident catalog.
	// Tests must use ":memory:".
	CatalogDBPath string

	// GTFSPath optionally points at a static GTFS zip used to build the
	// station catalog instead of the embedded seed data.
	GTFSPath string

	// OutputDir is where submitted report JSON files are written.
	OutputDir string

	// CompressExports writes report exports gzip-compressed when set.
	CompressExports bool
}
