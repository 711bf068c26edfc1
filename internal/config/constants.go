package config

// Application constants
const (
	AppName    = "inflammation"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable, e.g. INFLAMMATION_SERVER_PORT
	EnvPrefix         = "INFLAMMATION"
	DefaultConfigFile = "inflammation.yaml"

	// Data discovery
	DefaultCSVPattern  = "inflammation*.csv"
	DefaultJSONPattern = "*.json"
	DefaultXLSXPattern = "inflammation*.xlsx"

	DefaultParseWorkers = 4
	DefaultCacheSize    = 64

	// Log settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)
