package config

import "time"

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DB                 string        // connection string for the database
	WaitForServices    string        // duration to wait for other services to be ready
	LogLevel           string        // sets the log level (zap log level values)
	SQLLogLevel        string        // sets the log level for sql subsystem
	LogFormat          string        // text vs json
	LogFilter          string        // zapfilter rules, e.g. "info+:* debug:*,-openf1.throttle"
	BaseURL            string        // base URL of the OpenF1 API
	MinRequestInterval time.Duration // minimum delay between two API requests
	MaxRetries         int           // retries for temporary API errors, 0 disables
	RequestTimeout     time.Duration // timeout of a single API request
	ResponseCacheTTL   time.Duration // how long identical requests are served from memory
	CacheDir           string        // fetched tables and the time of the last request
	AnalysisDir        string        // analysis results
	Store              string        // file or postgres
	SessionContext     bool          // also store drivers and weather of analyzed sessions
	KeyMargin          int           // safety margin of the lap/stint ordering key
	MaxTimeGap         float64       // max gap to own best lap in percent
	MaxSectorGap       float64       // max gap of a fast sector in percent
	MinFastSectors     int           // required number of fast sectors
	MaxSpeedDelta      float64       // speed trap delta must be greater than this
	RoundPlaces        int           // decimal places of derived values
)

const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)
