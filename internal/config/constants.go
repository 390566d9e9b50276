package config

import "time"

// Application constants
const (
	// Application Info
	AppName    = "Employee Hours Report"
	AppVersion = "1.0.0"

	// Environment
	EnvPrefix      = "HOURS"
	DotEnvFile     = ".env"
	ConfigFileName = "config.yaml"

	// Report defaults
	DefaultThreshold      = 40.0
	MinThreshold          = 0.0
	MaxThreshold          = 80.0
	DefaultMaxUploadBytes = 32 << 20 // 32MB
	DefaultExportFileName = "Employee_Hours_Report"
	DefaultSheetName      = "Employee Hours"
	MaxSearchLength       = 200

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Network Timeouts
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRequestTimeout  = 60 * time.Second

	// WebSocket
	WebSocketReadBufferSize  = 1024
	WebSocketWriteBufferSize = 1024
	WebSocketPingPeriod      = 30 * time.Second
	WebSocketPongWait        = 60 * time.Second

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogFile   = "logs/app.log"
)

// API Endpoints
const (
	APIBasePath       = "/api"
	ReportEndpoint    = "/api/report"
	HealthEndpoint    = "/api/health"
	VersionEndpoint   = "/api/version"
	MetricsEndpoint   = "/metrics"
	WebSocketEndpoint = "/ws"
)
