// Package constants provides shared constants used throughout the catalogsync codebase.
// This includes remote catalog limits, metric naming, file permissions, and
// other values that must stay consistent between the library and the CLI.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 30 * time.Minute

	// DefaultTimeout is the standard timeout for short auxiliary operations
	DefaultTimeout = 10 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Catalog limits
const (
	// SearchPageSize is the page size used for catalog searches
	SearchPageSize = 1000

	// MaxIDLength is the maximum length of entry, entry group and template ids
	MaxIDLength = 64

	// MaxStringFieldLength is the byte budget for string tag field values
	MaxStringFieldLength = 2000

	// TruncationSuffix marks a value cut to fit a byte budget
	TruncationSuffix = "..."

	// ConsoleURLPrefix is the Data Catalog console address for an entry
	ConsoleURLPrefix = "https://console.cloud.google.com/datacatalog/"
)

// Monitoring constants
const (
	// MetricTypePrefix prefixes every custom connector metric type
	MetricTypePrefix = "custom.googleapis.com/datacatalog/connectors"

	// MetricNamespace is the generic_task namespace label
	MetricNamespace = "datacatalog/connectors"

	// MetricResourceType is the monitored resource type for connector runs
	MetricResourceType = "generic_task"

	// MetricListWindow is how far back ListMetrics looks
	MetricListWindow = 600 * time.Second

	// APIMetricLag pads the API request count window
	APIMetricLag = 150 * time.Second

	// TaskIDLength is the number of hex characters kept from a generated uuid
	TaskIDLength = 8

	// DefaultLocation is used when neither flags nor gcloud config name a location
	DefaultLocation = "us"
)

// CloudPlatformScope is the OAuth scope used for catalog and monitoring calls
const CloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"
