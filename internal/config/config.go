package config

const (
	DefaultTimeZone = "Asia/Kolkata"

	// Staging maintenance
	StagingRetentionDays   = 14
	DefaultPurgeSchedule   = "30 2 * * *" // nightly, off-peak
	StagingPurgeBatchLimit = 10000
)
