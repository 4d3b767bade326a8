package simulate

import "time"

// Defaults applied by Config.normalize.
const (
	DefaultBaseURL = "http://localhost:9080"
	DefaultWallets = 3
	DefaultTopN    = 20
	DefaultWorkers = 8
	DefaultTimeout = 10 * time.Second
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

const (
	directoryPermission = 0750
	filePermission      = 0600
	maxErrorBody        = 512
)
