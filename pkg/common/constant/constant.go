package constant

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	// Sync state keys, stored under the badger prefix.
	KVPrefixSyncState     = "sync_state"
	KVPrefixLatestContest = "latest_contest"
	KVPrefixFailedContest = "failed_contests"
	KVPrefixSettings      = "settings"

	// Above this many missing draws the collector does a full batch download
	// instead of an incremental update.
	InitialDownloadThreshold = 100
	// Incremental updates of at most this many draws are fetched sequentially.
	SequentialUpdateLimit = 10
	// Progress is flushed to disk every N batches during a full download.
	SaveEveryBatches = 10

	DefaultSourceURL    = "https://servicebus2.caixa.gov.br/portaldeloterias/api/megasena"
	DefaultDataDir      = "data"
	DefaultJSONFile     = "megasena_historical.json"
	DefaultCSVFile      = "megasena_historical.csv"
	DefaultPlotsDir     = "data/plots"
	DefaultStateDir     = "data/state"
	DefaultSubject      = "megasena"
	DrawSyncedEventType = "draw.synced"
)
