package dispatcher

import (
	"time"
)

type Config struct {
	// Timer for performing storage maintenance operations in the DB
	RebuildDBTime time.Duration `envconfig:"SKC_DISPATCHER_REBUILD_DB_TIME" default:"15s"`
	// Hold back classification until the dataset accumulated n samples
	SkipItems int `envconfig:"SKC_DISPATCHER_SKIP_ITEMS"`
	// maximum number of samples in the DB for each dataset
	MaxItemsStored int `envconfig:"SKC_DISPATCHER_MAX_ITEMS_STORED" default:"1000000"`
	// maximum retention period for samples in the DB for each dataset
	MaxStorageTime time.Duration `envconfig:"SKC_DISPATCHER_MAX_STORAGE_TIME" default:"0s"`
	// Critical buffer size in dbTxExecutor at which data is flushed to disk
	DbFlushSize int `envconfig:"SKC_DB_FLUSH_SIZE" default:"10"`
	// Critical time of life in the dbTxExecutor buffer at which data is flushed to disk
	DbFlushTime time.Duration `envconfig:"SKC_DB_FLUSH_TIME" default:"5s"`
	// Allow adding labeled samples to the dataset
	AllowAppendData bool `envconfig:"SKC_DISPATCHER_ALLOW_APPEND_DATA" default:"true"`
	// Allow adding classified samples back to the dataset under their
	// predicted label
	AllowAppendPredicted bool `envconfig:"SKC_DISPATCHER_ALLOW_APPEND_PREDICTED" default:"false"`
}
