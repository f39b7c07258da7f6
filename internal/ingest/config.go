package ingest

type Config struct {
	// Path to a TOML manifest of datasets to seed at startup
	Manifest string `envconfig:"SKC_INGEST_MANIFEST"`
}
