package database

type Config struct {
	FileName string `envconfig:"SKC_DB_FILE" default:"skc.db"`
}
