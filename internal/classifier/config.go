package classifier

type AlgType string

const (
	AlgTypeKNN AlgType = "KNN"
)

type Config struct {
	Type AlgType `envconfig:"SKC_CLASSIFIER_TYPE" default:"KNN"`
}

func (c Config) ClassifierType() AlgType {
	return c.Type
}

func (c Config) ClassifierConfig() Config {
	return c
}
