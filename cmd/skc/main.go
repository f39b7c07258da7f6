package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/go-skc/skc/internal/classifier"
	"github.com/go-skc/skc/internal/classifier/knn"
	"github.com/go-skc/skc/internal/geom"
	"github.com/go-skc/skc/internal/ingest"
	"github.com/go-skc/skc/internal/sample/model"
)

type cliConfig struct {
	Manifest  string
	CSV       string
	Dataset   string
	Header    bool
	Delimiter string
	Vector    string
	K         int
	Debug     bool
}

var cfg cliConfig

var rootCmd = &cobra.Command{
	Use:          "skc",
	Short:        "Classify a query vector against a CSV trained dataset",
	SilenceUsage: true,
	RunE:         runE,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&cfg.Manifest, "manifest", "m", "", "path to a TOML dataset manifest")
	flags.StringVarP(&cfg.CSV, "csv", "f", "", "path to a CSV training file, rows of float features and a trailing label")
	flags.StringVarP(&cfg.Dataset, "dataset", "d", "", "dataset name, picks the manifest entry or names the CSV data")
	flags.BoolVar(&cfg.Header, "header", false, "skip the first CSV record, csv mode only")
	flags.StringVar(&cfg.Delimiter, "delimiter", "", "CSV field delimiter, csv mode only")
	flags.StringVarP(&cfg.Vector, "vector", "v", "", "query vector as comma separated floats")
	flags.IntVarP(&cfg.K, "k", "k", 0, "number of neighbors, zero selects k from the dataset size")
	flags.BoolVar(&cfg.Debug, "debug", false, "dump the effective configuration to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runE(cmd *cobra.Command, args []string) error {
	if cfg.Debug {
		spew.Fdump(os.Stderr, cfg)
	}
	vec, err := parseVector(cfg.Vector)
	if err != nil {
		return err
	}
	samples, err := loadSamples()
	if err != nil {
		return err
	}

	clf, err := knn.New(knn.WithAutoK())
	if err != nil {
		return fmt.Errorf("unable create knn instance: %w", err)
	}
	points := make([]classifier.DataPoint, len(samples))
	for i := range samples {
		points[i] = samples[i]
	}
	clf.Build(points...)

	var prediction *classifier.Prediction
	if cfg.K == 0 {
		prediction, err = clf.Predict(geom.New(vec))
	} else {
		prediction, err = clf.PredictK(geom.New(vec), cfg.K)
	}
	if err != nil {
		return fmt.Errorf("unable classify %v: %w", vec, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), prediction.Label)
	return nil
}

func parseVector(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("query vector is not defined, pass -v with comma separated floats")
	}
	parts := strings.Split(s, ",")
	vec := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid vector component %q: %w", part, err)
		}
		vec = append(vec, v)
	}
	return vec, nil
}

func loadSamples() ([]model.Sample, error) {
	switch {
	case cfg.Manifest != "":
		manifest, err := ingest.LoadManifest(cfg.Manifest)
		if err != nil {
			return nil, err
		}
		dataset, err := pickDataset(manifest)
		if err != nil {
			return nil, err
		}
		return ingest.LoadCSVFile(dataset.Name, dataset.Path, dataset.Options()...)
	case cfg.CSV != "":
		name := cfg.Dataset
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(cfg.CSV), filepath.Ext(cfg.CSV))
		}
		var opts []ingest.LoadOption
		if cfg.Header {
			opts = append(opts, ingest.WithHeader())
		}
		if cfg.Delimiter != "" {
			opts = append(opts, ingest.WithComma([]rune(cfg.Delimiter)[0]))
		}
		return ingest.LoadCSVFile(name, cfg.CSV, opts...)
	default:
		return nil, fmt.Errorf("training data is not defined, pass -m or -f")
	}
}

func pickDataset(manifest *ingest.Manifest) (ingest.ManifestDataset, error) {
	if cfg.Dataset == "" {
		if len(manifest.Datasets) == 1 {
			return manifest.Datasets[0], nil
		}
		return ingest.ManifestDataset{}, fmt.Errorf("manifest holds %d datasets, pass -d to pick one", len(manifest.Datasets))
	}
	for _, dataset := range manifest.Datasets {
		if dataset.Name == cfg.Dataset {
			return dataset, nil
		}
	}
	return ingest.ManifestDataset{}, fmt.Errorf("dataset %s is not in the manifest", cfg.Dataset)
}
