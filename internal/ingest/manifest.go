package ingest

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest lists the datasets both binaries seed at startup.
//
//	[[dataset]]
//	name = "iris"
//	path = "testdata/iris.csv"
//	header = true
//	delimiter = ";"
type Manifest struct {
	Datasets []ManifestDataset `toml:"dataset"`
}

type ManifestDataset struct {
	Name      string `toml:"name"`
	Path      string `toml:"path"`
	Header    bool   `toml:"header"`
	Delimiter string `toml:"delimiter"`
}

// Options translates the manifest entry into load options for LoadCSV.
func (d ManifestDataset) Options() []LoadOption {
	var opts []LoadOption
	if d.Header {
		opts = append(opts, WithHeader())
	}
	if d.Delimiter != "" {
		opts = append(opts, WithComma([]rune(d.Delimiter)[0]))
	}
	return opts
}

// LoadManifest decodes path and resolves relative dataset paths against the
// manifest's own directory.
func LoadManifest(path string) (*Manifest, error) {
	m := &Manifest{}
	if _, err := toml.DecodeFile(path, m); err != nil {
		return nil, fmt.Errorf("unable decode manifest %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i := range m.Datasets {
		if m.Datasets[i].Name == "" {
			return nil, fmt.Errorf("manifest %s: dataset %d has no name", path, i)
		}
		if m.Datasets[i].Path == "" {
			return nil, fmt.Errorf("manifest %s: dataset %s has no path", path, m.Datasets[i].Name)
		}
		if !filepath.IsAbs(m.Datasets[i].Path) {
			m.Datasets[i].Path = filepath.Join(dir, m.Datasets[i].Path)
		}
	}
	return m, nil
}
