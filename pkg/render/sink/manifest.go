package sink

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/spotdeck/pkg/deck"
	"github.com/matzehuels/spotdeck/pkg/errors"
	"github.com/matzehuels/spotdeck/pkg/pack"
)

// ManifestVersion is the format version written to new manifests.
const ManifestVersion = 1

// Manifest describes one generated deck.
type Manifest struct {
	Version   int         `json:"version"`
	RunID     uuid.UUID   `json:"run_id"`
	CreatedAt time.Time   `json:"created_at"`
	Seed      uint64      `json:"seed"`
	Table     deck.Table  `json:"table"`
	Cards     []CardEntry `json:"cards"`
	Legend    []string    `json:"legend,omitempty"`
	Backside  string      `json:"backside,omitempty"`
}

// CardEntry is the record of one card. Layout is nil and Error is set when
// the card could not be packed.
type CardEntry struct {
	Index    int          `json:"index"`
	File     string       `json:"file,omitempty"`
	Symbols  []int        `json:"symbols"`
	Names    []string     `json:"names,omitempty"`
	Layout   *pack.Layout `json:"layout,omitempty"`
	Coverage float64      `json:"coverage,omitempty"`
	Cached   bool         `json:"cached,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// NewManifest starts a manifest for a run with a fresh run id.
func NewManifest(seed uint64, table deck.Table) *Manifest {
	return &Manifest{
		Version:   ManifestVersion,
		RunID:     uuid.New(),
		CreatedAt: time.Now().UTC(),
		Seed:      seed,
		Table:     table,
	}
}

// AddCard appends a card record.
func (m *Manifest) AddCard(e CardEntry) {
	m.Cards = append(m.Cards, e)
}

// Failed returns the records of cards that could not be packed.
func (m *Manifest) Failed() []CardEntry {
	var out []CardEntry
	for _, c := range m.Cards {
		if c.Error != "" {
			out = append(out, c)
		}
	}
	return out
}

// MarshalManifest encodes m as indented JSON.
func MarshalManifest(m *Manifest) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// WriteManifest writes m to path as indented JSON.
func WriteManifest(path string, m *Manifest) error {
	data, err := MarshalManifest(m)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// ReadManifest loads a manifest written by [WriteManifest]. The embedded
// deck table is validated while decoding.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
	}
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode manifest %s", path)
	}
	return &m, nil
}
