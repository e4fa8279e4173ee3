package metadata

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// Snapshot is the on-disk form of a crawl run: every schema extracted from one
// side (source or target) in one file. Re-running a crawl overwrites the file.
type Snapshot struct {
	Side        string    `json:"side"` // "source" or "target"
	Schemas     []*Schema `json:"schemas"`
	GeneratedBy string    `json:"generated_by,omitempty"`
}

func SaveSnapshot(path string, snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("schemas", len(snap.Schemas)).Msg("metadata snapshot written")
	return nil
}

func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	return &snap, nil
}
