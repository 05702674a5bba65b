package registry

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/upsti/upstilatex/internal/files/filesystem"
	"github.com/upsti/upstilatex/internal/metadata"
	"github.com/upsti/upstilatex/pkg/upstilatex"
)

// Entry is one indexed document.
type Entry struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"nom"`
	Path     string    `json:"chemin"`
	Version  string    `json:"version"`
	Checksum string    `json:"checksum"`

	// Summary fields lifted from the normalized metadata, empty when the
	// document could not be normalized.
	Titre        string `json:"titre,omitempty"`
	TypeDocument string `json:"type_document,omitempty"`
	Matiere      string `json:"matiere,omitempty"`
	Classe       string `json:"classe,omitempty"`
	IDUnique     string `json:"id_unique,omitempty"`
}

// Index is the serialized annuaire.
type Index struct {
	GeneratedAt time.Time `json:"genere_le"`
	Documents   []Entry   `json:"documents"`
}

// Build assembles an index from scan results and their normalized records.
// records may be nil for documents that failed normalization. Entries are
// sorted by path.
func Build(documents []upstilatex.DocumentInfo, records map[string]metadata.Records, now time.Time) Index {
	index := Index{GeneratedAt: now}

	for _, doc := range documents {
		entry := Entry{
			ID:       DocumentID(doc.Checksum),
			Name:     doc.Name,
			Path:     doc.Path,
			Version:  string(doc.Version),
			Checksum: doc.Checksum,
		}
		if recs, ok := records[doc.Path]; ok {
			entry.Titre = recordValue(recs, "titre")
			entry.TypeDocument = recordValue(recs, "type_document")
			entry.Matiere = recordValue(recs, "matiere")
			entry.Classe = recordValue(recs, "classe")
			entry.IDUnique = recordValue(recs, "id_unique")
		}
		index.Documents = append(index.Documents, entry)
	}

	sort.Slice(index.Documents, func(i, j int) bool {
		return index.Documents[i].Path < index.Documents[j].Path
	})
	return index
}

func recordValue(records metadata.Records, field string) string {
	if rec, ok := records[field]; ok {
		return rec.ValueString()
	}
	return ""
}

// Save writes the index as indented JSON.
func Save(provider filesystem.Provider, path string, index Index) error {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	if err := provider.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write index %s: %w", path, err)
	}
	return nil
}

// Load reads an index previously written by Save.
func Load(provider filesystem.Provider, path string) (Index, error) {
	data, err := provider.ReadFile(path)
	if err != nil {
		return Index{}, fmt.Errorf("read index %s: %w", path, err)
	}
	var index Index
	if err := json.Unmarshal(data, &index); err != nil {
		return Index{}, fmt.Errorf("decode index %s: %w", path, err)
	}
	return index, nil
}
