package metadata

import (
	_ "embed"
	"fmt"
	"os"
)

// The schema resource ships inside the binary so the tool works without any
// installation step. A local file can still override it, see LoadFile.
//
//go:embed upstilatex.yaml
var defaultResource []byte

// LoadDefault parses the embedded schema resource.
func LoadDefault() (*Schema, *Catalogs, error) {
	return Load(defaultResource)
}

// LoadFile parses a schema resource from disk, overriding the embedded one.
func LoadFile(path string) (*Schema, *Catalogs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read schema resource: %w", err)
	}
	return Load(data)
}
