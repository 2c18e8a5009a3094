// internal/catalog/source_file.go
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// FileSource reads catalog datasets from JSON array files on disk. Used for
// local development and tests.
type FileSource struct {
	ProgramsPath string
	SchemesPath  string
	RulesPath    string
}

func NewFileSource(programsPath, schemesPath, rulesPath string) *FileSource {
	return &FileSource{
		ProgramsPath: programsPath,
		SchemesPath:  schemesPath,
		RulesPath:    rulesPath,
	}
}

func (s *FileSource) FetchPrograms(ctx context.Context) ([]json.RawMessage, error) {
	return readRows(s.ProgramsPath)
}

func (s *FileSource) FetchSchemes(ctx context.Context) ([]json.RawMessage, error) {
	return readRows(s.SchemesPath)
}

func (s *FileSource) FetchRules(ctx context.Context) ([]json.RawMessage, error) {
	return readRows(s.RulesPath)
}

func readRows(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file %s: %w", path, err)
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}
	return rows, nil
}
