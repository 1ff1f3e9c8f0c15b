// Package feedfile reads and writes the pipeline's JSON data files:
// raw fetches, the curated feed and the generated video ideas.
package feedfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kiwifruitpeter/curator/internal/model"
)

// Save writes a document to path as indented JSON, creating parent
// directories as needed. The write goes through a temp file and rename
// so readers never see a partial document.
func Save(path string, doc interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// LoadFeed reads a record document from path.
func LoadFeed(path string) (model.Document, error) {
	var doc model.Document
	if err := load(path, &doc); err != nil {
		return model.Document{}, err
	}
	return doc, nil
}

// LoadArtifacts reads an artifact document from path.
func LoadArtifacts(path string) (model.ArtifactDocument, error) {
	var doc model.ArtifactDocument
	if err := load(path, &doc); err != nil {
		return model.ArtifactDocument{}, err
	}
	return doc, nil
}

// LoadSummaries reads a summary document from path.
func LoadSummaries(path string) (model.SummaryDocument, error) {
	var doc model.SummaryDocument
	if err := load(path, &doc); err != nil {
		return model.SummaryDocument{}, err
	}
	return doc, nil
}

func load(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
