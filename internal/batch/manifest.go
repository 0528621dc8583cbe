package batch

import (
	"encoding/json"
	"fmt"
	"os"
)

// ManifestEntry represents one model in the output manifest.
type ManifestEntry struct {
	Model    string   `json:"model"`
	Image    string   `json:"image,omitempty"`
	Parts    int      `json:"parts"`
	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// WriteManifest writes results as indented JSON. Failed models are listed
// with their error and no image.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Model:    r.Path,
			Parts:    r.Parts,
			Warnings: r.Warnings,
			Error:    r.Error,
		}
		if r.Success {
			entries[i].Image = r.Image
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("batch: write manifest: %w", err)
	}
	return nil
}

// Summary counts successes and failures.
func Summary(results []Result) (ok, failed int) {
	for _, r := range results {
		if r.Success {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}
