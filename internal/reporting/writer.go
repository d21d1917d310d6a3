package reporting

import (
	"fmt"
	"os"
	"path/filepath"
)

// Report file names written by WriteFiles.
const (
	CapHitsFile   = "caphits.txt"
	BreakdownFile = "caps.txt"
	CSVFile       = "caphits.csv"
	JSONFile      = "caphits.json"
	MarkdownFile  = "caphits.md"
)

// WriteFiles writes every report rendering into dir, replacing earlier runs.
func WriteFiles(dir string, r *CapReport) ([]string, error) {
	jsonData, err := RenderJSON(r)
	if err != nil {
		return nil, fmt.Errorf("render json: %w", err)
	}

	outputs := []struct {
		name string
		data []byte
	}{
		{CapHitsFile, []byte(RenderCapHits(r.Rows))},
		{BreakdownFile, []byte(RenderBreakdown(r.Breakdowns))},
		{CSVFile, []byte(RenderCSV(r.Rows))},
		{JSONFile, jsonData},
		{MarkdownFile, []byte(RenderMarkdown(r))},
	}

	var written []string
	for _, o := range outputs {
		path := filepath.Join(dir, o.name)
		if err := os.WriteFile(path, o.data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
