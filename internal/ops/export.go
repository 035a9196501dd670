package ops

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hpungsan/roster/internal/directory"
	"github.com/hpungsan/roster/internal/errors"
)

// Export formats.
const (
	FormatJSONL = "jsonl"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path   string    // required
	Format string    // optional, inferred from the extension
	Query  string    // optional filter
	AsOf   time.Time // optional, default: now
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Format     string `json:"format"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"` // the as-of instant tenures were computed for
}

// ExportHeader is the first line of a JSONL export.
type ExportHeader struct {
	RosterExport  bool   `json:"_roster_export"`
	SchemaVersion string `json:"schema_version"`
	ExportedAt    int64  `json:"exported_at"`
	Query         string `json:"query,omitempty"`
}

// exportDocument wraps the cards for the json and yaml formats.
type exportDocument struct {
	SchemaVersion string `json:"schema_version" yaml:"schema_version"`
	ExportedAt    int64  `json:"exported_at" yaml:"exported_at"`
	Query         string `json:"query,omitempty" yaml:"query,omitempty"`
	Employees     []Card `json:"employees" yaml:"employees"`
}

// Export writes the rendered cards matching Query to a new file.
// Existing files are never overwritten.
func Export(store *directory.Store, input ExportInput) (*ExportOutput, error) {
	format, err := ValidateExportPath(input.Path, input.Format)
	if err != nil {
		return nil, err
	}

	now := asOfOrNow(input.AsOf)
	exportedAt := now.Unix()
	cards := List(store, ListInput{Query: input.Query, AsOf: now}).Items

	exportPath := filepath.Clean(input.Path)
	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	// Write to a temp file, then link it into place.
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	// The temp name is removed on every path; on success the export is a second link.
	defer func() {
		if file != nil {
			file.Close()
		}
		os.Remove(tempPath)
	}()

	header := ExportHeader{
		RosterExport:  true,
		SchemaVersion: "1.0",
		ExportedAt:    exportedAt,
		Query:         input.Query,
	}
	if err := writeCards(file, format, header, cards); err != nil {
		return nil, errors.NewInternal(err)
	}

	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Link fails if the destination appeared in the meantime, unlike os.Rename.
	if err := os.Link(tempPath, exportPath); err != nil {
		if _, statErr := os.Lstat(exportPath); statErr == nil {
			return nil, errors.NewFileExists(input.Path)
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	return &ExportOutput{
		Path:       exportPath,
		Format:     format,
		Count:      len(cards),
		ExportedAt: exportedAt,
	}, nil
}

func writeCards(w io.Writer, format string, header ExportHeader, cards []Card) error {
	switch format {
	case FormatJSONL:
		enc := json.NewEncoder(w)
		if err := enc.Encode(header); err != nil {
			return err
		}
		for _, c := range cards {
			if err := enc.Encode(c); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(exportDocument{
			SchemaVersion: header.SchemaVersion,
			ExportedAt:    header.ExportedAt,
			Query:         header.Query,
			Employees:     cards,
		})
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(exportDocument{
			SchemaVersion: header.SchemaVersion,
			ExportedAt:    header.ExportedAt,
			Query:         header.Query,
			Employees:     cards,
		}); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
