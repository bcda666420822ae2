// Package export serializes the unfiltered threat store to a JSON document.
package export

import (
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	json "github.com/goccy/go-json"

	"github.com/pynezz/cybermap/internal/fs"
	"github.com/pynezz/cybermap/internal/threat"
)

const (
	ContentType = "application/json"
	filePrefix  = "cyber-threats-"
)

// JSON encodes records as an indented JSON array. An empty store encodes as [].
func JSON(records []threat.Record) ([]byte, error) {
	if records == nil {
		records = []threat.Record{}
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encode threat export")
	}
	return b, nil
}

// Filename is the download name for an export made at now, dated in UTC.
func Filename(now time.Time) string {
	return filePrefix + now.UTC().Format(time.DateOnly) + ".json"
}

// WriteFile writes an encoded export into dir under filename and returns
// the written path.
func WriteFile(dir, filename string, doc []byte) (string, error) {
	path := filepath.Join(dir, filename)
	if err := fs.WriteFileAtomic(path, doc, 0o644); err != nil {
		return "", errors.Wrapf(err, "write export %s", path)
	}
	return path, nil
}
