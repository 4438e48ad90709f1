// Package dataset loads preference tables from YAML and JSON documents.
//
// A document maps subjects to the items they rated:
//
//	Toby:
//	  Snakes on a Plane: 4.5
//	  Superman Returns: 4.0
package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"prefsim/internal/prefs"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	ErrEmptyDataset      = errors.New("dataset has no subjects")
	ErrDuplicateKey      = errors.New("duplicate key in dataset")
)

// Format is the serialization of a dataset document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Info describes a loaded dataset file.
type Info struct {
	Path     string
	Format   Format
	Encoding string
	Subjects int
	Ratings  int
}

// Load reads a dataset file, whatever its text encoding, and returns the table.
func Load(path string) (prefs.Table, Info, error) {
	info := Info{Path: path}

	format, err := FormatFromPath(path)
	if err != nil {
		return nil, info, err
	}
	info.Format = format

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, info, fmt.Errorf("failed to read dataset: %w", err)
	}

	content, enc, err := decodeText(raw)
	if err != nil {
		return nil, info, fmt.Errorf("failed to decode dataset: %w", err)
	}
	info.Encoding = enc

	table, err := Parse([]byte(content), format)
	if err != nil {
		return nil, info, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	info.Subjects = len(table)
	for _, r := range table {
		info.Ratings += len(r)
	}
	return table, info, nil
}

// Parse decodes a UTF-8 dataset document.
func Parse(data []byte, format Format) (prefs.Table, error) {
	var doc map[string]map[string]float64

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML dataset: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON dataset: %w", err)
		}
		// yaml.v3 rejects repeated keys itself; JSON decoding keeps the last one
		if err := checkDuplicateKeys(json.NewDecoder(bytes.NewReader(data)), ""); err != nil {
			return nil, fmt.Errorf("failed to parse JSON dataset: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if len(doc) == 0 {
		return nil, ErrEmptyDataset
	}

	table := make(prefs.Table, len(doc))
	for subject, items := range doc {
		ratings := make(prefs.Ratings, len(items))
		for item, v := range items {
			ratings[prefs.ItemID(item)] = v
		}
		table[prefs.SubjectID(subject)] = ratings
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// checkDuplicateKeys walks one JSON value and fails on the first object key
// that appears twice in the same object.
func checkDuplicateKeys(dec *json.Decoder, path string) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}

	switch delim {
	case '{':
		seen := make(map[string]bool)
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			key, ok := tok.(string)
			if !ok {
				return fmt.Errorf("unexpected object key %v", tok)
			}
			keyPath := key
			if path != "" {
				keyPath = path + "." + key
			}
			if seen[key] {
				return fmt.Errorf("%w: %q", ErrDuplicateKey, keyPath)
			}
			seen[key] = true
			if err := checkDuplicateKeys(dec, keyPath); err != nil {
				return err
			}
		}
	case '[':
		for dec.More() {
			if err := checkDuplicateKeys(dec, path); err != nil {
				return err
			}
		}
	}

	// closing delimiter
	_, err = dec.Token()
	return err
}
