// Package ingest reads and writes catalog seed files.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/pders01/scriptorium/internal/debuglog"
	"github.com/pders01/scriptorium/internal/resource"
	"github.com/pders01/scriptorium/internal/validation"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

var ErrUnknownFormat = errors.New("unknown seed format")

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// ParseFormat accepts a format name as given on the command line.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatTOML:
		return FormatTOML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// LoadFile decodes and checks a seed file.
func LoadFile(path string) (*resource.Catalog, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening seed file: %w", err)
	}
	defer f.Close()

	cat, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Decode reads a catalog in the given format and checks it.
func Decode(r io.Reader, format Format) (*resource.Catalog, error) {
	var cat resource.Catalog
	var err error

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(&cat)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	case FormatTOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&cat)
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&cat)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", format, err)
	}

	if err := Check(&cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Encode writes cat in the given format.
func Encode(w io.Writer, cat *resource.Catalog, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cat); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(cat)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cat)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Check rejects records without ids and ids repeated within one
// collection. Links that are not web URLs only produce a warning.
func Check(cat *resource.Catalog) error {
	var errs []error
	seen := make(map[string]bool)

	for i, rec := range cat.Records() {
		id := strings.TrimSpace(rec.RecordID())
		if id == "" {
			errs = append(errs, fmt.Errorf("%s record #%d has no id", rec.SourceType(), i+1))
			continue
		}
		key := resource.Key(rec.SourceType(), id)
		if seen[key] {
			errs = append(errs, fmt.Errorf("duplicate id %s", key))
		}
		seen[key] = true

		for _, link := range links(rec) {
			if link != "" && !validation.IsWebURL(link) {
				debuglog.Warnf("ingest: %s has a non-web link %q", key, link)
			}
		}
	}

	for _, ref := range cat.References {
		if strings.TrimSpace(ref.SourceID) == "" {
			errs = append(errs, errors.New("reference without sourceId"))
		}
	}

	return errors.Join(errs...)
}

func links(rec resource.Record) []string {
	switch r := rec.(type) {
	case *resource.Meditation:
		return []string{r.URL, r.AudioURL, r.VideoURL}
	case *resource.SacredText:
		return []string{r.URL, r.SourceURL, r.DownloadURL}
	case *resource.Study:
		return []string{r.URL, r.PDFURL}
	case *resource.Content:
		return []string{r.URL, r.Link}
	}
	return nil
}
