package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/viant/afs"
)

// Location is a parsed table location.
type Location struct {
	// Path is the file path or afs URL without the query string.
	Path string

	// Format is the document format derived from the extension: yaml, cue or sqlite.
	Format string

	// Compression is "zstd", "gzip" or empty.
	Compression string

	// Key overrides the identifier field declared by the source.
	Key string

	// Table and Query select SQLite rows. Query wins when both are set.
	Table string
	Query string
}

// Format names.
const (
	FormatYAML   = "yaml"
	FormatCUE    = "cue"
	FormatSQLite = "sqlite"
)

// ParseLocation splits a location into path, format and options.
func ParseLocation(loc string) (Location, error) {
	if loc == "" {
		return Location{}, fmt.Errorf("empty location")
	}

	var out Location
	path, rawQuery, _ := strings.Cut(loc, "?")
	out.Path = path

	if rawQuery != "" {
		q, err := url.ParseQuery(rawQuery)
		if err != nil {
			return Location{}, fmt.Errorf("%s: invalid options: %w", loc, err)
		}
		for name := range q {
			switch name {
			case "key", "table", "query":
			default:
				return Location{}, fmt.Errorf("%s: unknown option %q", loc, name)
			}
		}
		out.Key = q.Get("key")
		out.Table = q.Get("table")
		out.Query = q.Get("query")
	}

	name := strings.ToLower(path)
	switch {
	case strings.HasSuffix(name, ".zst"):
		out.Compression = "zstd"
		name = strings.TrimSuffix(name, ".zst")
	case strings.HasSuffix(name, ".gz"):
		out.Compression = "gzip"
		name = strings.TrimSuffix(name, ".gz")
	}

	switch filepath.Ext(name) {
	case ".yaml", ".yml", ".json":
		out.Format = FormatYAML
	case ".cue":
		out.Format = FormatCUE
	case ".db", ".sqlite", ".sqlite3":
		out.Format = FormatSQLite
	default:
		return Location{}, fmt.Errorf("%s: unsupported source type %q", loc, filepath.Ext(name))
	}

	if out.Format == FormatSQLite {
		if out.Compression != "" {
			return Location{}, fmt.Errorf("%s: compressed SQLite databases are not supported", loc)
		}
		if out.Table == "" && out.Query == "" {
			return Location{}, fmt.Errorf("%s: SQLite sources need ?table= or ?query=", loc)
		}
	} else if out.Table != "" || out.Query != "" {
		return Location{}, fmt.Errorf("%s: table and query options apply to SQLite sources only", loc)
	}

	return out, nil
}

// Loader reads tables from the supported locations.
type Loader struct {
	fs     afs.Service
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger discards diagnostics.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{fs: afs.New(), logger: logger}
}

// Load reads the table at loc.
func (l *Loader) Load(ctx context.Context, loc string) (*Table, error) {
	parsed, err := ParseLocation(loc)
	if err != nil {
		return nil, err
	}

	var table *Table
	switch parsed.Format {
	case FormatSQLite:
		table, err = loadSQLite(ctx, parsed)
	default:
		var data []byte
		data, err = l.fetch(ctx, parsed)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", loc, err)
		}
		if parsed.Format == FormatCUE {
			table, err = decodeCUE(parsed.Path, data)
		} else {
			table, err = decodeYAML(data)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", loc, err)
	}

	table.Location = loc
	if parsed.Key != "" {
		table.Key = parsed.Key
	}

	l.logger.Debug("table loaded",
		"location", loc,
		"format", parsed.Format,
		"records", len(table.Records),
		"key", table.Key,
	)
	return table, nil
}

// LoadAll loads every location in order, stopping at the first failure.
func (l *Loader) LoadAll(ctx context.Context, locs []string) ([]*Table, error) {
	tables := make([]*Table, 0, len(locs))
	for _, loc := range locs {
		t, err := l.Load(ctx, loc)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// fetch downloads a document and undoes its compression.
func (l *Loader) fetch(ctx context.Context, loc Location) ([]byte, error) {
	target := loc.Path
	if !strings.Contains(target, "://") {
		abs, err := filepath.Abs(target)
		if err != nil {
			return nil, err
		}
		target = abs
	}

	data, err := l.fs.DownloadWithURL(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}

	switch loc.Compression {
	case "zstd":
		dec, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		out, err := io.ReadAll(dec)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return out, nil
	case "gzip":
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return out, nil
	default:
		return data, nil
	}
}
