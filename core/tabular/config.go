package tabular

import "strings"

// Config holds the source section of the application configuration.
type Config struct {
	// DataURL locates the CSV export: a local path, http(s) URL or s3://bucket/key.
	DataURL string `mapstructure:"data_url" default:"data/interim/permits_geocoded.csv"`
	// Delimiter is the field separator.
	Delimiter string `mapstructure:"delimiter" default:","`
	// Encoding is the character encoding of the file (utf-8, latin1, windows-1252).
	Encoding string `mapstructure:"encoding" default:"utf-8"`
	// OutputPath is where the reordered dataset is saved. Empty skips saving.
	OutputPath string `mapstructure:"output_path" default:""`
	// NullString is the cell text read as null.
	NullString string `mapstructure:"null_string" default:""`
	// TimeoutSeconds bounds remote downloads.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"120"`
}

// Options returns the parsing options described by the configuration.
func (c Config) Options() Options {
	opts := Options{Encoding: c.Encoding, NullString: c.NullString}
	if r := []rune(c.Delimiter); len(r) > 0 {
		opts.Delimiter = r[0]
	}
	return opts
}

// Options controls how a CSV file is read and written.
type Options struct {
	Delimiter  rune
	Encoding   string
	NullString string
}

func (o Options) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

func normalizeEncoding(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
}
