package tabular_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"permit-sync/core/dataset"
	"permit-sync/core/tabular"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const permitsCSV = "permit_id,zip,lat,description\n" +
	"P-1,78701,30.27,New roof\n" +
	"P-2,00501,30.5,\n"

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		path := writeFile(t, "permits.csv", []byte(permitsCSV))

		ds, err := tabular.Load(path, tabular.Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"permit_id", "zip", "lat", "description"}, ds.Names())
		assert.Equal(t, 2, ds.Len())

		zip, err := ds.Column("zip")
		require.NoError(t, err)
		assert.Equal(t, dataset.KindText, zip.Kind())
		assert.Equal(t, "00501", zip.Values[1].Text)

		lat, _ := ds.Column("lat")
		assert.Equal(t, dataset.KindFloat, lat.Kind())

		desc, _ := ds.Column("description")
		assert.True(t, desc.Values[1].IsNull())
	})

	t.Run("HeaderOnly", func(t *testing.T) {
		path := writeFile(t, "empty.csv", []byte("a,b,c\n"))

		ds, err := tabular.Load(path, tabular.Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, ds.Names())
		assert.Equal(t, 0, ds.Len())
	})

	t.Run("FileNotFound", func(t *testing.T) {
		_, err := tabular.Load(filepath.Join(t.TempDir(), "missing.csv"), tabular.Options{})
		assert.ErrorIs(t, err, tabular.ErrFileNotFound)
	})

	t.Run("RaggedRow", func(t *testing.T) {
		path := writeFile(t, "ragged.csv", []byte("a,b\n1,2\n3\n"))

		_, err := tabular.Load(path, tabular.Options{})
		require.ErrorIs(t, err, tabular.ErrParse)

		var parseErr *tabular.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, 3, parseErr.Line)
	})

	t.Run("EmptyFile", func(t *testing.T) {
		path := writeFile(t, "blank.csv", nil)

		_, err := tabular.Load(path, tabular.Options{})
		assert.ErrorIs(t, err, tabular.ErrParse)
	})

	t.Run("DuplicateHeader", func(t *testing.T) {
		path := writeFile(t, "dup.csv", []byte("a,a\n1,2\n"))

		_, err := tabular.Load(path, tabular.Options{})
		assert.ErrorIs(t, err, tabular.ErrParse)
		assert.ErrorIs(t, err, dataset.ErrDuplicateColumn)
	})

	t.Run("Latin1", func(t *testing.T) {
		// "Município" encoded as ISO-8859-1.
		content := []byte("id;name\n1;Munic\xedpio\n")
		path := writeFile(t, "latin1.csv", content)

		ds, err := tabular.Load(path, tabular.Options{Delimiter: ';', Encoding: "latin1"})
		require.NoError(t, err)
		name, _ := ds.Column("name")
		assert.Equal(t, "Município", name.Values[0].Text)
	})

	t.Run("UTF8BOM", func(t *testing.T) {
		path := writeFile(t, "bom.csv", []byte("\xef\xbb\xbfid,name\n1,x\n"))

		ds, err := tabular.Load(path, tabular.Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "name"}, ds.Names())
	})

	t.Run("UnsupportedEncoding", func(t *testing.T) {
		path := writeFile(t, "permits.csv", []byte(permitsCSV))

		_, err := tabular.Load(path, tabular.Options{Encoding: "ebcdic"})
		assert.ErrorIs(t, err, tabular.ErrUnsupportedEncoding)
	})

	t.Run("NullString", func(t *testing.T) {
		ds, err := tabular.LoadReader(strings.NewReader("a,b\nNA,1\n"), "inline", tabular.Options{NullString: "NA"})
		require.NoError(t, err)
		a, _ := ds.Column("a")
		assert.True(t, a.Values[0].IsNull())
	})
}

func TestHead(t *testing.T) {
	path := writeFile(t, "permits.csv", []byte(permitsCSV))

	ds, err := tabular.Head(path, 1, tabular.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())

	header, err := tabular.ReadHeader(path, tabular.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"permit_id", "zip", "lat", "description"}, header)
}

func TestConfigOptions(t *testing.T) {
	opts := tabular.Config{Delimiter: "|", Encoding: "latin1", NullString: "NA"}.Options()
	assert.Equal(t, '|', opts.Delimiter)
	assert.Equal(t, "latin1", opts.Encoding)
	assert.Equal(t, "NA", opts.NullString)
}
