package tabular_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"permit-sync/core/tabular"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		src := writeFile(t, "permits.csv", []byte(permitsCSV))
		ds, err := tabular.Load(src, tabular.Options{})
		require.NoError(t, err)

		reordered, err := ds.Reorder([]string{"zip", "permit_id", "description", "lat"})
		require.NoError(t, err)

		out := filepath.Join(t.TempDir(), "nested", "out.csv")
		require.NoError(t, tabular.Write(out, reordered, tabular.Options{}))

		content, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, "zip,permit_id,description,lat\n78701,P-1,New roof,30.27\n00501,P-2,,30.5\n", string(content))

		reloaded, err := tabular.Load(out, tabular.Options{})
		require.NoError(t, err)
		assert.Equal(t, reordered.Names(), reloaded.Names())
		assert.Equal(t, reordered.Len(), reloaded.Len())
	})

	t.Run("KeepsSourceCells", func(t *testing.T) {
		in := "permit_id,address,lat\n" +
			"12345678901234567891,  12 Main St,30.123456789012345678\n" +
			"20000000000000000001,,1.50\n"
		ds, err := tabular.LoadReader(bytes.NewBufferString(in), "inline", tabular.Options{})
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, tabular.WriteTo(&buf, ds, tabular.Options{}))
		assert.Equal(t, in, buf.String())
	})

	t.Run("Latin1", func(t *testing.T) {
		ds, err := tabular.LoadReader(bytes.NewBufferString("name\nMunicípio\n"), "inline", tabular.Options{})
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, tabular.WriteTo(&buf, ds, tabular.Options{Encoding: "latin1"}))
		assert.Equal(t, "name\nMunic\xedpio\n", buf.String())
	})

	t.Run("NullString", func(t *testing.T) {
		ds, err := tabular.LoadReader(bytes.NewBufferString("a,b\n,1\n"), "inline", tabular.Options{})
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, tabular.WriteTo(&buf, ds, tabular.Options{NullString: `\N`}))
		assert.Equal(t, "a,b\n\\N,1\n", buf.String())
	})
}
