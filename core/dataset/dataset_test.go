package dataset_test

import (
	"testing"

	"permit-sync/core/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func permits(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(
		dataset.Column{Name: "id", Values: []dataset.Value{dataset.Int(1), dataset.Int(2)}},
		dataset.Column{Name: "lat", Values: []dataset.Value{dataset.Float(30.26), dataset.Float(30.27)}},
		dataset.Column{Name: "addr", Values: []dataset.Value{dataset.Text("1 Main St"), dataset.Null()}},
	)
	require.NoError(t, err)
	return ds
}

func TestNew(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		ds := permits(t)
		assert.Equal(t, []string{"id", "lat", "addr"}, ds.Names())
		assert.Equal(t, 2, ds.Len())
		assert.Equal(t, 3, ds.Width())
	})

	t.Run("DuplicateName", func(t *testing.T) {
		_, err := dataset.New(
			dataset.Column{Name: "a"},
			dataset.Column{Name: "a"},
		)
		assert.ErrorIs(t, err, dataset.ErrDuplicateColumn)
	})

	t.Run("EmptyName", func(t *testing.T) {
		_, err := dataset.New(dataset.Column{Name: ""})
		assert.ErrorIs(t, err, dataset.ErrEmptyColumnName)
	})

	t.Run("Ragged", func(t *testing.T) {
		_, err := dataset.New(
			dataset.Column{Name: "a", Values: []dataset.Value{dataset.Int(1)}},
			dataset.Column{Name: "b"},
		)
		assert.ErrorIs(t, err, dataset.ErrRaggedColumns)
	})
}

func TestFromRows(t *testing.T) {
	ds, err := dataset.FromRows([]string{"id", "zip"}, [][]dataset.Value{
		{dataset.Int(1), dataset.Text("78701")},
		{dataset.Int(2), dataset.Null()},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []dataset.Value{dataset.Int(2), dataset.Null()}, ds.Row(1))

	_, err = dataset.FromRows([]string{"id"}, [][]dataset.Value{{dataset.Int(1), dataset.Int(2)}})
	assert.ErrorIs(t, err, dataset.ErrRaggedColumns)
}

func TestReorder(t *testing.T) {
	ds := permits(t)

	out, err := ds.Reorder([]string{"addr", "id"})
	require.NoError(t, err)
	assert.Equal(t, []string{"addr", "id"}, out.Names())
	assert.Equal(t, []string{"id", "lat", "addr"}, ds.Names(), "receiver must not change")

	_, err = ds.Reorder([]string{"zip"})
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
}

func TestReorderInPlace(t *testing.T) {
	ds := permits(t)

	err := ds.ReorderInPlace([]string{"zip", "id"})
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
	assert.Equal(t, []string{"id", "lat", "addr"}, ds.Names())

	require.NoError(t, ds.ReorderInPlace([]string{"lat", "addr", "id"}))
	assert.Equal(t, []string{"lat", "addr", "id"}, ds.Names())

	col, err := ds.Column("addr")
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", col.Values[0].Text)
}

func TestColumnKind(t *testing.T) {
	tests := []struct {
		name   string
		values []dataset.Value
		want   dataset.Kind
	}{
		{"AllNull", []dataset.Value{dataset.Null(), dataset.Null()}, dataset.KindNull},
		{"Ints", []dataset.Value{dataset.Int(1), dataset.Null(), dataset.Int(3)}, dataset.KindInt},
		{"IntsAndFloats", []dataset.Value{dataset.Int(1), dataset.Float(2.5)}, dataset.KindFloat},
		{"Mixed", []dataset.Value{dataset.Float(2.5), dataset.Text("n/a")}, dataset.KindText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dataset.Column{Name: "c", Values: tt.values}.Kind())
		})
	}
}

func TestParse(t *testing.T) {
	assert.Equal(t, dataset.Int(42), dataset.Parse(" 42 ", ""))
	assert.Equal(t, dataset.Float(-97.74), dataset.Parse("-97.74", ""))
	assert.Equal(t, dataset.Text("Austin"), dataset.Parse("Austin", ""))
	assert.True(t, dataset.Parse("", "").IsNull())
	assert.True(t, dataset.Parse("NA", "NA").IsNull())
}

func TestHead(t *testing.T) {
	ds := permits(t)
	assert.Equal(t, 1, ds.Head(1).Len())
	assert.Equal(t, 2, ds.Head(10).Len())
	assert.Equal(t, 0, ds.Head(-1).Len())
	assert.Equal(t, ds.Names(), ds.Head(-1).Names())
}

func TestParseColumn(t *testing.T) {
	t.Run("Int", func(t *testing.T) {
		col := dataset.ParseColumn("id", []string{"1", "", "3"}, "")
		assert.Equal(t, dataset.KindInt, col.Kind())
		assert.Equal(t, int64(1), col.Values[0].Int)
		assert.True(t, col.Values[1].IsNull())
		assert.Equal(t, int64(3), col.Values[2].Int)
	})

	t.Run("Float", func(t *testing.T) {
		col := dataset.ParseColumn("lat", []string{"30", "30.5"}, "")
		assert.Equal(t, dataset.KindFloat, col.Kind())
		assert.Equal(t, 30.0, col.Values[0].Float)
		assert.Equal(t, "30", col.Values[0].Cell())
	})

	t.Run("WideIntegerStaysText", func(t *testing.T) {
		col := dataset.ParseColumn("permit_id", []string{"12345678901234567891", "7"}, "")
		assert.Equal(t, dataset.KindText, col.Kind())
		assert.Equal(t, "12345678901234567891", col.Values[0].Text)
	})

	t.Run("KeepsSourceCell", func(t *testing.T) {
		col := dataset.ParseColumn("lat", []string{"30.123456789012345678", " 1.50 "}, "")
		assert.Equal(t, dataset.KindFloat, col.Kind())
		assert.Equal(t, "30.123456789012345678", col.Values[0].Cell())
		assert.Equal(t, " 1.50 ", col.Values[1].Cell())

		addr := dataset.ParseColumn("addr", []string{"  12 Main St"}, "")
		assert.Equal(t, "  12 Main St", addr.Values[0].Text)
	})

	t.Run("LeadingZeroStaysText", func(t *testing.T) {
		col := dataset.ParseColumn("zip", []string{"78701", "00501"}, "")
		assert.Equal(t, dataset.KindText, col.Kind())
		assert.Equal(t, "78701", col.Values[0].Text)
	})

	t.Run("NullString", func(t *testing.T) {
		col := dataset.ParseColumn("zip", []string{"NA", "NA"}, "NA")
		assert.Equal(t, dataset.KindNull, col.Kind())
	})
}
