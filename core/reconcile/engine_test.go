package reconcile

import (
	"fmt"
	"math/rand"
	"testing"

	"permit-sync/core/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDataset(t *testing.T, names ...string) *dataset.Dataset {
	t.Helper()
	columns := make([]dataset.Column, len(names))
	for i, name := range names {
		columns[i] = dataset.Column{Name: name, Values: []dataset.Value{dataset.Text(name + "_0"), dataset.Int(int64(i))}}
	}
	ds, err := dataset.New(columns...)
	require.NoError(t, err)
	return ds
}

func TestReconcile_Scenarios(t *testing.T) {
	tests := []struct {
		name             string
		datasetColumns   []string
		tableColumns     []string
		policy           LocalColumnPolicy
		missingInTable   []string
		missingInDataset []string
		reordered        []string
	}{
		{
			name:             "Geocoded permits against wider table",
			datasetColumns:   []string{"id", "lat", "lon", "addr"},
			tableColumns:     []string{"id", "addr", "lat", "lon", "zip"},
			policy:           PolicyAppend,
			missingInTable:   []string{},
			missingInDataset: []string{"zip"},
			reordered:        []string{"id", "addr", "lat", "lon"},
		},
		{
			name:             "New local field is appended",
			datasetColumns:   []string{"id", "new_field"},
			tableColumns:     []string{"id"},
			policy:           PolicyAppend,
			missingInTable:   []string{"new_field"},
			missingInDataset: []string{},
			reordered:        []string{"id", "new_field"},
		},
		{
			name:             "New local field is dropped",
			datasetColumns:   []string{"new_field", "id"},
			tableColumns:     []string{"id"},
			policy:           PolicyDrop,
			missingInTable:   []string{"new_field"},
			missingInDataset: []string{},
			reordered:        []string{"id"},
		},
		{
			name:             "Local-only columns keep their relative order",
			datasetColumns:   []string{"b_local", "id", "a_local", "zip"},
			tableColumns:     []string{"zip", "id"},
			policy:           PolicyAppend,
			missingInTable:   []string{"b_local", "a_local"},
			missingInDataset: []string{},
			reordered:        []string{"zip", "id", "b_local", "a_local"},
		},
		{
			name:             "Both empty",
			datasetColumns:   []string{},
			tableColumns:     []string{},
			policy:           PolicyAppend,
			missingInTable:   []string{},
			missingInDataset: []string{},
			reordered:        []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Reconcile(tt.datasetColumns, tt.tableColumns, tt.policy)
			require.NoError(t, err)
			assert.Equal(t, tt.missingInTable, plan.MissingInTable)
			assert.Equal(t, tt.missingInDataset, plan.MissingInDataset)
			assert.Equal(t, tt.reordered, plan.ReorderedColumns)
		})
	}
}

func TestReconcile_IdenticalInputs(t *testing.T) {
	cols := []string{"permit_id", "issued", "lat", "lon"}
	plan, err := Reconcile(cols, cols, PolicyAppend)
	require.NoError(t, err)
	assert.Empty(t, plan.MissingInTable)
	assert.Empty(t, plan.MissingInDataset)
	assert.Equal(t, cols, plan.ReorderedColumns)
	assert.True(t, plan.InOrder(cols))
}

func TestReconcile_InvalidSchema(t *testing.T) {
	dup := []string{"a", "a", "b"}

	_, err := Reconcile(dup, []string{"a"}, PolicyAppend)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSchema)
	var schemaErr *InvalidSchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, SideDataset, schemaErr.Side)
	assert.Equal(t, "a", schemaErr.Column)

	_, err = Reconcile([]string{"a"}, dup, PolicyAppend)
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, SideTable, schemaErr.Side)

	_, err = Reconcile([]string{"a", ""}, []string{"a"}, PolicyAppend)
	assert.ErrorIs(t, err, ErrInvalidSchema)
}

// TestReconcile_PermutationProperty checks, over random inputs, that the reordered
// columns are exactly the dataset's columns (append policy) with shared names in
// table order.
func TestReconcile_PermutationProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	universe := make([]string, 12)
	for i := range universe {
		universe[i] = fmt.Sprintf("c%02d", i)
	}

	pick := func() []string {
		perm := rng.Perm(len(universe))
		n := rng.Intn(len(universe) + 1)
		out := make([]string, n)
		for i := 0; i < n; i++ {
			out[i] = universe[perm[i]]
		}
		return out
	}

	for iter := 0; iter < 500; iter++ {
		local, remote := pick(), pick()
		plan, err := Reconcile(local, remote, PolicyAppend)
		require.NoError(t, err)

		assert.ElementsMatch(t, local, plan.ReorderedColumns, "iteration %d", iter)

		position := make(map[string]int, len(remote))
		for i, name := range remote {
			position[name] = i
		}
		last := -1
		seenLocalOnly := false
		for _, name := range plan.ReorderedColumns {
			pos, shared := position[name]
			if !shared {
				seenLocalOnly = true
				continue
			}
			assert.False(t, seenLocalOnly, "shared column %q after local-only columns", name)
			assert.Greater(t, pos, last, "shared column %q out of table order", name)
			last = pos
		}

		assert.Equal(t, len(local), len(plan.ReorderedColumns))
		assert.Equal(t, len(remote), len(local)-len(plan.MissingInTable)+len(plan.MissingInDataset))
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	table := []string{"id", "lat", "lon", "zip"}

	t.Run("Drop", func(t *testing.T) {
		ds := buildDataset(t, "lon", "id", "extra", "lat")

		first, err := Reconcile(ds.Names(), table, PolicyDrop)
		require.NoError(t, err)

		ordered, err := ApplyOrder(ds, first.ReorderedColumns, false)
		require.NoError(t, err)

		second, err := Reconcile(ordered.Names(), table, PolicyDrop)
		require.NoError(t, err)
		assert.Empty(t, second.MissingInTable)
		assert.Equal(t, first.MissingInDataset, second.MissingInDataset)
		assert.True(t, second.InOrder(ordered.Names()))
	})

	// Appended local-only columns survive the reorder, so they are still
	// reported as missing from the table until they are added.
	t.Run("Append", func(t *testing.T) {
		ds := buildDataset(t, "lon", "id", "extra", "lat")

		first, err := Reconcile(ds.Names(), table, PolicyAppend)
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "lat", "lon", "extra"}, first.ReorderedColumns)

		ordered, err := ApplyOrder(ds, first.ReorderedColumns, false)
		require.NoError(t, err)

		second, err := Reconcile(ordered.Names(), table, PolicyAppend)
		require.NoError(t, err)
		assert.Equal(t, []string{"extra"}, second.MissingInTable)
		assert.Equal(t, first.MissingInTable, second.MissingInTable)
		assert.Equal(t, first.MissingInDataset, second.MissingInDataset)
		assert.Equal(t, ordered.Names(), second.ReorderedColumns)
		assert.True(t, second.InOrder(ordered.Names()))
	})
}

func TestApplyOrder(t *testing.T) {
	t.Run("Copy", func(t *testing.T) {
		ds := buildDataset(t, "id", "lat", "addr")
		out, err := ApplyOrder(ds, []string{"addr", "id", "lat"}, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"addr", "id", "lat"}, out.Names())
		assert.Equal(t, []string{"id", "lat", "addr"}, ds.Names())
		assert.NotSame(t, ds, out)
	})

	t.Run("InPlace", func(t *testing.T) {
		ds := buildDataset(t, "id", "lat", "addr")
		out, err := ApplyOrder(ds, []string{"addr", "id", "lat"}, true)
		require.NoError(t, err)
		assert.Same(t, ds, out)
		assert.Equal(t, []string{"addr", "id", "lat"}, ds.Names())
	})

	t.Run("ColumnNotFound", func(t *testing.T) {
		ds := buildDataset(t, "id")
		_, err := ApplyOrder(ds, []string{"id", "zip"}, true)
		assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
		assert.Equal(t, []string{"id"}, ds.Names())
	})
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyAppend, p)

	p, err = ParsePolicy("drop")
	require.NoError(t, err)
	assert.Equal(t, PolicyDrop, p)

	_, err = ParsePolicy("sort")
	assert.Error(t, err)
}
