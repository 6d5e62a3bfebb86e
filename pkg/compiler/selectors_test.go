package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectStandardColumns(t *testing.T) {
	columns := []string{"A", "B", "C", "D"}

	t.Run("follows the requested order", func(t *testing.T) {
		selected := SelectStandardColumns(columns, []string{"C", "A"})
		assert.Equal(t, []string{"C", "A"}, selected)
	})

	t.Run("skips absent columns", func(t *testing.T) {
		selected := SelectStandardColumns(columns, []string{"X", "B", "Y"})
		assert.Equal(t, []string{"B"}, selected)
	})

	t.Run("selects repeated entries once", func(t *testing.T) {
		selected := SelectStandardColumns(columns, []string{"A", "A", "B"})
		assert.Equal(t, []string{"A", "B"}, selected)
	})

	t.Run("empty request", func(t *testing.T) {
		assert.Empty(t, SelectStandardColumns(columns, nil))
	})
}

func TestSelectTagColumns(t *testing.T) {
	columns := []string{
		"Protein IDs",
		"Intensity S1",
		"Intensity S2",
		"LFQ intensity S1",
	}

	selected, err := SelectTagColumns(columns, "^Intensity")
	require.NoError(t, err)
	assert.Equal(t, []string{"Intensity S1", "Intensity S2"}, selected)
}

func TestSelectTagColumnsInvalidPattern(t *testing.T) {
	_, err := SelectTagColumns([]string{"A"}, "[unclosed")
	assert.Error(t, err)
}

func TestSelectTagSampleColumns(t *testing.T) {
	columns := []string{
		"Protein IDs",
		"Intensity S1",
		"Intensity S2",
		"Spectral count S1",
		"Spectral count S2",
		"Spectral count total",
	}

	// sample names derive from the extraction tag columns, so only
	// per-sample spectral count columns are selected
	selected := SelectTagSampleColumns(columns, "Spectral count", "Intensity")
	assert.Equal(t, []string{"Spectral count S1", "Spectral count S2"}, selected)
}

func TestSelectTagSampleColumnsIgnoresBareTagColumn(t *testing.T) {
	columns := []string{"Intensity", "Intensity S1", "iBAQ S1"}

	selected := SelectTagSampleColumns(columns, "iBAQ", "Intensity")
	assert.Equal(t, []string{"iBAQ S1"}, selected)
}

func TestSelectLabelTagColumns(t *testing.T) {
	columns := []string{
		"Intensity S1",
		"Intensity S2",
		"Intensity S3",
	}

	// output follows the labels order, not the table order
	selected, err := SelectLabelTagColumns(columns, "Intensity", []string{"S3", "S1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Intensity S3", "Intensity S1"}, selected)
}

func TestSelectLabelTagColumnsExactRemainder(t *testing.T) {
	columns := []string{"Intensity S1", "Intensity S10"}

	selected, err := SelectLabelTagColumns(columns, "Intensity", []string{"S1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Intensity S1"}, selected)
}

func TestFindComparisonGroups(t *testing.T) {
	columns := []string{
		"Protein IDs",
		"P-value A vs B",
		"Ratio A vs B",
		"P-value C vs D",
		"Ratio C vs D",
	}

	groups := FindComparisonGroups(columns, " vs ", []string{"P-value", "Ratio"})
	assert.Equal(t, []string{"A vs B", "C vs D"}, groups)
}

func TestSelectComparisonGroupColumns(t *testing.T) {
	columns := []string{
		"Protein IDs",
		"Ratio A vs B",
		"P-value A vs B",
		"P-value A vs B rep2",
	}

	// output follows the role order; the leftover guard rejects columns
	// with extra text beyond group label and role
	selected := SelectComparisonGroupColumns(columns, []string{"P-value", "Ratio"}, "A vs B")
	assert.Equal(t, []string{"P-value A vs B", "Ratio A vs B"}, selected)
}

func TestComparisonGroupRoundTrip(t *testing.T) {
	columns := []string{
		"P-value A vs B",
		"Ratio A vs B",
		"P-value C vs D",
		"Ratio C vs D",
	}
	roles := []string{"P-value", "Ratio"}

	groups := FindComparisonGroups(columns, " vs ", roles)
	require.Equal(t, []string{"A vs B", "C vs D"}, groups)

	var all []string
	for _, group := range groups {
		all = append(all, SelectComparisonGroupColumns(columns, roles, group)...)
	}
	assert.ElementsMatch(t, columns, all)
}
