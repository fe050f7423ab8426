package traits_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/phylo/pkg/errors"
	"github.com/matzehuels/phylo/pkg/traits"
)

func TestMatchLabels(t *testing.T) {
	got, err := traits.MatchLabels([]string{"Fver", "Fpro", "Fudu"}, []string{"Fpro", "Fudu", "Fver"})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1}, got)
}

func TestMatchLabelsUnmatched(t *testing.T) {
	got, err := traits.MatchLabels([]string{"Fver", "Fxyz", "Fudu"}, []string{"Fudu", "Fver", "Fabc"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, traits.Unmatched, 0}, got)

	got, err = traits.MatchLabels([]string{"A", "B"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{traits.Unmatched, traits.Unmatched}, got)
}

func TestMatchLabelsAmbiguous(t *testing.T) {
	_, err := traits.MatchLabels([]string{"A", "B"}, []string{"B", "A", "B"})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeAmbiguousMatch), "got %v", err)

	// A duplicate nobody asks for is harmless.
	got, err := traits.MatchLabels([]string{"A"}, []string{"B", "A", "B"})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got)
}

func TestMatchLabelsCaseSensitive(t *testing.T) {
	got, err := traits.MatchLabels([]string{"fver"}, []string{"Fver"})
	require.NoError(t, err)
	assert.Equal(t, []int{traits.Unmatched}, got)
}

func TestCheck(t *testing.T) {
	r := traits.Check([]string{"A", "B", "C"}, []string{"C", "D", "A"})
	assert.Equal(t, []string{"A", "C"}, r.Matched)
	assert.Equal(t, []string{"B"}, r.MissingInData)
	assert.Equal(t, []string{"D"}, r.MissingInTree)
	assert.False(t, r.OK())

	assert.True(t, traits.Check([]string{"A", "B"}, []string{"B", "A"}).OK())
}

func TestAlign(t *testing.T) {
	rows := []float64{1.5, 2.5, 3.5}
	got, found, err := traits.Align([]string{"Fver", "Fpro", "Fnew"}, []string{"Fpro", "Fudu", "Fver"}, rows)
	require.NoError(t, err)
	assert.Equal(t, []float64{3.5, 1.5, 0}, got)
	assert.Equal(t, []bool{true, true, false}, found)

	_, _, err = traits.Align([]string{"A"}, []string{"A", "B"}, rows[:1])
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput), "got %v", err)
}
