package frame

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCards() *Frame {
	f := New("card_id", "name")
	_ = f.Append("base1-4", "Charizard")
	_ = f.Append("base1-1", "Alakazam")
	_ = f.Append("base1-2", "Blastoise")
	return f
}

func TestAppendRejectsWrongWidth(t *testing.T) {
	f := New("a", "b")
	require.Error(t, f.Append("only-one"))
	require.NoError(t, f.Append("x", int64(1)))
	assert.Equal(t, 1, f.Len())
}

func TestLeftJoinOneToMany(t *testing.T) {
	prices := New("card_id", "price_type", "market")
	_ = prices.Append("base1-4", "normal", 300.5)
	_ = prices.Append("base1-4", "holofoil", 900.0)
	_ = prices.Append("base1-2", "normal", nil)

	got, err := sampleCards().LeftJoin(prices, "card_id")
	require.NoError(t, err)

	want := &Frame{
		Columns: []string{"card_id", "name", "price_type", "market"},
		Rows: [][]any{
			{"base1-4", "Charizard", "normal", 300.5},
			{"base1-4", "Charizard", "holofoil", 900.0},
			{"base1-1", "Alakazam", nil, nil},
			{"base1-2", "Blastoise", "normal", nil},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LeftJoin mismatch (-want +got):\n%s", diff)
	}
}

func TestLeftJoinMissingKey(t *testing.T) {
	_, err := sampleCards().LeftJoin(New("id"), "card_id")
	assert.Error(t, err)
}

func TestLeftJoinSuffixesCollisions(t *testing.T) {
	right := New("card_id", "name")
	_ = right.Append("base1-4", "other")

	got, err := sampleCards().LeftJoin(right, "card_id")
	require.NoError(t, err)
	assert.Equal(t, []string{"card_id", "name", "name_right"}, got.Columns)
}

func TestSelectDropAndWithColumn(t *testing.T) {
	f := sampleCards().WithColumn("hp", func(i int) any { return int64(i * 10) })
	assert.Equal(t, []string{"card_id", "name", "hp"}, f.Columns)

	f = f.WithColumn("name", func(i int) any { return "x" })
	assert.Equal(t, "x", f.Value(0, "name"))

	sel, err := f.Select("hp", "card_id")
	require.NoError(t, err)
	assert.Equal(t, []any{int64(0), "base1-4"}, sel.Rows[0])

	_, err = f.Select("missing")
	assert.Error(t, err)

	dropped := f.Drop("card_id", "nope")
	assert.Equal(t, []string{"name", "hp"}, dropped.Columns)
}

func TestFillNull(t *testing.T) {
	f := New("price_type")
	_ = f.Append(nil)
	_ = f.Append("normal")

	got := f.FillNull("price_type", "unknown")
	assert.Equal(t, "unknown", got.Value(0, "price_type"))
	assert.Equal(t, "normal", got.Value(1, "price_type"))
	assert.Nil(t, f.Value(0, "price_type"), "FillNull must not mutate its input")
}

func TestInferDtype(t *testing.T) {
	tests := []struct {
		name string
		vals []any
		want string
	}{
		{"ints", []any{int64(1), int64(2)}, DtypeInt64},
		{"ints with null", []any{int64(1), nil}, DtypeFloat64},
		{"floats", []any{1.5, int64(2)}, DtypeFloat64},
		{"all null", []any{nil, nil}, DtypeFloat64},
		{"nan is null", []any{math.NaN()}, DtypeFloat64},
		{"bools", []any{true, false}, DtypeBool},
		{"bools with null", []any{true, nil}, DtypeObject},
		{"strings", []any{"Fire", nil}, DtypeObject},
		{"mixed", []any{"Fire", int64(1)}, DtypeObject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferDtype(tt.vals))
		})
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"Fire", "Fire"},
		{int64(120), "120"},
		{1.0, "1.0"},
		{0.25, "0.25"},
		{math.NaN(), ""},
		{true, "True"},
		{false, "False"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%v) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatAsFollowsColumnDtype(t *testing.T) {
	f := New("num_attacks")
	_ = f.Append(int64(1))
	_ = f.Append(nil)

	dtype := f.Dtype("num_attacks")
	assert.Equal(t, DtypeFloat64, dtype)
	assert.Equal(t, "1.0", FormatAs(int64(1), dtype))
	assert.Equal(t, "", FormatAs(nil, dtype))
	assert.Equal(t, "1", FormatAs(int64(1), DtypeInt64))
	assert.Equal(t, "Fire", FormatAs("Fire", DtypeObject))
}

func TestFloat(t *testing.T) {
	v, ok := Float(int64(3))
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)

	_, ok = Float("3")
	assert.False(t, ok)

	_, ok = Float(math.NaN())
	assert.False(t, ok)
}
