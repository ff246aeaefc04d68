package boxorder

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSimpleBox(t *testing.T) {
	raw := []RawBox{{Label: "Alice", Items: []RawItem{{ProductID: 1, Quantity: 2, Price: "0.01"}}}}

	set, err := Validate(context.Background(), raw, DefaultLimits(), newFakeCatalog())
	require.NoError(t, err)
	require.Len(t, set.Boxes, 1)

	got := set.Boxes[0].Items[0]
	assert.Equal(t, "Alice", set.Boxes[0].Label)
	assert.Equal(t, "Kuih Lapis", got.ProductName)
	assert.True(t, got.UnitPrice.Equal(decimal.NewFromInt(10)), "client price must be ignored")

	lines := Aggregate(*set)
	require.Len(t, lines, 1)
	assert.Equal(t, LineKey{ProductID: 1}, lines[0].Key())
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, lines[0].UnitPrice.Equal(decimal.NewFromInt(10)))
}

func TestValidateMissingVariant(t *testing.T) {
	raw := []RawBox{{Label: "Bob", Items: []RawItem{{ProductID: 2, Quantity: 1}}}}

	set, err := Validate(context.Background(), raw, DefaultLimits(), newFakeCatalog())
	require.Nil(t, set)
	require.ErrorIs(t, err, ErrMissingVariant)

	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "Baju Kurung", verr.ProductName)
	assert.Equal(t, "Bob", verr.BoxLabel)
	assert.Equal(t, `Please select a variation for "Baju Kurung".`, err.Error())
}

func TestValidateTooManyBoxes(t *testing.T) {
	raw := make([]RawBox, 11)
	for i := range raw {
		raw[i] = RawBox{Label: fmt.Sprintf("B%d", i), Items: []RawItem{{ProductID: 1, Quantity: 1}}}
	}

	set, err := Validate(context.Background(), raw, Limits{MaxBoxes: 10, MaxItemsPerBox: 20}, newFakeCatalog())
	assert.Nil(t, set)
	assert.ErrorIs(t, err, ErrTooManyBoxes)
	assert.Equal(t, "Maximum 10 boxes allowed.", err.Error())
}

func TestValidateItemsPerBoxBoundary(t *testing.T) {
	limits := Limits{MaxBoxes: 10, MaxItemsPerBox: 3}
	build := func(n int) []RawBox {
		items := make([]RawItem, n)
		for i := range items {
			items[i] = RawItem{ProductID: 1, Quantity: 1}
		}
		return []RawBox{{Label: "Edge", Items: items}}
	}

	set, err := Validate(context.Background(), build(3), limits, newFakeCatalog())
	require.NoError(t, err)
	assert.Len(t, set.Boxes[0].Items, 3)

	set, err = Validate(context.Background(), build(4), limits, newFakeCatalog())
	assert.Nil(t, set)
	assert.ErrorIs(t, err, ErrTooManyItems)
	assert.Equal(t, `Box "Edge" has too many items (maximum 3).`, err.Error())
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name string
		raw  []RawBox
		want error
	}{
		{name: "empty input", raw: nil, want: ErrNoValidBoxes},
		{name: "box without items", raw: []RawBox{{Label: "A"}}, want: ErrEmptyBox},
		{name: "only blank rows", raw: []RawBox{{Label: "A", Items: []RawItem{{ProductID: 0, Quantity: 1}}}}, want: ErrEmptyBox},
		{name: "zero quantity", raw: []RawBox{{Label: "A", Items: []RawItem{{ProductID: 1, Quantity: 0}}}}, want: ErrInvalidQuantity},
		{name: "unknown product", raw: []RawBox{{Label: "A", Items: []RawItem{{ProductID: 99, Quantity: 1}}}}, want: ErrInvalidProduct},
		{name: "not purchasable", raw: []RawBox{{Label: "A", Items: []RawItem{{ProductID: 3, Quantity: 1}}}}, want: ErrInvalidProduct},
		{name: "unknown variant", raw: []RawBox{{Label: "A", Items: []RawItem{{ProductID: 2, VariantID: 99, Quantity: 1}}}}, want: ErrInvalidVariant},
		{name: "variant not purchasable", raw: []RawBox{{Label: "A", Items: []RawItem{{ProductID: 2, VariantID: 24, Quantity: 1}}}}, want: ErrInvalidVariant},
		{name: "variant of other product", raw: []RawBox{{Label: "A", Items: []RawItem{{ProductID: 2, VariantID: 41, Quantity: 1}}}}, want: ErrInvalidVariant},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set, err := Validate(context.Background(), tc.raw, DefaultLimits(), newFakeCatalog())
			assert.Nil(t, set)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestValidateFirstErrorWins(t *testing.T) {
	raw := []RawBox{
		{Label: "First", Items: []RawItem{{ProductID: 99, Quantity: 1}}},
		{Label: "Second"},
	}
	_, err := Validate(context.Background(), raw, DefaultLimits(), newFakeCatalog())
	assert.ErrorIs(t, err, ErrInvalidProduct)
}

func TestValidateCatalogFailureIsNotValidationError(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.failOn = 1
	_, err := Validate(context.Background(), []RawBox{{Label: "A", Items: []RawItem{{ProductID: 1, Quantity: 1}}}}, DefaultLimits(), catalog)
	require.Error(t, err)
	_, ok := AsValidationError(err)
	assert.False(t, ok)
}

func TestValidateVariantDescriptions(t *testing.T) {
	raw := []RawBox{{Label: "Carol", Items: []RawItem{
		{ProductID: 2, VariantID: 21, Quantity: 1},
		{ProductID: 2, VariantID: 22, Quantity: 1},
		{ProductID: 2, VariantID: 23, Quantity: 1},
		{ProductID: 1, VariantID: 21, Quantity: 1},
	}}}

	set, err := Validate(context.Background(), raw, DefaultLimits(), newFakeCatalog())
	require.NoError(t, err)
	items := set.Boxes[0].Items

	assert.Equal(t, "Merah, Extra Large", items[0].VariantDescription)
	assert.True(t, items[0].UnitPrice.Equal(decimal.NewFromInt(85)))
	assert.Equal(t, "Blue", items[1].VariantDescription)
	assert.Equal(t, "Variation #23", items[2].VariantDescription)
	assert.Zero(t, items[3].VariantID, "simple products drop the variant id")
}

func TestValidateDefaultsBlankLabel(t *testing.T) {
	raw := []RawBox{
		{Label: "A", Items: []RawItem{{ProductID: 1, Quantity: 1}}},
		{Label: "  ", Items: []RawItem{{ProductID: 1, Quantity: 1}}},
	}
	set, err := Validate(context.Background(), raw, DefaultLimits(), newFakeCatalog())
	require.NoError(t, err)
	assert.Equal(t, "Box 2", set.Boxes[1].Label)
}

func TestHumanizeSlug(t *testing.T) {
	assert.Equal(t, "Extra Large", HumanizeSlug("extra_large"))
	assert.Equal(t, "Navy Blue Dark", HumanizeSlug("navy-blue_dark"))
	assert.Equal(t, "", HumanizeSlug("  "))
}

func TestValidationErrorUnwrap(t *testing.T) {
	err := tooManyItems("X", 2)
	assert.True(t, errors.Is(err, ErrTooManyItems))
	assert.False(t, errors.Is(err, ErrTooManyBoxes))
}

func TestValidateRejectsDuplicateLabels(t *testing.T) {
	cases := []struct {
		name  string
		raw   []RawBox
		label string
	}{
		{
			name: "same label twice",
			raw: []RawBox{
				{Label: "Alice", Items: []RawItem{{ProductID: 1, Quantity: 2}}},
				{Label: "Alice", Items: []RawItem{{ProductID: 2, VariantID: 21, Quantity: 1}}},
			},
			label: "Alice",
		},
		{
			name: "label equal after trimming",
			raw: []RawBox{
				{Label: "Alice", Items: []RawItem{{ProductID: 1, Quantity: 1}}},
				{Label: " Alice ", Items: []RawItem{{ProductID: 1, Quantity: 1}}},
			},
			label: "Alice",
		},
		{
			name: "default label collides with typed label",
			raw: []RawBox{
				{Label: "Box 2", Items: []RawItem{{ProductID: 1, Quantity: 1}}},
				{Label: "", Items: []RawItem{{ProductID: 1, Quantity: 1}}},
			},
			label: "Box 2",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set, err := Validate(context.Background(), tc.raw, DefaultLimits(), newFakeCatalog())
			assert.Nil(t, set)
			require.ErrorIs(t, err, ErrDuplicateBox)
			verr, ok := AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, CodeDuplicateBox, verr.Code)
			assert.Equal(t, tc.label, verr.BoxLabel)
		})
	}
}

func TestValidateLabelsDifferingInCaseAreDistinct(t *testing.T) {
	raw := []RawBox{
		{Label: "Alice", Items: []RawItem{{ProductID: 1, Quantity: 1}}},
		{Label: "alice", Items: []RawItem{{ProductID: 1, Quantity: 1}}},
	}
	set, err := Validate(context.Background(), raw, DefaultLimits(), newFakeCatalog())
	require.NoError(t, err)
	assert.Len(t, set.Boxes, 2)
	assert.Empty(t, Diff(set, *set))
}

func TestValidatedSetDiffsEmptyAgainstItself(t *testing.T) {
	inputs := [][]RawBox{
		{
			{Label: "Alice", Items: []RawItem{{ProductID: 1, Quantity: 2}}},
			{Label: "Bob", Items: []RawItem{{ProductID: 2, VariantID: 21, Quantity: 1}, {ProductID: 1, Quantity: 3}}},
		},
		{
			{Label: "", Items: []RawItem{{ProductID: 1, Quantity: 1}}},
			{Label: "", Items: []RawItem{{ProductID: 2, VariantID: 22, Quantity: 4}}},
		},
		{
			{Label: "Carol", Items: []RawItem{{ProductID: 1, Quantity: 1}, {ProductID: 1, Quantity: 2}}},
		},
	}
	for i, raw := range inputs {
		set, err := Validate(context.Background(), raw, DefaultLimits(), newFakeCatalog())
		require.NoError(t, err, "input %d", i)
		assert.Empty(t, Diff(set, *set), "input %d", i)
		stored := set.Clone()
		assert.Empty(t, Diff(&stored, *set), "input %d", i)
	}
}
