package boxorder

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSet() BoxSet {
	return BoxSet{Boxes: []Box{
		{Label: "Alice", Items: []BoxItem{
			{ProductID: 1, ProductName: "Kuih Lapis", Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
			{ProductID: 2, VariantID: 21, ProductName: "Baju Kurung", VariantDescription: "Merah", Quantity: 1, UnitPrice: decimal.NewFromInt(85)},
		}},
		{Label: "Bob", Items: []BoxItem{
			{ProductID: 1, ProductName: "Kuih Lapis", Quantity: 3, UnitPrice: decimal.NewFromInt(10)},
			{ProductID: 4, ProductName: "Air Sirap", Quantity: 1, UnitPrice: decimal.RequireFromString("3.50")},
		}},
	}}
}

func TestAggregatePreservesQuantity(t *testing.T) {
	set := sampleSet()
	lines := Aggregate(set)

	sum := 0
	for _, line := range lines {
		sum += line.Quantity
	}
	assert.Equal(t, TotalQuantity(set), sum)
	require.Len(t, lines, 3)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, uint(21), lines[1].VariantID)
	assert.Equal(t, "138.5", GrandTotal(lines).String())
}

func TestAggregateReportsPriceConflicts(t *testing.T) {
	set := sampleSet()
	set.Boxes[1].Items[0].UnitPrice = decimal.NewFromInt(12)

	lines, conflicts := AggregateWithConflicts(set)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "Bob", conflicts[0].Box)
	assert.True(t, lines[0].UnitPrice.Equal(decimal.NewFromInt(10)))
}

func TestAssembleForGuest(t *testing.T) {
	guest := &BillingAddress{FirstName: " Nur ", Email: "NUR@Example.com", Country: "my"}
	draft, err := Assemble(context.Background(), AssembleInput{
		BoxSet:           sampleSet(),
		Guest:            guest,
		Agent:            AgentRef{ID: 3, Name: "Aminah"},
		CreatedFromAdmin: true,
	}, newFakeCatalog())
	require.NoError(t, err)

	assert.Equal(t, DefaultOrderStatus, draft.Status)
	assert.True(t, draft.IsBoxOrder)
	assert.Equal(t, "Nur", draft.Billing.FirstName)
	assert.Equal(t, "nur@example.com", draft.Billing.Email)
	assert.Equal(t, "MY", draft.Billing.Country)
	assert.Equal(t, "Box order created from admin by Aminah.", draft.Note)
	require.Len(t, draft.Lines, 3)
	assert.Equal(t, "Baju Kurung - Merah", draft.Lines[1].Title)
	assert.Equal(t, "50", draft.Lines[0].Total.String())
	assert.Equal(t, "138.5", draft.Total.String())
	assert.Empty(t, draft.Skipped)
}

func TestAssembleCustomerBillingFallback(t *testing.T) {
	customer := &CustomerProfile{
		ID:        9,
		FirstName: "Farah",
		LastName:  "Ismail",
		Email:     "farah@example.com",
		Billing:   BillingAddress{LastName: "Billing-Ismail", City: "Kuala Terengganu"},
	}
	draft, err := Assemble(context.Background(), AssembleInput{BoxSet: sampleSet(), Customer: customer, Status: "processing"}, newFakeCatalog())
	require.NoError(t, err)

	assert.Equal(t, uint(9), draft.CustomerID)
	assert.Equal(t, "Farah", draft.Billing.FirstName)
	assert.Equal(t, "Billing-Ismail", draft.Billing.LastName)
	assert.Equal(t, "farah@example.com", draft.Billing.Email)
	assert.Equal(t, "Kuala Terengganu", draft.Billing.City)
	assert.Equal(t, "processing", draft.Status)
	assert.True(t, strings.HasPrefix(draft.Note, "Box order placed by guest"))
}

func TestAssembleSkipsDriftedProducts(t *testing.T) {
	catalog := newFakeCatalog()
	delete(catalog.products, 4)
	delete(catalog.variants, 21)

	draft, err := Assemble(context.Background(), AssembleInput{BoxSet: sampleSet()}, catalog)
	require.NoError(t, err)
	require.Len(t, draft.Lines, 1)
	assert.Equal(t, []LineKey{{ProductID: 2, VariantID: 21}, {ProductID: 4}}, draft.Skipped)
	assert.Len(t, draft.BoxSet.Boxes[1].Items, 2, "box metadata keeps skipped items")
}
