package command

import (
	"testing"
	"time"

	"github.com/example/stockkeeper/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyAdjustQuantity_InputUntouched(t *testing.T) {
	input := catalog.Catalog{stocked("1", 10, 3, 8)}

	next, changed := ApplyAdjustQuantity(input, "1", -5)

	assert.True(t, changed)
	assert.Equal(t, []int{-2, 3}, []int{next[0].Stocks[0].Quantity, next[0].Stocks[1].Quantity})
	assert.Equal(t, 3, input[0].Stocks[0].Quantity)
}

func TestApplyAdjustQuantity_Roundtrip(t *testing.T) {
	input := catalog.Catalog{stocked("1", 10, 3, 8)}

	up, _ := ApplyAdjustQuantity(input, "1", 4)
	back, _ := ApplyAdjustQuantity(up, "1", -4)

	assert.Equal(t, input, back)
}

func TestApplyInsert_NilCatalog(t *testing.T) {
	next, err := ApplyInsert(nil, catalog.Product{ID: "1"})

	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, []catalog.Stock{}, next[0].Stocks)
	assert.Equal(t, []catalog.EditRecord{}, next[0].EditedBy)
}

func TestApplyInsert_DoesNotAlias(t *testing.T) {
	p := stocked("1", 10, 3)
	next, err := ApplyInsert(catalog.Catalog{}, p)
	require.NoError(t, err)

	p.Stocks[0].Quantity = 100
	assert.Equal(t, 3, next[0].Stocks[0].Quantity)
}

func TestApplyUpdate_KeepsPosition(t *testing.T) {
	input := catalog.Catalog{stocked("1", 1), stocked("2", 2), stocked("3", 3)}
	edited := input[1].Clone()
	edited.Price = decimal.NewFromInt(20)

	next, changed, err := ApplyUpdate(input, edited)

	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []catalog.ID{"1", "2", "3"}, next.IDs())
	assert.True(t, next[1].Price.Equal(decimal.NewFromInt(20)))
}

func TestApplyUpdate_Invalid(t *testing.T) {
	input := catalog.Catalog{stocked("1", 1)}
	edited := input[0].Clone()
	edited.Price = decimal.NewFromInt(-1)

	next, changed, err := ApplyUpdate(input, edited)

	assert.ErrorIs(t, err, catalog.ErrInvalidProduct)
	assert.False(t, changed)
	assert.Equal(t, input, next)
}

func edited(warehouseman string, day int) catalog.EditRecord {
	return catalog.EditRecord{
		WarehousemanID: catalog.ID(warehouseman),
		At:             catalog.NewDay(time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)),
	}
}

func TestApplyUpdate_KeepsEditLogWhenOmitted(t *testing.T) {
	stored := stocked("1", 10, 3)
	stored.EditedBy = []catalog.EditRecord{edited("1444", 2)}

	next, changed, err := ApplyUpdate(catalog.Catalog{stored}, catalog.Product{ID: "1", Name: "A2"})

	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "A2", next[0].Name)
	assert.Equal(t, []catalog.EditRecord{edited("1444", 2)}, next[0].EditedBy)
}

func TestApplyUpdate_AcceptsExtendedEditLog(t *testing.T) {
	stored := stocked("1", 10, 3)
	stored.EditedBy = []catalog.EditRecord{edited("1444", 2)}
	update := stored.Clone()
	update.EditedBy = append(update.EditedBy, edited("7", 3))

	next, _, err := ApplyUpdate(catalog.Catalog{stored}, update)

	require.NoError(t, err)
	assert.Len(t, next[0].EditedBy, 2)
}

func TestApplyUpdate_RejectsRewrittenEditLog(t *testing.T) {
	stored := stocked("1", 10, 3)
	stored.EditedBy = []catalog.EditRecord{edited("1444", 2), edited("7", 3)}
	input := catalog.Catalog{stored}

	for name, entries := range map[string][]catalog.EditRecord{
		"shortened": {edited("1444", 2)},
		"replaced":  {edited("9", 2), edited("7", 3)},
	} {
		update := stored.Clone()
		update.EditedBy = entries

		next, changed, err := ApplyUpdate(input, update)

		assert.ErrorIs(t, err, catalog.ErrInvalidProduct, name)
		assert.False(t, changed, name)
		assert.Equal(t, input, next, name)
	}
}

func TestApplyInsert_RejectedResultIsCopy(t *testing.T) {
	input := catalog.Catalog{stocked("1", 10, 3)}

	next, err := ApplyInsert(input, catalog.Product{ID: "1"})
	require.ErrorIs(t, err, catalog.ErrDuplicateIdentity)

	next[0].Name = "mutated"
	next[0].Stocks[0].Quantity = 99
	assert.Equal(t, "Product 1", input[0].Name)
	assert.Equal(t, 3, input[0].Stocks[0].Quantity)
}

func TestApplyRemove_LastElement(t *testing.T) {
	next, removed := ApplyRemove(catalog.Catalog{stocked("1", 1)}, "1")

	assert.True(t, removed)
	assert.NotNil(t, next)
	assert.Empty(t, next)
}
