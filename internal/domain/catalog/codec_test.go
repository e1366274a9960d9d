package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const remotePayload = `[
  {
    "id": 1712345678901,
    "name": "Clavier",
    "type": "Informatique",
    "barcode": "3760123456789",
    "price": 249.5,
    "supplier": "LogiTech",
    "image": null,
    "stocks": [
      {"id": 1712345678902, "name": "Entrepot A", "quantity": 12,
       "localisation": {"city": "Casablanca", "latitude": 33.57, "longitude": -7.59}}
    ],
    "editedBy": [{"warehousemanId": 1444, "at": "2024-03-09"}]
  },
  {"id": "2", "name": "Souris", "price": 10}
]`

func TestDecode_RemoteShape(t *testing.T) {
	c, report, err := Decode([]byte(remotePayload))

	require.NoError(t, err)
	assert.Equal(t, 2, report.Accepted)
	assert.Empty(t, report.Rejected)
	require.Len(t, c, 2)

	first := c[0]
	assert.Equal(t, ID("1712345678901"), first.ID)
	assert.True(t, first.Price.Equal(decimal.RequireFromString("249.5")))
	assert.Nil(t, first.Image)
	require.Len(t, first.Stocks, 1)
	assert.Equal(t, ID("1712345678902"), first.Stocks[0].ID)
	assert.Equal(t, "Casablanca", first.Stocks[0].Localisation.City)
	assert.Equal(t, ID("1444"), first.EditedBy[0].WarehousemanID)
	assert.Equal(t, "2024-03-09", first.EditedBy[0].At.String())

	// absent collections are coerced to empty, never nil
	assert.NotNil(t, c[1].Stocks)
	assert.NotNil(t, c[1].EditedBy)
}

func TestDecode_DropsMalformedRecords(t *testing.T) {
	payload := `[
		{"id": "ok", "price": 1},
		{"id": "", "price": 1},
		{"id": "neg", "price": -3},
		{"id": "bad-qty", "stocks": [{"id": "s", "quantity": "lots"}]},
		"not an object"
	]`

	c, report, err := Decode([]byte(payload))

	require.NoError(t, err)
	assert.Equal(t, []ID{"ok"}, c.IDs())
	assert.Equal(t, 1, report.Accepted)
	require.Len(t, report.Rejected, 4)
	assert.Equal(t, 1, report.Rejected[0].Index)
	assert.Equal(t, 4, report.Rejected[3].Index)
}

func TestDecode_DropsDuplicateStockIDs(t *testing.T) {
	payload := `[
		{"id": 1, "name": "Clavier", "stocks": [{"id": 7, "quantity": 2}, {"id": 7, "quantity": 5}]},
		{"id": 2, "name": "Souris", "stocks": [{"id": 7, "quantity": 1}]}
	]`

	c, report, err := Decode([]byte(payload))

	require.NoError(t, err)
	assert.Equal(t, []ID{"2"}, c.IDs())
	assert.Equal(t, 1, report.Accepted)
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, 0, report.Rejected[0].Index)
	assert.ErrorIs(t, report.Rejected[0].Err, ErrInvalidProduct)
}

func TestEncode_PriceIsNumber(t *testing.T) {
	data, err := json.Marshal(Product{ID: "1", Price: decimal.RequireFromString("19.90")})

	require.NoError(t, err)
	assert.Contains(t, string(data), `"price":19.9`)
	assert.NotContains(t, string(data), `"price":"`)
	assert.False(t, decimal.MarshalJSONWithoutQuotes)
}

func TestDecode_MalformedPayload(t *testing.T) {
	for _, payload := range []string{``, `{`, `{"id": 1}`, `garbage`} {
		_, _, err := Decode([]byte(payload))
		assert.ErrorIs(t, err, ErrMalformedPayload, payload)
	}
}

func TestDecode_Null(t *testing.T) {
	c, _, err := Decode([]byte(`null`))
	require.NoError(t, err)
	assert.Empty(t, c)
}

func TestEncode_RoundTrip(t *testing.T) {
	img := "file:///a.png"
	original := Catalog{{
		ID:       "10",
		Name:     "Stylo",
		Price:    decimal.RequireFromString("1.25"),
		Image:    &img,
		Stocks:   []Stock{{ID: "11", Name: "Rabat", Quantity: -2, Localisation: Localisation{City: "Rabat"}}},
		EditedBy: []EditRecord{{WarehousemanID: "1444", At: NewDay(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))}},
	}}

	data, err := Encode(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"price":1.25`)
	assert.Contains(t, string(data), `"editedBy":[{"warehousemanId":"1444","at":"2024-01-02"}]`)

	restored, report, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, report.Rejected)
	require.Len(t, restored, 1)
	assert.Equal(t, original[0].Stocks, restored[0].Stocks)
	assert.Equal(t, *original[0].Image, *restored[0].Image)
	assert.True(t, original[0].Price.Equal(restored[0].Price))
}

func TestEncode_Nil(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}
