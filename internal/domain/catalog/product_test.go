package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// ID Tests
// ============================================

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ID
	}{
		{"string", `"prod-1"`, "prod-1"},
		{"integer", `1712345678901`, "1712345678901"},
		{"null", `null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			require.NoError(t, json.Unmarshal([]byte(tt.input), &id))
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestID_UnmarshalJSON_RejectsBool(t *testing.T) {
	var id ID
	assert.Error(t, json.Unmarshal([]byte(`true`), &id))
}

func TestID_MarshalsAsString(t *testing.T) {
	data, err := json.Marshal(ID("42"))
	require.NoError(t, err)
	assert.Equal(t, `"42"`, string(data))
}

// ============================================
// Day Tests
// ============================================

func TestDay_RoundTrip(t *testing.T) {
	day := NewDay(time.Date(2024, 3, 9, 17, 45, 0, 0, time.UTC))

	data, err := json.Marshal(day)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-09"`, string(data))

	var restored Day
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.True(t, day.Equal(restored.Time))
}

func TestDay_AcceptsTimestamp(t *testing.T) {
	var day Day
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-09T23:10:00Z"`), &day))
	assert.Equal(t, "2024-03-09", day.String())
}

func TestDay_RejectsGarbage(t *testing.T) {
	var day Day
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &day))
}

// ============================================
// Product Tests
// ============================================

func TestProduct_RepresentativeQuantity(t *testing.T) {
	assert.Equal(t, 0, Product{}.RepresentativeQuantity())

	p := Product{Stocks: []Stock{{ID: "s1", Quantity: 4}, {ID: "s2", Quantity: 7}}}
	assert.Equal(t, 4, p.RepresentativeQuantity())
}

func TestProduct_Validate(t *testing.T) {
	tests := []struct {
		name    string
		product Product
		valid   bool
	}{
		{"minimal", Product{ID: "1"}, true},
		{"missing id", Product{Name: "A"}, false},
		{"negative price", Product{ID: "1", Price: decimal.NewFromInt(-1)}, false},
		{"stock without id", Product{ID: "1", Stocks: []Stock{{Quantity: 3}}}, false},
		{"duplicate stock ids", Product{ID: "1", Stocks: []Stock{{ID: "s"}, {ID: "s"}}}, false},
		{"distinct stock ids", Product{ID: "1", Stocks: []Stock{{ID: "s"}, {ID: "t"}}}, true},
		{"latitude out of range", Product{ID: "1", Stocks: []Stock{{ID: "s", Localisation: Localisation{Latitude: 91}}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidProduct)
			}
		})
	}
}

func TestProduct_CloneIsDeep(t *testing.T) {
	img := "http://img/1.png"
	original := Product{
		ID:       "1",
		Image:    &img,
		Stocks:   []Stock{{ID: "s1", Quantity: 1}},
		EditedBy: []EditRecord{{WarehousemanID: "1444"}},
	}

	clone := original.Clone()
	clone.Stocks[0].Quantity = 99
	*clone.Image = "changed"
	clone.EditedBy[0].WarehousemanID = "7"

	assert.Equal(t, 1, original.Stocks[0].Quantity)
	assert.Equal(t, "http://img/1.png", *original.Image)
	assert.Equal(t, ID("1444"), original.EditedBy[0].WarehousemanID)
}

// ============================================
// Catalog Tests
// ============================================

func TestCatalog_IndexOf(t *testing.T) {
	c := Catalog{{ID: "a"}, {ID: "b"}}

	assert.Equal(t, 1, c.IndexOf("b"))
	assert.Equal(t, -1, c.IndexOf("z"))
	assert.True(t, c.Contains("a"))
	assert.Equal(t, []ID{"a", "b"}, c.IDs())
}

func TestCatalog_CloneNil(t *testing.T) {
	var c Catalog
	clone := c.Clone()
	assert.NotNil(t, clone)
	assert.Empty(t, clone)
}

func TestProduct_ClonePreservesNil(t *testing.T) {
	clone := Product{ID: "1"}.Clone()
	assert.Nil(t, clone.Stocks)
	assert.Nil(t, clone.EditedBy)
	assert.Equal(t, Product{ID: "1"}, clone)
}
