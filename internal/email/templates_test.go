package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildStockAlertBody(t *testing.T) {
	body := BuildStockAlertBody(StockAlert{ProductID: "17", Name: "Clavier <AZERTY>", Quantity: 0, Delta: -3, Level: "OUT_OF_STOCK"})

	assert.Contains(t, body, "OUT_OF_STOCK")
	assert.Contains(t, body, "Clavier &lt;AZERTY&gt;")
	assert.Contains(t, body, "#c0392b")
	assert.Contains(t, body, "-3")
}

func TestBuildStockAlertBody_FallsBackToID(t *testing.T) {
	body := BuildStockAlertBody(StockAlert{ProductID: "17", Quantity: 4, Delta: -1, Level: "LOW"})

	assert.Contains(t, body, "<td style=\"padding: 8px; font-weight: bold;\">17</td>")
	assert.Contains(t, body, "#e0a800")
}
