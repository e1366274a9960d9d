package email

import (
	"fmt"
	"html"
)

// StockAlert describes a product whose representative quantity dropped
type StockAlert struct {
	ProductID string
	Name      string
	Quantity  int
	Delta     int
	Level     string
}

func (a StockAlert) displayName() string {
	if a.Name == "" {
		return a.ProductID
	}
	return a.Name
}

// BuildStockAlertBody builds the HTML body for a stock alert email
func BuildStockAlertBody(alert StockAlert) string {
	color := "#e0a800"
	if alert.Quantity <= 0 {
		color = "#c0392b"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: %s; padding: 20px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 22px;">%s</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<table style="width: 100%%; border-collapse: collapse;">
			<tr><td style="padding: 8px; color: #666;">Product</td><td style="padding: 8px; font-weight: bold;">%s</td></tr>
			<tr><td style="padding: 8px; color: #666;">ID</td><td style="padding: 8px; font-family: monospace;">%s</td></tr>
			<tr><td style="padding: 8px; color: #666;">Quantity</td><td style="padding: 8px;">%d</td></tr>
			<tr><td style="padding: 8px; color: #666;">Last change</td><td style="padding: 8px;">%+d</td></tr>
		</table>
	</div>
</body>
</html>`,
		color,
		html.EscapeString(alert.Level),
		html.EscapeString(alert.displayName()),
		html.EscapeString(alert.ProductID),
		alert.Quantity,
		alert.Delta,
	)
}
