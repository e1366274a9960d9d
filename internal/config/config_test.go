package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var keys = []string{
	"HTTP_ADDR", "SHUTDOWN_TIMEOUT", "REMOTE_BASE_URL", "REMOTE_TIMEOUT", "CATALOG_KEY",
	"STORE_DRIVER", "STORE_DIR", "DATABASE_URL", "DYNAMO_TABLE", "KAFKA_BROKERS",
	"CHANGE_TOPIC", "KAFKA_CONSUMER_GROUP", "WAREHOUSEMAN_ID",
	"SMTP_HOST", "SMTP_PORT", "SMTP_FROM", "ALERT_RECIPIENT",
}

func clearEnv(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	c := Load()

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, 5*time.Second, c.ShutdownTimeout)
	assert.Equal(t, 10*time.Second, c.RemoteTimeout)
	assert.Equal(t, "products", c.CatalogKey)
	assert.Equal(t, DriverFile, c.StoreDriver)
	assert.Empty(t, c.KafkaBrokers)
	assert.Equal(t, "catalog-changes", c.ChangeTopic)
	assert.Equal(t, "1444", c.WarehousemanID)
	assert.Equal(t, "1025", c.SMTPPort)
	assert.Empty(t, c.AlertRecipient)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "30")
	t.Setenv("REMOTE_TIMEOUT", "1500ms")
	t.Setenv("REMOTE_BASE_URL", "http://172.16.1.10:3000/")
	t.Setenv("STORE_DRIVER", "DynamoDB")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")

	c := Load()

	assert.Equal(t, ":9090", c.HTTPAddr)
	assert.Equal(t, 30*time.Second, c.ShutdownTimeout)
	assert.Equal(t, 1500*time.Millisecond, c.RemoteTimeout)
	assert.Equal(t, "http://172.16.1.10:3000", c.RemoteBaseURL)
	assert.Equal(t, DriverDynamo, c.StoreDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.KafkaBrokers)
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	assert.Equal(t, 5*time.Second, Load().ShutdownTimeout)
}
