package dedup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var may1 = time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC)

func TestMoverKey_OrderInsensitive(t *testing.T) {
	k1 := MoverKey([]string{"TSLA", "NVDA"}, may1)
	k2 := MoverKey([]string{"NVDA", "TSLA"}, may1)
	assert.Equal(t, k1, k2)
	assert.Equal(t, "NVDA,TSLA|2024-05-01", k1)
}

func TestMoverKey_DateScoped(t *testing.T) {
	k1 := MoverKey([]string{"TSLA"}, may1)
	k2 := MoverKey([]string{"TSLA"}, may1.Add(24*time.Hour))
	assert.NotEqual(t, k1, k2)
}

func TestMoverKey_DoesNotMutateInput(t *testing.T) {
	symbols := []string{"TSLA", "NVDA"}
	MoverKey(symbols, may1)
	assert.Equal(t, []string{"TSLA", "NVDA"}, symbols)
}

func TestNewsKey_Deterministic(t *testing.T) {
	url := "https://example.com/markets/fed-hikes-rates"
	assert.Equal(t, NewsKey(url), NewsKey(url))
}

func TestNewsKey_DistinctURLs(t *testing.T) {
	k1 := NewsKey("https://example.com/a")
	k2 := NewsKey("https://example.com/b")
	assert.NotEqual(t, k1, k2)
	assert.Len(t, k1, 64) // hex-encoded SHA-256
}

func TestRecapKey_DateOnly(t *testing.T) {
	morning := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 5, 1, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-05-01", RecapKey(morning))
	assert.Equal(t, RecapKey(morning), RecapKey(evening))
}
