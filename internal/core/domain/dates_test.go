package domain_test

import (
	"testing"
	"time"

	"shelfmark/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestDateOnly(t *testing.T) {
	stamped := time.Date(2024, 3, 15, 23, 45, 12, 999, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), domain.DateOnly(stamped))

	// Idempotent on already truncated values
	midnight := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, midnight, domain.DateOnly(midnight))
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same day", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 0},
		{"five days", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), 5},
		{"negative", time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), -5},
		{"time of day ignored", time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC), time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC), 1},
		{"across month boundary", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), 2},
		{"leap day", time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.DaysBetween(tt.a, tt.b))
		})
	}
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 0.30, domain.RoundMoney(0.1+0.2))
	assert.Equal(t, 2.50, domain.RoundMoney(2.5))
	assert.Equal(t, 1.01, domain.RoundMoney(1.006))
	assert.Equal(t, 1.00, domain.RoundMoney(1.004))
	assert.Equal(t, 0.0, domain.RoundMoney(0))
}
