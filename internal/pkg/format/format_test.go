package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAmount(t *testing.T) {
	assert.Equal(t, "3,200", Amount(3200))
	assert.Equal(t, "800", Amount(800))
	assert.Equal(t, "1,250,000", Amount(1250000))
	assert.Equal(t, "950.50", Amount(950.5))
}

func TestDate(t *testing.T) {
	assert.Equal(t, "01/12/2024", Date(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)))
}
