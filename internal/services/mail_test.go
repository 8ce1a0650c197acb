package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "1,234.50 USD", FormatPrice(1234.5, ""))
	assert.Equal(t, "90.00 USD", FormatPrice(90, "USD"))
	assert.Equal(t, "1,000,000.00 EUR", FormatPrice(1000000, "EUR"))
	assert.Equal(t, "0.99 USD", FormatPrice(0.99, ""))
}
