package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscountedPrice(t *testing.T) {
	assert.InDelta(t, 90, DiscountedPrice(100, 10), 0.001)
	assert.InDelta(t, 100, DiscountedPrice(100, 0), 0.001)
	assert.InDelta(t, 0, DiscountedPrice(100, 100), 0.001)
	assert.InDelta(t, 37.5, DiscountedPrice(50, 25), 0.001)

	product := Product{UnitPrice: 200, DiscountPercentage: 15}
	assert.InDelta(t, 170, product.DiscountedPrice(), 0.001)
}
