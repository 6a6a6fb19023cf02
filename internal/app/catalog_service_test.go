package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductFromInput(t *testing.T) {
	product, err := productFromInput(ProductInput{
		Name:        "  Red Sneaker  ",
		Category:    "Footwear",
		Price:       59.99,
		Description: " Lightweight running shoe ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Red Sneaker", product.Name)
	assert.Equal(t, "Footwear", product.Category)
	assert.Equal(t, "Lightweight running shoe", product.Description)
	// Stock defaults when the admin form leaves it blank.
	assert.Equal(t, "In Stock", product.Stock)
}

func TestProductFromInputValidation(t *testing.T) {
	cases := []struct {
		name  string
		input ProductInput
	}{
		{name: "blank name", input: ProductInput{Name: " ", Category: "Footwear", Price: 10}},
		{name: "blank category", input: ProductInput{Name: "A", Category: "", Price: 10}},
		{name: "zero price", input: ProductInput{Name: "A", Category: "Footwear", Price: 0}},
		{name: "negative price", input: ProductInput{Name: "A", Category: "Footwear", Price: -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := productFromInput(tc.input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestProductFromInputKeepsExplicitStock(t *testing.T) {
	product, err := productFromInput(ProductInput{
		Name:     "A",
		Category: "Footwear",
		Price:    10,
		Stock:    "Out of Stock",
	})
	require.NoError(t, err)
	assert.Equal(t, "Out of Stock", product.Stock)
}
