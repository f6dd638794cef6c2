package item

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"integratorpro/internal/core/apperror"
	"integratorpro/internal/core/types"
)

func TestValidate_StockThresholds(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		minStock types.Quantity
		maxStock types.Quantity
		wantErr  bool
	}{
		{"defaults are valid", DefaultMinStock, DefaultMaxStock, false},
		{"max below min", 10, 5, true},
		{"max equals min", 10, 10, false},
		{"zero max means unbounded", 10, 0, false},
		{"negative min", -1, 100, true},
		{"negative max", 5, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := NewItem("HDMI-25FT", "HDMI Cable 25ft")
			it.MinStock = tt.minStock
			it.MaxStock = tt.maxStock

			err := it.Validate(ctx)
			if tt.wantErr {
				require.Error(t, err)
				appErr, ok := apperror.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, apperror.CodeValidation, appErr.Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_RequiresPartNumber(t *testing.T) {
	it := NewItem("", "Nameless part")

	err := it.Validate(context.Background())
	require.Error(t, err)
}

func TestValidate_NegativePrices(t *testing.T) {
	ctx := context.Background()

	it := NewItem("AMP-200W", "200W Distribution Amplifier")
	it.Cost = types.NewMoney(-1)
	require.Error(t, it.Validate(ctx))

	it = NewItem("AMP-200W", "200W Distribution Amplifier")
	it.Price = types.NewMoney(-0.01)
	require.Error(t, it.Validate(ctx))
}

func TestNewAutoCreated_Defaults(t *testing.T) {
	it := NewAutoCreated("CAT6-1000")

	assert.Equal(t, "CAT6-1000", it.PartNumber)
	assert.Equal(t, "CAT6-1000", it.Name)
	assert.Equal(t, DefaultMinStock, it.MinStock)
	assert.Equal(t, DefaultMaxStock, it.MaxStock)
	assert.NoError(t, it.Validate(context.Background()))
}
