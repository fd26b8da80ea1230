package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderReceiptPDF(t *testing.T) {
	b := &PublicBill{
		ID:          "3f2a9c1b-7d4e-4f6a-9b2c-1d2e3f4a5b6c",
		TableNumber: 4,
		TotalAmount: 25,
		CreatedAt:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Restaurants: PublicRestaurant{Name: "Spice Route", Address: "12 MG Road", Contact: "080-1234"},
		BillItems: []PublicBillItem{
			{Quantity: 2, Price: 10, MenuItems: PublicMenuItem{Name: "Paneer Tikka"}},
			{Quantity: 1, Price: 5, MenuItems: PublicMenuItem{Name: "Lassi"}},
		},
	}

	out, err := RenderReceiptPDF(b)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}
