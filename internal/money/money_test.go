package money_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kpraj/billbook/internal/money"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "TwoDecimals", input: "10.00", want: 1000},
		{name: "OneDecimal", input: "4.5", want: 450},
		{name: "NoDecimals", input: "7", want: 700},
		{name: "Zero", input: "0", want: 0},
		{name: "LargeGrouplessValue", input: "123456.78", want: 12345678},
		{name: "SubPaisa", input: "1.005", wantErr: true},
		{name: "NotANumber", input: "ten", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := money.Parse(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Minor())
		})
	}
}

func TestAmount_Arithmetic(t *testing.T) {
	widget := money.FromMinor(1000) // 10.00
	gadget := money.FromMinor(450)  // 4.50

	total := widget.MulQty(3).Add(gadget.MulQty(2))

	assert.Equal(t, int64(3900), total.Minor())
	assert.Equal(t, "39.00", total.String())
}

func TestAmount_String(t *testing.T) {
	assert.Equal(t, "0.00", money.FromMinor(0).String())
	assert.Equal(t, "0.05", money.FromMinor(5).String())
	assert.Equal(t, "-4.50", money.FromMinor(-450).String())
	assert.Equal(t, "123456.78", money.FromMinor(12345678).String())
}

func TestAmount_Grouped(t *testing.T) {
	// en-IN groups the last three digits, then pairs.
	assert.Equal(t, "1,23,456.78", money.FromMinor(12345678).Grouped())
	assert.Equal(t, "39.00", money.FromMinor(3900).Grouped())
	assert.Equal(t, "-1,000.05", money.FromMinor(-100005).Grouped())
}
