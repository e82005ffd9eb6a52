package export

import (
	"testing"

	"financas/internal/core"
)

func TestFormatMoney(t *testing.T) {
	brl := DefaultFormat()
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "R$ 0,00"},
		{1, "R$ 0,01"},
		{157000, "R$ 1.570,00"},
		{420000, "R$ 4.200,00"},
		{123456789, "R$ 1.234.567,89"},
		{-157000, "R$ -1.570,00"},
	}
	for _, tc := range cases {
		if got := brl.Money(core.Money{Cents: tc.cents}); got != tc.want {
			t.Errorf("Money(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestFormatMoneyCustomSeparators(t *testing.T) {
	usd := Format{Prefix: "$", DecimalSep: ".", ThousandsSep: ","}
	if got := usd.Money(core.Money{Cents: 123456789}); got != "$1,234,567.89" {
		t.Errorf("Money = %q", got)
	}
}
