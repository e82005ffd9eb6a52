package export

import (
	"fmt"
	"strconv"

	"financas/internal/core"
)

// Format controls how monetary values are rendered in reports. The defaults
// follow the pt-BR convention the reports were designed around: comma as the
// decimal separator, period for thousands.
type Format struct {
	Prefix       string
	DecimalSep   string
	ThousandsSep string
}

func DefaultFormat() Format {
	return Format{Prefix: "R$ ", DecimalSep: ",", ThousandsSep: "."}
}

// Money renders a value with two decimals, e.g. "R$ 1.234,56".
func (f Format) Money(m core.Money) string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	units := strconv.FormatInt(cents/100, 10)

	grouped := ""
	for i, digit := range units {
		if i > 0 && (len(units)-i)%3 == 0 {
			grouped += f.ThousandsSep
		}
		grouped += string(digit)
	}

	return f.Prefix + sign + grouped + f.DecimalSep + fmt.Sprintf("%02d", cents%100)
}
