package order

import (
	"fmt"
	"math"
	"strings"
)

// FormatNaira renders an amount as customers see it in replies, e.g.
// "₦15,000" or "₦12,500.50".
func FormatNaira(amount float64) string {
	whole := int64(amount)
	frac := math.Round((amount - float64(whole)) * 100)
	if frac >= 100 {
		whole++
		frac = 0
	}

	grouped := groupThousands(whole)
	if frac > 0 {
		return fmt.Sprintf("₦%s.%02d", grouped, int64(frac))
	}
	return "₦" + grouped
}

func groupThousands(n int64) string {
	digits := fmt.Sprintf("%d", n)
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
