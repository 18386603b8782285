package reporting

import (
	"fmt"
	"math"
)

// FormatINR renders a rupee amount in Indian notation: crores for amounts of
// at least 1e7, lakhs for at least 1e5, plain rupees below that.
func FormatINR(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e7:
		return fmt.Sprintf("₹%.2f Cr", v/1e7)
	case abs >= 1e5:
		return fmt.Sprintf("₹%.2f L", v/1e5)
	default:
		return fmt.Sprintf("₹%.0f", v)
	}
}
