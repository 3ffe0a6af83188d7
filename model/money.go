package model

import (
	"fmt"
	"strings"
)

// FormatCents renders an integer amount of kopecks as rubles for display.
// Prices travel as cents end to end; this is the only place they are turned
// into text.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%s,%02d ₽", sign, groupThousands(cents/100), cents%100)
}

func groupThousands(n int64) string {
	digits := fmt.Sprintf("%d", n)
	if len(digits) <= 3 {
		return digits
	}
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)
	return strings.Join(groups, " ")
}
