package parser

import "strconv"

// parseNumber parses a JSON-style number literal (digits, optional
// fractional part, optional exponent; sign is handled by the unary
// operator, not here) into a float64.
func parseNumber(text string) (float64, error) {
	return strconv.ParseFloat(text, 64)
}
