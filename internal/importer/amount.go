package importer

import "github.com/shopspring/decimal"

// toMinorUnits converts a legacy decimal amount (12.34) to integer cents (1234).
func toMinorUnits(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// optionalString maps an absent (empty) string to nil and keeps anything else verbatim.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
