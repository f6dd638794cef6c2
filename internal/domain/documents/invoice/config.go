package invoice

import "integratorpro/internal/core/numerator"

// NumberConfig yields invoice numbers like INV-2026-001, restarting each
// year.
var NumberConfig = numerator.Config{
	Prefix:      "INV",
	IncludeYear: true,
	PadWidth:    3,
	ResetPeriod: "year",
}
