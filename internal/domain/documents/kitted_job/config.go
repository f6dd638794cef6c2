package kitted_job

import "integratorpro/internal/core/numerator"

// NumberConfig yields job numbers like JOB-2026-001, restarting each year.
var NumberConfig = numerator.Config{
	Prefix:      "JOB",
	IncludeYear: true,
	PadWidth:    3,
	ResetPeriod: "year",
}
