package purchase_order

import "integratorpro/internal/core/numerator"

// NumberConfig yields sequential order numbers like PO-001.
var NumberConfig = numerator.Config{
	Prefix:      "PO",
	IncludeYear: false,
	PadWidth:    3,
	ResetPeriod: "never",
}

const (
	// NumeratorStrategy keeps PO numbers strictly increasing with no cached
	// ranges, so a number is never handed out twice even across restarts.
	NumeratorStrategy = numerator.StrategyStrict
)
