package numerator

// Strategy selects how sequence values are reserved.
type Strategy int

const (
	// StrategyStrict reserves one value per order. Numbers have no gaps.
	StrategyStrict Strategy = iota

	// StrategyCached reserves RangeSize values at a time and hands them out
	// from memory. A restart leaves a gap.
	StrategyCached
)

// Options tunes value reservation.
type Options struct {
	Strategy  Strategy
	RangeSize int64 // Cached only; 50 when unset.
}

// DefaultOptions returns the strict strategy.
func DefaultOptions() *Options {
	return &Options{Strategy: StrategyStrict}
}

// ResetPeriod controls when a counter restarts at 1.
type ResetPeriod string

const (
	ResetYearly  ResetPeriod = "year"
	ResetMonthly ResetPeriod = "month"
	ResetNever   ResetPeriod = "never"
)

// Config describes the order number format.
type Config struct {
	Prefix      string
	IncludeYear bool
	PadWidth    int // 5 when unset.
	ResetPeriod ResetPeriod
}

// DefaultConfig returns the ORD-2026-00001 style used for settled orders.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
		ResetPeriod: ResetYearly,
	}
}
