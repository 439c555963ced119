package domain

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)

// PricingType decides whether a task is billed by logged time or at a
// fixed amount. FixedPrice is only meaningful under PricingFixed.
type PricingType string

const (
	PricingHourly PricingType = "hourly"
	PricingFixed  PricingType = "fixed"
)

// ValidPricingTypes is the canonical set of accepted pricing type strings.
var ValidPricingTypes = map[string]bool{
	"hourly": true, "fixed": true,
}
