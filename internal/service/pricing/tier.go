package pricing

import "fmt"

// Tier is a price-based fare classification
type Tier string

const (
	TierEconomy Tier = "Economy"
	TierComfort Tier = "Comfort"
	TierPremium Tier = "Premium"
)

// Config holds the inclusive upper bounds of the lower tiers
type Config struct {
	EconomyMax float64
	ComfortMax float64
}

// DefaultConfig returns the ledger's standard tier boundaries
func DefaultConfig() Config {
	return Config{
		EconomyMax: 400,
		ComfortMax: 1000,
	}
}

// Validate checks that the boundaries are ordered
func (c Config) Validate() error {
	if c.EconomyMax < 0 {
		return fmt.Errorf("economy tier bound must be non-negative, got %v", c.EconomyMax)
	}
	if c.ComfortMax < c.EconomyMax {
		return fmt.Errorf("comfort tier bound %v is below economy bound %v", c.ComfortMax, c.EconomyMax)
	}
	return nil
}

// Classifier assigns fare tiers
type Classifier struct {
	config Config
}

// NewClassifier creates a new tier classifier
func NewClassifier(config Config) *Classifier {
	return &Classifier{config: config}
}

// Classify returns the tier of a single ride price.
// price <= EconomyMax is Economy, price <= ComfortMax is Comfort, anything above is Premium.
func (c *Classifier) Classify(price float64) Tier {
	switch {
	case price <= c.config.EconomyMax:
		return TierEconomy
	case price <= c.config.ComfortMax:
		return TierComfort
	default:
		return TierPremium
	}
}

// Config returns the boundaries in use
func (c *Classifier) Config() Config {
	return c.config
}
