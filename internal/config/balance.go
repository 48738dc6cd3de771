package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"risingstar/internal/sim"
)

// Balance is the tunable gameplay surface: prices and certification
// thresholds. Formula weights and the streaming platform table are code
// constants and deliberately not exposed here.
type Balance struct {
	Prices struct {
		Unit   float64 `yaml:"unit"`
		Ticket float64 `yaml:"ticket"`
	} `yaml:"prices"`
	Certifications []sim.CertRegion `yaml:"certifications"`
}

// DefaultBalance mirrors the shipped game balance.
func DefaultBalance() Balance {
	var b Balance
	b.Prices.Unit = sim.DefaultUnitPrice
	b.Prices.Ticket = sim.DefaultTicketPrice
	b.Certifications = []sim.CertRegion{
		{Region: "us", Tiers: []sim.CertTier{
			{Name: "gold", Threshold: 500_000},
			{Name: "platinum", Threshold: 1_000_000},
			{Name: "diamond", Threshold: 10_000_000},
		}},
		{Region: "uk", Tiers: []sim.CertTier{
			{Name: "silver", Threshold: 60_000},
			{Name: "gold", Threshold: 100_000},
			{Name: "platinum", Threshold: 300_000},
		}},
		{Region: "jp", Tiers: []sim.CertTier{
			{Name: "gold", Threshold: 100_000},
			{Name: "platinum", Threshold: 250_000},
		}},
	}
	return b
}

// LoadBalance reads a YAML balance file, falling back to the defaults
// for anything the file leaves out. An empty path means defaults only.
func LoadBalance(path string) (Balance, error) {
	b := DefaultBalance()
	if path == "" {
		return b, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return b, fmt.Errorf("read balance file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return b, fmt.Errorf("parse balance file: %w", err)
	}
	if b.Prices.Unit <= 0 {
		b.Prices.Unit = sim.DefaultUnitPrice
	}
	if b.Prices.Ticket <= 0 {
		b.Prices.Ticket = sim.DefaultTicketPrice
	}
	if len(b.Certifications) == 0 {
		b.Certifications = DefaultBalance().Certifications
	}
	return b, nil
}

// SimPrices converts to the simulation's price record.
func (b Balance) SimPrices() sim.Prices {
	return sim.Prices{Unit: b.Prices.Unit, Ticket: b.Prices.Ticket}
}
