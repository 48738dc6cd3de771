package game

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	// Cash moves through the ledger as integer micros to keep the
	// double-entry rows exact; the simulation itself stays in floats.
	MicrosPerDollar = int64(1_000_000)

	StarterCash = 500.0
	StarterFans = 100

	MaxStudioLevel = 5
)

var (
	ErrSaveNotFound         = errors.New("save not found")
	ErrDuplicateIdempotency = errors.New("duplicate idempotency key")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrTxConflict           = errors.New("transaction conflict, retry")
	ErrNoTracks             = errors.New("no recorded tracks to release")
	ErrContractActive       = errors.New("a label contract is already active")
	ErrStudioMaxed          = errors.New("studio already at max level")
	ErrInvalidInput         = errors.New("invalid input")
)

var blockedNameFragments = []string{
	"admin",
	"mod",
	"support",
	"shit",
	"fuck",
	"bitch",
	"nazi",
}

func CashToMicros(v float64) int64 {
	return int64(math.Round(v * float64(MicrosPerDollar)))
}

func MicrosToCash(v int64) float64 {
	return float64(v) / float64(MicrosPerDollar)
}

// StudioUpgradeCost grows steeply so late levels are a real investment.
func StudioUpgradeCost(currentLevel int) float64 {
	return 250 * math.Pow(2, float64(currentLevel))
}

func validateEntityName(name string) error {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(clean) > 64 {
		return fmt.Errorf("%w: name too long (max 64 chars)", ErrInvalidInput)
	}
	lower := strings.ToLower(clean)
	for _, fragment := range blockedNameFragments {
		if strings.Contains(lower, fragment) {
			return fmt.Errorf("%w: name contains blocked content", ErrInvalidInput)
		}
	}
	return nil
}
