package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultBalance(t *testing.T) {
	b := DefaultBalance()
	require.Equal(t, 1.0, b.Prices.Unit)
	require.Equal(t, 20.0, b.Prices.Ticket)
	require.NotEmpty(t, b.Certifications)
	require.Equal(t, "us", b.Certifications[0].Region)
	require.Equal(t, "gold", b.Certifications[0].Tiers[0].Name)
}

func TestLoadBalanceEmptyPathUsesDefaults(t *testing.T) {
	b, err := LoadBalance("")
	require.NoError(t, err)
	require.Equal(t, DefaultBalance(), b)
}

func TestLoadBalanceOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "balance.yaml")
	doc := `
prices:
  unit: 1.5
  ticket: 35
certifications:
  - region: eu
    tiers:
      - name: gold
        threshold: 200000
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	b, err := LoadBalance(path)
	require.NoError(t, err)
	require.Equal(t, 1.5, b.Prices.Unit)
	require.Equal(t, 35.0, b.Prices.Ticket)
	require.Len(t, b.Certifications, 1)
	require.Equal(t, "eu", b.Certifications[0].Region)

	prices := b.SimPrices()
	require.Equal(t, 1.5, prices.Unit)
}

func TestLoadBalancePartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "balance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prices:\n  ticket: 25\n"), 0o644))

	b, err := LoadBalance(path)
	require.NoError(t, err)
	require.Equal(t, 25.0, b.Prices.Ticket)
	require.Equal(t, 1.0, b.Prices.Unit)
	require.NotEmpty(t, b.Certifications)
}
