package notify

import (
	"strings"
	"testing"

	"risingstar/internal/game"
	"risingstar/internal/sim"
)

func TestFormatRecap(t *testing.T) {
	report := game.WeekReport{
		Week:       12,
		TotalSales: 4321,
		Streams:    98765,
		Fans:       2500,
		ChartTop: []game.ChartRow{
			{Rank: 1, Title: "First Light", LastWeekSales: 3000, Peak: 1},
		},
		NewCerts:    []sim.Certification{{Region: "uk", Name: "silver"}},
		AwardsGiven: 1,
		Warnings:    []string{"release schedule behind contract quota"},
	}

	msg := FormatRecap("nova", report)

	for _, want := range []string{
		"**nova** wrapped week 12",
		"4321 units sold",
		"#1 First Light",
		"New certification: uk silver",
		"Awards this week: 1",
		"Label warning: release schedule behind contract quota",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("recap missing %q:\n%s", want, msg)
		}
	}
}

func TestNilDiscordIsNoOp(t *testing.T) {
	d, err := NewDiscord("", "")
	if err != nil {
		t.Fatalf("empty config should not error: %v", err)
	}
	if d != nil {
		t.Fatal("empty config should yield nil notifier")
	}
	if err := d.WeeklyRecap("nova", game.WeekReport{}); err != nil {
		t.Fatalf("nil notifier recap: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("nil notifier close: %v", err)
	}
}
