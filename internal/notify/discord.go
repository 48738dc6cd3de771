package notify

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"risingstar/internal/game"
)

// Discord posts weekly recaps to a channel. A nil *Discord is a valid
// no-op notifier, so the worker can run without a bot token.
type Discord struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscord(token, channelID string) (*Discord, error) {
	if token == "" || channelID == "" {
		return nil, nil
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	return &Discord{session: session, channelID: channelID}, nil
}

// WeeklyRecap posts one player's week summary.
func (d *Discord) WeeklyRecap(username string, report game.WeekReport) error {
	if d == nil {
		return nil
	}
	_, err := d.session.ChannelMessageSend(d.channelID, FormatRecap(username, report))
	return err
}

// FormatRecap renders the recap message. Split out so it can be tested
// without a live session.
func FormatRecap(username string, report game.WeekReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** wrapped week %d: %.0f units sold, %d streams, %d fans.\n",
		username, report.Week, report.TotalSales, report.Streams, report.Fans)
	for _, row := range report.ChartTop {
		fmt.Fprintf(&b, "#%d %s (%.0f this week, peak #%d)\n", row.Rank, row.Title, row.LastWeekSales, row.Peak)
	}
	for _, cert := range report.NewCerts {
		fmt.Fprintf(&b, "New certification: %s %s\n", cert.Region, cert.Name)
	}
	if report.AwardsGiven > 0 {
		fmt.Fprintf(&b, "Awards this week: %d\n", report.AwardsGiven)
	}
	for _, warning := range report.Warnings {
		fmt.Fprintf(&b, "Label warning: %s\n", warning)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (d *Discord) Close() error {
	if d == nil || d.session == nil {
		return nil
	}
	return d.session.Close()
}
