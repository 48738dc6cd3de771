package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"risingstar/internal/game"
	"risingstar/internal/sim"

	"github.com/fatih/color"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

type chartPayload struct {
	Chart []game.ChartRow `json:"chart"`
}

type leaderboardPayload struct {
	Rows []game.LeaderboardRow `json:"rows"`
}

type studioUpgradePayload struct {
	StudioLevel int `json:"studio_level"`
}

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printError(msg string) {
	danger.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptOptional(label string) (string, error) {
	fmt.Printf("%s: ", label)
	text, err := stdinReader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func promptChoice(label string, options []string, defaultValue string) (string, error) {
	normalized := make(map[string]struct{}, len(options))
	for _, opt := range options {
		normalized[strings.ToLower(strings.TrimSpace(opt))] = struct{}{}
	}
	for {
		fmt.Printf("%s (%s) [%s]: ", label, strings.Join(options, "/"), defaultValue)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "" {
			text = strings.ToLower(strings.TrimSpace(defaultValue))
		}
		if _, ok := normalized[text]; ok {
			return text, nil
		}
		printWarn("Invalid option. Please pick one of the listed values.")
	}
}

func promptFloat(label string, min float64) (float64, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			printWarn("Enter a valid number.")
			continue
		}
		if v <= min {
			printWarn(fmt.Sprintf("Value must be > %.4f", min))
			continue
		}
		return v, nil
	}
}

func promptInt64(label string, min int64) (int64, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			printWarn("Enter a whole number.")
			continue
		}
		if v < min {
			printWarn(fmt.Sprintf("Value must be >= %d", min))
			continue
		}
		return v, nil
	}
}

func renderDashboard(raw map[string]any) error {
	d, err := decodeInto[game.Dashboard](raw)
	if err != nil {
		return err
	}

	accent.Printf("\n== %s (Season %d, Week %d) ==\n", strings.ToUpper(displayName(d.Artist.Name)), d.SeasonID, d.Week)
	fmt.Printf("Cash:        %s\n", formatCash(d.Cash))
	fmt.Printf("Fans:        %s\n", comma(int64(d.Fans)))
	fmt.Printf("Reputation:  %.2f\n", d.Reputation)
	fmt.Printf("Studio:      level %d\n", d.StudioLevel)
	fmt.Printf("Talent:      %.1f  Creativity: %.1f\n", d.Artist.Talent, d.Artist.Creativity)
	fmt.Printf("Vault:       %d unreleased track(s)\n", d.VaultTracks)
	if d.Contract != nil {
		fmt.Printf("Contract:    %.0f%% royalty, %d/%d weeks, %d release(s) owed\n",
			d.Contract.Royalty*100, d.Contract.WeeksElapsed, d.Contract.TermWeeks, d.Contract.MinReleases)
	}

	fmt.Println()
	accent.Println("Albums")
	if len(d.Albums) == 0 {
		printInfo("No albums released yet.")
	} else {
		fmt.Printf("%-26s %6s %6s %12s %12s %-24s\n", "TITLE", "RANK", "PEAK", "WEEK SALES", "TOTAL", "CERTS")
		for _, a := range d.Albums {
			fmt.Printf("%-26s %6s %6s %12.0f %12.0f %-24s\n",
				truncate(a.Title, 26),
				rankLabel(a.ChartRank),
				rankLabel(a.ChartPeak),
				a.LastWeekSales,
				a.Sales,
				truncate(strings.Join(a.Certifications, ","), 24),
			)
		}
	}

	fmt.Println()
	accent.Println("Tours")
	if len(d.Tours) == 0 {
		printInfo("No tours planned.")
	} else {
		fmt.Printf("%-34s %12s %12s %12s\n", "CITIES", "REVENUE", "COST", "NET")
		for _, t := range d.Tours {
			fmt.Printf("%-34s %12s %12s %12s\n",
				truncate(strings.Join(t.Cities, ","), 34),
				formatCash(t.Revenue),
				formatCash(t.Cost),
				colorizeCash(t.Revenue-t.Cost),
			)
		}
	}
	fmt.Println()
	return nil
}

func renderWeekReport(raw map[string]any) error {
	r, err := decodeInto[game.WeekReport](raw)
	if err != nil {
		return err
	}
	accent.Printf("\n== WEEK %d WRAP ==\n", r.Week)
	fmt.Printf("Cash:        %s (%s)\n", formatCash(r.Cash), colorizeCash(r.CashDelta))
	fmt.Printf("Fans:        %s\n", comma(int64(r.Fans)))
	fmt.Printf("Units sold:  %.0f\n", r.TotalSales)
	fmt.Printf("Streams:     %s\n", comma(r.Streams))

	if len(r.ChartTop) > 0 {
		fmt.Println()
		accent.Println("Chart")
		fmt.Printf("%-6s %-26s %12s %6s\n", "RANK", "TITLE", "WEEK SALES", "PEAK")
		for _, row := range r.ChartTop {
			fmt.Printf("%-6d %-26s %12.0f %6s\n", row.Rank, truncate(row.Title, 26), row.LastWeekSales, rankLabel(row.Peak))
		}
	}
	for _, c := range r.NewCerts {
		printSuccess(fmt.Sprintf("Certified %s (%s) at %.0f units!", c.Name, c.Region, c.Sales))
	}
	if r.AwardsGiven > 0 {
		printSuccess(fmt.Sprintf("Won %d award(s) this week!", r.AwardsGiven))
	}
	for _, w := range r.Warnings {
		printWarn(w)
	}
	fmt.Println()
	return nil
}

func renderCharts(raw map[string]any) error {
	out, err := decodeInto[chartPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== ALBUM CHART ==")
	if len(out.Chart) == 0 {
		printInfo("Chart is empty this week.")
		return nil
	}
	fmt.Printf("%-6s %-28s %12s %6s\n", "RANK", "TITLE", "WEEK SALES", "PEAK")
	for _, row := range out.Chart {
		fmt.Printf("%-6d %-28s %12.0f %6s\n", row.Rank, truncate(row.Title, 28), row.LastWeekSales, rankLabel(row.Peak))
	}
	fmt.Println()
	return nil
}

func renderLeaderboard(raw map[string]any, title string) error {
	out, err := decodeInto[leaderboardPayload](raw)
	if err != nil {
		return err
	}
	accent.Printf("\n== %s ==\n", strings.ToUpper(title))
	if len(out.Rows) == 0 {
		printInfo("No leaderboard rows yet.")
		return nil
	}
	fmt.Printf("%-6s %-18s %-12s %6s %14s %12s\n", "RANK", "ARTIST", "INVITE", "WEEK", "CASH", "FANS")
	for _, row := range out.Rows {
		fmt.Printf("%-6d %-18s %-12s %6d %14s %12s\n",
			row.Rank,
			truncate(row.Username, 18),
			truncate(row.InviteCode, 12),
			row.Week,
			formatCash(row.Cash),
			comma(row.Fans),
		)
	}
	fmt.Println()
	return nil
}

func renderTrack(raw map[string]any) error {
	trk, err := decodeInto[sim.Track](raw)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Recorded %q (quality %.1f). It is waiting in the vault.", trk.Title, trk.Quality))
	return nil
}

func renderStudioUpgrade(raw map[string]any) error {
	out, err := decodeInto[studioUpgradePayload](raw)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Studio upgraded to level %d.", out.StudioLevel))
	return nil
}

func renderAlbumReleased(raw map[string]any) error {
	album, err := decodeInto[sim.Album](raw)
	if err != nil {
		return err
	}
	stock := "streaming only"
	if album.Stock != nil {
		stock = fmt.Sprintf("%.0f units pressed", *album.Stock)
	}
	printSuccess(fmt.Sprintf("Released %q with %d track(s), %s.", album.Title, len(album.Tracks), stock))
	return nil
}

func renderSocialPost(raw map[string]any) error {
	post, err := decodeInto[sim.SocialPost](raw)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Posted on %s: %d impressions reached fans.", post.Platform, post.Impact))
	return nil
}

func renderVideo(raw map[string]any) error {
	video, err := decodeInto[sim.Video](raw)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Uploaded %q: %s views, %s likes (trending %.2f).",
		video.Topic, comma(int64(video.Views)), comma(int64(video.Likes)), video.Trending))
	return nil
}

func renderTourPlanned(raw map[string]any) error {
	tour, err := decodeInto[sim.Tour](raw)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Tour booked through %s. Shows play on the next week advance.", strings.Join(tour.Cities, ", ")))
	return nil
}

func renderMerchStocked(raw map[string]any) error {
	item, err := decodeInto[sim.MerchItem](raw)
	if err != nil {
		return err
	}
	stock := "unlimited stock"
	if item.Stock != nil {
		stock = fmt.Sprintf("%.0f in stock", *item.Stock)
	}
	printSuccess(fmt.Sprintf("Stocked %q at %s (%s).", item.Name, formatCash(item.Price), stock))
	return nil
}

func renderContractSigned(raw map[string]any) error {
	contract, err := decodeInto[sim.Contract](raw)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Signed: %.0f%% royalty over %d weeks, %d release(s) required.",
		contract.Royalty*100, contract.TermWeeks, contract.MinReleases))
	return nil
}

func decodeInto[T any](in any) (T, error) {
	var out T
	raw, err := json.Marshal(in)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}

func displayName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unsigned artist"
	}
	return name
}

func rankLabel(rank int) string {
	if rank <= 0 {
		return "-"
	}
	return "#" + strconv.Itoa(rank)
}

func colorizeCash(v float64) string {
	text := formatCash(v)
	if v > 0 {
		text = "+" + text
	}
	switch {
	case v > 0:
		return success.Sprint(text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func formatCash(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := int64(v)
	frac := int64((v-float64(whole))*100 + 0.5)
	if frac >= 100 {
		whole++
		frac -= 100
	}
	return fmt.Sprintf("%s$%s.%02d", sign, comma(whole), frac)
}

func comma(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		if len(s) > pre {
			b.WriteByte(',')
		}
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
