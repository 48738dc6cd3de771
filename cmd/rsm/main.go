package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	cl "risingstar/internal/cli"
	"risingstar/internal/config"
	"risingstar/internal/syncq"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "rsm",
		Short:        "Rising Star music career client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newSignupCmd(&apiBase),
		newLoginCmd(&apiBase),
		newLogoutCmd(),
		newDashCmd(&apiBase),
		newSyncCmd(&apiBase),
		newWeekCmd(&apiBase),
		newStudioCmd(&apiBase),
		newReleaseCmd(&apiBase),
		newChartsCmd(&apiBase),
		newSocialCmd(&apiBase),
		newVideoCmd(&apiBase),
		newTourCmd(&apiBase),
		newMerchCmd(&apiBase),
		newContractCmd(&apiBase),
		newLeaderboardCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func newSignupCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "signup",
		Short: "Create a Rising Star account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := promptRequired("Email")
			if err != nil {
				return err
			}
			password, err := promptRequired("Password")
			if err != nil {
				return err
			}
			username, err := promptOptional("Artist name (optional)")
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			session, err := client.Signup(ctx, email, password, username)
			if err != nil {
				return err
			}
			if strings.TrimSpace(session.AccessToken) == "" {
				printWarn("Signup created. Verify email, then run `rsm login`.")
				return nil
			}
			if err := cl.SaveSession(cl.Session{
				AccessToken:  session.AccessToken,
				RefreshToken: session.RefreshToken,
				Email:        session.User.Email,
				UserID:       session.User.ID,
			}); err != nil {
				return err
			}
			printSuccess("Signup complete. Session saved.")
			return nil
		},
	}
}

func newLoginCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Login to Rising Star",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := promptRequired("Email")
			if err != nil {
				return err
			}
			password, err := promptRequired("Password")
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			session, err := client.Login(ctx, email, password)
			if err != nil {
				return err
			}
			if err := cl.SaveSession(cl.Session{
				AccessToken:  session.AccessToken,
				RefreshToken: session.RefreshToken,
				Email:        session.User.Email,
				UserID:       session.User.ID,
			}); err != nil {
				return err
			}
			printSuccess("Login successful.")
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear local session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.ClearSession(); err != nil {
				return err
			}
			printSuccess("Logged out.")
			return nil
		},
	}
}

func newDashCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Show your career dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.Dashboard(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderDashboard(out)
		},
	}
}

func newSyncCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replay locally queued offline writes to cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			queue, err := syncq.Load()
			if err != nil {
				return err
			}
			if len(queue) == 0 {
				printInfo("Sync queue is empty.")
				return nil
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			remaining := make([]syncq.Command, 0, len(queue))
			success := 0
			for _, q := range queue {
				_, err := client.Do(ctx, q.Method, q.Path, sess.AccessToken, q.Body, q.IdempotencyKey)
				if err != nil {
					remaining = append(remaining, q)
					printError(fmt.Sprintf("Sync failed for %s %s: %v", q.Method, q.Path, err))
					continue
				}
				success++
			}
			if err := syncq.Save(remaining); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Sync complete: replayed=%d remaining=%d", success, len(remaining)))
			return nil
		},
	}
}

func newWeekCmd(apiBase *string) *cobra.Command {
	week := &cobra.Command{
		Use:   "week",
		Short: "Weekly simulation commands",
	}
	week.AddCommand(&cobra.Command{
		Use:   "advance",
		Short: "Advance your save one week",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			idem := uuid.NewString()
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.AdvanceWeek(ctx, sess.AccessToken, idem)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Method:         "POST",
					Path:           "/v1/week/advance",
					Body:           map[string]any{},
					IdempotencyKey: idem,
				})
			}
			return renderWeekReport(out)
		},
	})
	return week
}

func newStudioCmd(apiBase *string) *cobra.Command {
	studio := &cobra.Command{
		Use:   "studio",
		Short: "Recording studio commands",
	}
	studio.AddCommand(&cobra.Command{
		Use:   "track [title]",
		Short: "Produce a new track into the vault",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			title, err := textFromArgsOrPrompt(args, "Track title")
			if err != nil {
				return err
			}
			idem := uuid.NewString()
			body := map[string]any{"title": title}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.ProduceTrack(ctx, sess.AccessToken, title, idem)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Method:         "POST",
					Path:           "/v1/studio/tracks",
					Body:           body,
					IdempotencyKey: idem,
				})
			}
			return renderTrack(out)
		},
	})
	studio.AddCommand(&cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade the studio one level",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			idem := uuid.NewString()
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.UpgradeStudio(ctx, sess.AccessToken, idem)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Method:         "POST",
					Path:           "/v1/studio/upgrade",
					Body:           map[string]any{},
					IdempotencyKey: idem,
				})
			}
			return renderStudioUpgrade(out)
		},
	})
	return studio
}

func newReleaseCmd(apiBase *string) *cobra.Command {
	var stockFlag float64
	cmd := &cobra.Command{
		Use:   "release [title]",
		Short: "Release every vault track as an album",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			title, err := textFromArgsOrPrompt(args, "Album title")
			if err != nil {
				return err
			}
			var stock *float64
			if cmd.Flags().Changed("stock") {
				stock = &stockFlag
			}
			idem := uuid.NewString()
			body := map[string]any{"title": title}
			if stock != nil {
				body["stock"] = *stock
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.ReleaseAlbum(ctx, sess.AccessToken, title, stock, idem)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Method:         "POST",
					Path:           "/v1/albums",
					Body:           body,
					IdempotencyKey: idem,
				})
			}
			return renderAlbumReleased(out)
		},
	}
	cmd.Flags().Float64Var(&stockFlag, "stock", 0, "physical stock to press (omit for streaming only)")
	return cmd
}

func newChartsCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "charts",
		Short: "Show this week's album chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.Charts(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderCharts(out)
		},
	}
}

func newSocialCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "social [topic]",
		Short: "Post on a social platform",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			topic, err := textFromArgsOrPrompt(args, "Post topic")
			if err != nil {
				return err
			}
			platform, err := promptChoice("Platform", []string{"instagram", "twitter", "tiktok"}, "instagram")
			if err != nil {
				return err
			}
			quality, err := promptFloat("Content quality (0-10)", 0)
			if err != nil {
				return err
			}
			idem := uuid.NewString()
			body := map[string]any{"platform": platform, "topic": topic, "quality": quality}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.PostSocial(ctx, sess.AccessToken, platform, topic, quality, idem)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Method:         "POST",
					Path:           "/v1/social/posts",
					Body:           body,
					IdempotencyKey: idem,
				})
			}
			return renderSocialPost(out)
		},
	}
}

func newVideoCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "video [topic]",
		Short: "Upload a video",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			topic, err := textFromArgsOrPrompt(args, "Video topic")
			if err != nil {
				return err
			}
			quality, err := promptFloat("Production quality (0-5)", 0)
			if err != nil {
				return err
			}
			idem := uuid.NewString()
			body := map[string]any{"topic": topic, "production_quality": quality}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.UploadVideo(ctx, sess.AccessToken, topic, quality, idem)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Method:         "POST",
					Path:           "/v1/videos",
					Body:           body,
					IdempotencyKey: idem,
				})
			}
			return renderVideo(out)
		},
	}
}

func newTourCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tour [city,city,...]",
		Short: "Plan a tour",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			raw, err := textFromArgsOrPrompt(args, "Cities (comma separated)")
			if err != nil {
				return err
			}
			cities := splitCities(raw)
			if len(cities) == 0 {
				return fmt.Errorf("at least one city is required")
			}
			idem := uuid.NewString()
			body := map[string]any{"cities": cities}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.PlanTour(ctx, sess.AccessToken, cities, idem)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Method:         "POST",
					Path:           "/v1/tours",
					Body:           body,
					IdempotencyKey: idem,
				})
			}
			return renderTourPlanned(out)
		},
	}
}

func newMerchCmd(apiBase *string) *cobra.Command {
	var stockFlag float64
	var boostFlag float64
	cmd := &cobra.Command{
		Use:   "merch [name]",
		Short: "Stock a merch item",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			name, err := textFromArgsOrPrompt(args, "Item name")
			if err != nil {
				return err
			}
			price, err := promptFloat("Sale price", 0)
			if err != nil {
				return err
			}
			cost, err := promptFloat("Unit cost", 0)
			if err != nil {
				return err
			}
			var stock *float64
			if cmd.Flags().Changed("stock") {
				stock = &stockFlag
			}
			idem := uuid.NewString()
			body := map[string]any{"name": name, "price": price, "cost": cost, "tour_boost": boostFlag}
			if stock != nil {
				body["stock"] = *stock
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.StockMerch(ctx, sess.AccessToken, name, price, cost, stock, boostFlag, idem)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Method:         "POST",
					Path:           "/v1/merch",
					Body:           body,
					IdempotencyKey: idem,
				})
			}
			return renderMerchStocked(out)
		},
	}
	cmd.Flags().Float64Var(&stockFlag, "stock", 0, "stock on hand (omit for unlimited)")
	cmd.Flags().Float64Var(&boostFlag, "tour-boost", 0, "extra demand while touring")
	return cmd
}

func newContractCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "contract",
		Short: "Sign a label contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			royalty, err := promptFloat("Label royalty rate (0-1)", 0)
			if err != nil {
				return err
			}
			minReleases, err := promptInt64("Minimum releases", 0)
			if err != nil {
				return err
			}
			termWeeks, err := promptInt64("Term (weeks)", 1)
			if err != nil {
				return err
			}
			advance, err := promptFloat("Cash advance", 0)
			if err != nil {
				return err
			}
			idem := uuid.NewString()
			body := map[string]any{
				"royalty":      royalty,
				"min_releases": minReleases,
				"term_weeks":   termWeeks,
				"advance":      advance,
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.SignContract(ctx, sess.AccessToken, royalty, int(minReleases), int(termWeeks), advance, idem)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Method:         "POST",
					Path:           "/v1/contracts",
					Body:           body,
					IdempotencyKey: idem,
				})
			}
			return renderContractSigned(out)
		},
	}
}

func newLeaderboardCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Season leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.Leaderboard(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderLeaderboard(out, "Season Leaderboard")
		},
	}
}

// queueOnNetworkError stashes write commands locally when the API is
// unreachable; `rsm sync` replays them later with the same idempotency
// key. Structured API errors are real rejections and are never queued.
func queueOnNetworkError(err error, queued syncq.Command) error {
	if err == nil {
		return nil
	}
	if isAPIStructuredError(err) {
		return err
	}
	if pushErr := syncq.Push(queued); pushErr != nil {
		return fmt.Errorf("request failed and could not be queued: %w", err)
	}
	printWarn(fmt.Sprintf("Offline: queued %s %s for `rsm sync`.", queued.Method, queued.Path))
	return nil
}

func isAPIStructuredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "api status")
}

func textFromArgsOrPrompt(args []string, label string) (string, error) {
	if len(args) > 0 {
		text := strings.TrimSpace(args[0])
		if text != "" {
			return text, nil
		}
	}
	return promptRequired(label)
}

func splitCities(raw string) []string {
	parts := strings.Split(raw, ",")
	cities := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			cities = append(cities, p)
		}
	}
	return cities
}
