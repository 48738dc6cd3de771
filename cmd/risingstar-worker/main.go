package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"risingstar/internal/config"
	"risingstar/internal/db"
	"risingstar/internal/game"
	"risingstar/internal/notify"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadWorkerFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	balance, err := config.LoadBalance(cfg.BalancePath)
	if err != nil {
		logger.Error("load balance", "err", err)
		os.Exit(1)
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		logger.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	svc := game.NewService(pool, logger, balance)

	recap, err := notify.NewDiscord(cfg.DiscordToken, cfg.DiscordChan)
	if err != nil {
		logger.Error("discord init failed", "err", err)
		os.Exit(1)
	}
	defer recap.Close()

	if cfg.RunOnce {
		if err := tickWorld(ctx, svc, recap, cfg.ChartSize, logger); err != nil {
			logger.Error("world tick failed", "err", err)
			os.Exit(1)
		}
		logger.Info("worker run-once completed")
		return
	}

	ticker := time.NewTicker(cfg.TickEvery)
	defer ticker.Stop()

	logger.Info("worker started", "tick_every", cfg.TickEvery.String())
	for {
		select {
		case <-ctx.Done():
			logger.Info("worker shutdown")
			return
		case <-ticker.C:
			if err := tickWorld(ctx, svc, recap, cfg.ChartSize, logger); err != nil {
				logger.Error("world tick failed", "err", err)
			}
		}
	}
}

// tickWorld advances every save in the active season by one week and
// posts a recap per player. One failing save never blocks the rest.
func tickWorld(ctx context.Context, svc *game.Service, recap *notify.Discord, chartSize int, logger *slog.Logger) error {
	seasonID, err := svc.ActiveSeasonID(ctx)
	if err != nil {
		return err
	}
	refs, err := svc.ListSaves(ctx, seasonID)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		report, err := svc.AdvanceWeek(ctx, game.AdvanceWeekInput{
			UserID:         ref.UserID,
			SeasonID:       seasonID,
			IdempotencyKey: uuid.NewString(),
		})
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			logger.Error("advance week failed", "user_id", ref.UserID, "err", err)
			continue
		}
		logger.Info("week advanced",
			"user_id", ref.UserID,
			"week", report.Week,
			"sales", report.TotalSales,
			"streams", report.Streams)
		if chartSize > 0 && len(report.ChartTop) > chartSize {
			report.ChartTop = report.ChartTop[:chartSize]
		}
		if err := recap.WeeklyRecap(ref.Username, report); err != nil {
			logger.Error("discord recap failed", "user_id", ref.UserID, "err", err)
		}
	}
	logger.Info("world tick complete", "season_id", seasonID, "saves", len(refs))
	return nil
}
