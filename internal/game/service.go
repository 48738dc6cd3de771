package game

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	mathrand "math/rand"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"risingstar/internal/config"
	"risingstar/internal/sim"
)

var usernameRE = regexp.MustCompile(`^[a-zA-Z0-9_]{3,24}$`)

// saveDoc is the JSONB payload of one career save. The simulation state
// is embedded as-is; the vault and studio live outside it because the
// weekly tick never touches them.
type saveDoc struct {
	State       sim.GameState `json:"state"`
	Vault       []*sim.Track  `json:"vault"`
	StudioLevel int           `json:"studio_level"`
	Artist      sim.Musician  `json:"artist"`
}

type Service struct {
	db      *pgxpool.Pool
	log     *slog.Logger
	balance config.Balance
	mu      sync.Mutex
	rand    *mathrand.Rand
}

func NewService(db *pgxpool.Pool, logger *slog.Logger, balance config.Balance) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:      db,
		log:     logger,
		balance: balance,
		rand:    mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
	}
}

// Rand hands out the service's seeded source under the lock. Sim calls
// that roll dice go through here so a test service can be reseeded.
func (s *Service) roll(fn func(rng *mathrand.Rand)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.rand)
}

func (s *Service) ActiveSeasonID(ctx context.Context) (int64, error) {
	var seasonID int64
	err := s.db.QueryRow(ctx, `
		SELECT id
		FROM game.seasons
		WHERE status = 'active'
		ORDER BY id DESC
		LIMIT 1
	`).Scan(&seasonID)
	if err == nil {
		return seasonID, nil
	}
	if err != pgx.ErrNoRows {
		return 0, err
	}

	err = s.db.QueryRow(ctx, `
		INSERT INTO game.seasons (name, status, starts_at, ends_at)
		VALUES ($1, 'active', now(), now() + interval '90 days')
		RETURNING id
	`, "Season 1").Scan(&seasonID)
	if err != nil {
		return 0, err
	}
	return seasonID, nil
}

// EnsurePlayer creates the profile and the starter save if either is
// missing. Artist attributes are rolled once and never re-rolled.
func (s *Service) EnsurePlayer(ctx context.Context, userID, email, username string) error {
	seasonID, err := s.ActiveSeasonID(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(username) == "" {
		username = usernameFromEmail(email)
	}
	username = strings.TrimSpace(username)
	if !usernameRE.MatchString(username) {
		username = sanitizeUsername(usernameFromEmail(email))
	}
	inviteCode, err := generateInviteCode()
	if err != nil {
		return err
	}

	doc := s.newStarterSave(username)
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO users.profiles (user_id, email, username, invite_code)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, email, username, inviteCode)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO game.saves (user_id, season_id, week, cash_micros, fans, state)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb)
		ON CONFLICT (user_id, season_id) DO NOTHING
	`, userID, seasonID, doc.State.Week, CashToMicros(doc.State.Cash), doc.State.Fans, string(raw))
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Service) newStarterSave(stageName string) saveDoc {
	var talent, creativity float64
	s.roll(func(rng *mathrand.Rand) {
		talent = 40 + rng.Float64()*40
		creativity = 40 + rng.Float64()*40
	})
	doc := saveDoc{
		StudioLevel: 1,
		Vault:       []*sim.Track{},
		Artist: sim.Musician{
			Name:       stageName,
			Talent:     talent,
			Creativity: creativity,
		},
	}
	doc.State = sim.GameState{
		Cash:   StarterCash,
		Fans:   StarterFans,
		Config: sim.Config{Certifications: s.balance.Certifications},
		Prices: s.balance.SimPrices(),
	}
	// Normalize never fails on a non-nil state.
	_ = sim.Normalize(&doc.State)
	return doc
}

func (s *Service) LoadDashboard(ctx context.Context, userID string, seasonID int64) (Dashboard, error) {
	doc, err := s.loadSave(ctx, userID, seasonID)
	if err != nil {
		return Dashboard{}, err
	}
	out := Dashboard{
		SeasonID:    seasonID,
		Week:        doc.State.Week,
		Cash:        doc.State.Cash,
		Fans:        doc.State.Fans,
		Reputation:  doc.State.Reputation,
		StudioLevel: doc.StudioLevel,
		Artist:      doc.Artist,
		VaultTracks: len(doc.Vault),
		Contract:    doc.State.Contract,
	}
	for _, a := range doc.State.Albums {
		if a == nil {
			continue
		}
		out.Albums = append(out.Albums, albumView(a))
	}
	for _, tr := range doc.State.Tours {
		if tr == nil {
			continue
		}
		out.Tours = append(out.Tours, TourView{
			ID:      tr.ID,
			Cities:  tr.Cities,
			Revenue: tr.Revenue,
			Cost:    tr.Cost,
		})
	}
	return out, nil
}

func albumView(a *sim.Album) AlbumView {
	return AlbumView{
		ID:             a.ID,
		Title:          a.Title,
		ReleaseWeek:    a.ReleaseWeek,
		Sales:          a.Stats.Sales,
		LastWeekSales:  a.Stats.LastWeekSales,
		ChartRank:      a.ChartRank,
		ChartPeak:      a.ChartPeak,
		Certifications: a.Certifications,
		TrackCount:     len(a.Tracks),
	}
}

// AdvanceWeek runs the full weekly pass for one save: the core tick,
// then streaming, merchandising and label settlement on the advanced
// snapshot, then the chart re-rank.
func (s *Service) AdvanceWeek(ctx context.Context, in AdvanceWeekInput) (WeekReport, error) {
	var report WeekReport
	err := s.withSave(ctx, in.UserID, in.SeasonID, in.IdempotencyKey, "advance_week", func(doc *saveDoc) error {
		next, rep, err := s.weeklyPass(&doc.State)
		if err != nil {
			return err
		}
		doc.State = *next
		report = rep
		return nil
	})
	return report, err
}

func (s *Service) weeklyPass(state *sim.GameState) (*sim.GameState, WeekReport, error) {
	if state == nil {
		return nil, WeekReport{}, sim.ErrNilState
	}
	cashBefore := state.Cash
	certsBefore := certCount(state)
	awardsBefore := eventCount(state, sim.EventAward)

	next, err := sim.SimulateWeek(state, sim.DefaultSystems())
	if err != nil {
		return nil, WeekReport{}, err
	}
	sim.DistributeWeeklyStreams(next)
	sim.MerchTick(next)
	sim.LabelsTick(next)
	ranked := sim.ComputeRank(next.Albums, sim.WeeklySalesMetric, 0)

	report := WeekReport{
		Week:        next.Week,
		Cash:        next.Cash,
		CashDelta:   next.Cash - cashBefore,
		Fans:        next.Fans,
		AwardsGiven: eventCount(next, sim.EventAward) - awardsBefore,
	}
	for _, a := range ranked {
		report.TotalSales += a.Stats.LastWeekSales
		if len(report.ChartTop) < 5 {
			report.ChartTop = append(report.ChartTop, ChartRow{
				Rank:          a.ChartRank,
				AlbumID:       a.ID,
				Title:         a.Title,
				LastWeekSales: a.Stats.LastWeekSales,
				Peak:          a.ChartPeak,
			})
		}
	}
	for _, p := range next.Platforms {
		if p != nil {
			report.Streams += p.Weekly.Streams
		}
	}
	report.NewCerts = newCertsSince(next, certsBefore)
	for _, ev := range next.Events {
		if ev != nil && ev.Type == sim.EventContractWarning && ev.Week == next.Week {
			report.Warnings = append(report.Warnings, ev.Note)
		}
	}
	return next, report, nil
}

func certCount(state *sim.GameState) map[string]int {
	out := make(map[string]int, len(state.Albums))
	for _, a := range state.Albums {
		if a != nil {
			out[a.ID] = len(a.Certifications)
		}
	}
	return out
}

func newCertsSince(state *sim.GameState, before map[string]int) []sim.Certification {
	var out []sim.Certification
	for _, a := range state.Albums {
		if a == nil {
			continue
		}
		for _, key := range a.Certifications[before[a.ID]:] {
			region, name, ok := strings.Cut(key, ":")
			if !ok {
				continue
			}
			out = append(out, sim.Certification{Region: region, Name: name, Sales: a.Stats.Sales})
		}
	}
	return out
}

func eventCount(state *sim.GameState, eventType string) int {
	n := 0
	for _, ev := range state.Events {
		if ev != nil && ev.Type == eventType {
			n++
		}
	}
	return n
}

// Leaderboard ranks careers off the denormalized save columns so it
// never has to open every JSONB blob.
func (s *Service) Leaderboard(ctx context.Context, seasonID int64, limit int) ([]LeaderboardRow, error) {
	rows, err := s.db.Query(ctx, `
		SELECT pr.username, pr.invite_code, sv.week, sv.cash_micros, sv.fans
		FROM game.saves sv
		JOIN users.profiles pr ON pr.user_id = sv.user_id
		WHERE sv.season_id = $1
		ORDER BY sv.cash_micros + sv.fans * $2 DESC
		LIMIT $3
	`, seasonID, MicrosPerDollar, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderboardRow
	var rank int64 = 1
	for rows.Next() {
		var r LeaderboardRow
		var cashMicros int64
		if err := rows.Scan(&r.Username, &r.InviteCode, &r.Week, &cashMicros, &r.Fans); err != nil {
			return nil, err
		}
		r.Cash = MicrosToCash(cashMicros)
		r.Rank = rank
		rank++
		out = append(out, r)
	}
	return out, rows.Err()
}

// Charts returns the player's catalog in chart order without mutating
// the stored ranks.
func (s *Service) Charts(ctx context.Context, userID string, seasonID int64) ([]ChartRow, error) {
	doc, err := s.loadSave(ctx, userID, seasonID)
	if err != nil {
		return nil, err
	}
	albums := make([]*sim.Album, 0, len(doc.State.Albums))
	for _, a := range doc.State.Albums {
		if a != nil {
			albums = append(albums, a)
		}
	}
	sort.SliceStable(albums, func(i, j int) bool {
		return albums[i].Stats.LastWeekSales > albums[j].Stats.LastWeekSales
	})
	out := make([]ChartRow, 0, len(albums))
	for i, a := range albums {
		out = append(out, ChartRow{
			Rank:          i + 1,
			AlbumID:       a.ID,
			Title:         a.Title,
			LastWeekSales: a.Stats.LastWeekSales,
			Peak:          a.ChartPeak,
		})
	}
	return out, nil
}

// SaveRef identifies one career save; the worker walks these to tick
// the world.
type SaveRef struct {
	UserID   string
	Username string
}

func (s *Service) ListSaves(ctx context.Context, seasonID int64) ([]SaveRef, error) {
	rows, err := s.db.Query(ctx, `
		SELECT sv.user_id, pr.username
		FROM game.saves sv
		JOIN users.profiles pr ON pr.user_id = sv.user_id
		WHERE sv.season_id = $1
		ORDER BY sv.user_id
	`, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SaveRef
	for rows.Next() {
		var ref SaveRef
		if err := rows.Scan(&ref.UserID, &ref.Username); err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

func (s *Service) loadSave(ctx context.Context, userID string, seasonID int64) (saveDoc, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, `
		SELECT state
		FROM game.saves
		WHERE user_id = $1 AND season_id = $2
	`, userID, seasonID).Scan(&raw)
	if err == pgx.ErrNoRows {
		return saveDoc{}, ErrSaveNotFound
	}
	if err != nil {
		return saveDoc{}, err
	}
	return s.decodeSave(raw)
}

func (s *Service) decodeSave(raw []byte) (saveDoc, error) {
	var doc saveDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("decode save: %w", err)
	}
	if doc.State.Config.Certifications == nil {
		doc.State.Config.Certifications = s.balance.Certifications
	}
	if err := sim.Normalize(&doc.State); err != nil {
		return doc, err
	}
	if doc.StudioLevel < 1 {
		doc.StudioLevel = 1
	}
	return doc, nil
}

// withSave is the single write path: serializable transaction,
// idempotency claim, load, mutate, store, ledger the cash delta, retry
// serialization failures with backoff.
func (s *Service) withSave(ctx context.Context, userID string, seasonID int64, idem, action string, fn func(doc *saveDoc) error) error {
	const maxAttempts = 8
	retryDelay := 75 * time.Millisecond
	for attempt := 0; attempt < maxAttempts; attempt++ {
		tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
		if err != nil {
			return err
		}
		err = func() error {
			defer tx.Rollback(ctx)

			if err := claimIdempotency(ctx, tx, userID, idem, action); err != nil {
				return err
			}

			var raw []byte
			if err := tx.QueryRow(ctx, `
				SELECT state
				FROM game.saves
				WHERE user_id = $1 AND season_id = $2
				FOR UPDATE
			`, userID, seasonID).Scan(&raw); err != nil {
				if err == pgx.ErrNoRows {
					return ErrSaveNotFound
				}
				return err
			}
			doc, err := s.decodeSave(raw)
			if err != nil {
				return err
			}
			cashBefore := doc.State.Cash

			if err := fn(&doc); err != nil {
				return err
			}

			next, err := json.Marshal(doc)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `
				UPDATE game.saves
				SET state = $1::jsonb, week = $2, cash_micros = $3, fans = $4, updated_at = now()
				WHERE user_id = $5 AND season_id = $6
			`, string(next), doc.State.Week, CashToMicros(doc.State.Cash), doc.State.Fans, userID, seasonID); err != nil {
				return err
			}
			if delta := CashToMicros(doc.State.Cash) - CashToMicros(cashBefore); delta != 0 {
				if err := appendLedgerEntries(ctx, tx, userID, seasonID, action, delta); err != nil {
					return err
				}
			}
			return tx.Commit(ctx)
		}()
		if err == nil {
			return nil
		}
		if !isSerializationError(err) {
			return err
		}
		if attempt == maxAttempts-1 {
			return ErrTxConflict
		}
		if err := sleepWithContext(ctx, retryDelay); err != nil {
			return err
		}
		if retryDelay < 1200*time.Millisecond {
			retryDelay *= 2
		}
	}
	return ErrTxConflict
}

func appendLedgerEntries(ctx context.Context, tx pgx.Tx, userID string, seasonID int64, action string, deltaMicros int64) error {
	txID := uuid.NewString()
	meta, _ := json.Marshal(map[string]any{"action": action})
	_, err := tx.Exec(ctx, `
		INSERT INTO game.ledger_entries (tx_group_id, user_id, season_id, account, delta_micros, metadata)
		VALUES
		($1, $2, $3, 'wallet', $4, $6::jsonb),
		($1, $2, $3, 'counterparty', $5, $6::jsonb)
	`, txID, userID, seasonID, deltaMicros, -deltaMicros, string(meta))
	return err
}

func claimIdempotency(ctx context.Context, tx pgx.Tx, userID, key, action string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("idempotency key is required")
	}
	cmd, err := tx.Exec(ctx, `
		INSERT INTO game.idempotency_keys (user_id, key, action, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, key) DO NOTHING
	`, userID, key, action)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDuplicateIdempotency
	}
	return nil
}

func isSerializationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func generateInviteCode() (string, error) {
	const letters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = letters[int(buf[i])%len(letters)]
	}
	return string(buf), nil
}

func usernameFromEmail(email string) string {
	email = strings.TrimSpace(strings.ToLower(email))
	parts := strings.Split(email, "@")
	if len(parts) == 0 || parts[0] == "" {
		return "artist"
	}
	return sanitizeUsername(parts[0])
}

func sanitizeUsername(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "artist"
	}
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			out = append(out, r)
		} else {
			out = append(out, '_')
		}
	}
	res := strings.Trim(string(out), "_")
	if len(res) < 3 {
		res = "artist_" + res
	}
	if len(res) > 24 {
		res = res[:24]
	}
	return res
}
