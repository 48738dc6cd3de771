package game

import (
	"context"
	"fmt"
	mathrand "math/rand"
	"strings"

	"github.com/google/uuid"

	"risingstar/internal/sim"
)

// ProduceTrack records a new track into the vault. Quality is rolled
// from the artist's attributes and the studio level.
func (s *Service) ProduceTrack(ctx context.Context, in ProduceTrackInput) (*sim.Track, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateEntityName(in.Title); err != nil {
		return nil, err
	}
	var track *sim.Track
	err := s.withSave(ctx, in.UserID, in.SeasonID, in.IdempotencyKey, "produce_track", func(doc *saveDoc) error {
		s.roll(func(rng *mathrand.Rand) {
			track = sim.ProduceTrack(doc.Artist, float64(doc.StudioLevel), rng)
		})
		track.Title = in.Title
		track.ReleaseWeek = doc.State.Week
		doc.Vault = append(doc.Vault, track)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return track, nil
}

// ReleaseAlbum bundles the whole vault into a new album. Base demand
// scales with average track quality and the current fan base, so the
// same material lands harder on a bigger career.
func (s *Service) ReleaseAlbum(ctx context.Context, in ReleaseAlbumInput) (*sim.Album, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateEntityName(in.Title); err != nil {
		return nil, err
	}
	if in.Stock != nil && *in.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must be >= 0", ErrInvalidInput)
	}
	var album *sim.Album
	err := s.withSave(ctx, in.UserID, in.SeasonID, in.IdempotencyKey, "release_album", func(doc *saveDoc) error {
		if len(doc.Vault) == 0 {
			return ErrNoTracks
		}
		avgQuality := 0.0
		for _, t := range doc.Vault {
			t.ReleaseWeek = doc.State.Week
			avgQuality += t.Quality
		}
		avgQuality /= float64(len(doc.Vault))

		album = &sim.Album{
			ID:             "alb_" + uuid.NewString(),
			Title:          in.Title,
			ReleaseWeek:    doc.State.Week,
			DemandBase:     avgQuality * (1 + float64(doc.State.Fans)*0.001),
			Decay:          sim.DefaultDecay,
			Stock:          in.Stock,
			Certifications: []string{},
			Tracks:         doc.Vault,
		}
		doc.State.Albums = append(doc.State.Albums, album)
		doc.Vault = []*sim.Track{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return album, nil
}

func (s *Service) PostSocial(ctx context.Context, in PostSocialInput) (*sim.SocialPost, error) {
	in.Platform = strings.ToLower(strings.TrimSpace(in.Platform))
	if in.Platform == "" {
		return nil, fmt.Errorf("%w: platform is required", ErrInvalidInput)
	}
	var post *sim.SocialPost
	err := s.withSave(ctx, in.UserID, in.SeasonID, in.IdempotencyKey, "post_social", func(doc *saveDoc) error {
		post = sim.PostSocial(&doc.State, in.Platform, in.Topic, in.Quality)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *Service) UploadVideo(ctx context.Context, in UploadVideoInput) (*sim.Video, error) {
	var video *sim.Video
	err := s.withSave(ctx, in.UserID, in.SeasonID, in.IdempotencyKey, "upload_video", func(doc *saveDoc) error {
		video = sim.UploadVideo(&doc.State, in.Topic, in.ProductionQuality)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return video, nil
}

func (s *Service) PlanTour(ctx context.Context, in PlanTourInput) (*sim.Tour, error) {
	if len(in.Cities) == 0 {
		return nil, fmt.Errorf("%w: at least one city is required", ErrInvalidInput)
	}
	for _, c := range in.Cities {
		if strings.TrimSpace(c) == "" {
			return nil, fmt.Errorf("%w: city names must be non-empty", ErrInvalidInput)
		}
	}
	var tour *sim.Tour
	err := s.withSave(ctx, in.UserID, in.SeasonID, in.IdempotencyKey, "plan_tour", func(doc *saveDoc) error {
		tour = sim.PlanTour(in.Cities)
		doc.State.Tours = append(doc.State.Tours, tour)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tour, nil
}

func (s *Service) StockMerch(ctx context.Context, in StockMerchInput) (*sim.MerchItem, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateEntityName(in.Name); err != nil {
		return nil, err
	}
	if in.Price < 0 || in.Cost < 0 {
		return nil, fmt.Errorf("%w: price and cost must be >= 0", ErrInvalidInput)
	}
	var item *sim.MerchItem
	err := s.withSave(ctx, in.UserID, in.SeasonID, in.IdempotencyKey, "stock_merch", func(doc *saveDoc) error {
		item = &sim.MerchItem{
			ID:        "mch_" + uuid.NewString(),
			Name:      in.Name,
			Price:     in.Price,
			Cost:      in.Cost,
			Stock:     in.Stock,
			TourBoost: in.TourBoost,
		}
		doc.State.Merch = append(doc.State.Merch, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// SignContract binds a label deal and banks the advance. Only one
// contract can run at a time; the old one must expire first.
func (s *Service) SignContract(ctx context.Context, in SignContractInput) (*sim.Contract, error) {
	if in.Royalty < 0 || in.Royalty > 1 {
		return nil, fmt.Errorf("%w: royalty must be in [0,1]", ErrInvalidInput)
	}
	if in.MinReleases < 0 || in.TermWeeks <= 0 {
		return nil, fmt.Errorf("%w: term weeks must be > 0 and min releases >= 0", ErrInvalidInput)
	}
	if in.Advance < 0 {
		return nil, fmt.Errorf("%w: advance must be >= 0", ErrInvalidInput)
	}
	var contract *sim.Contract
	err := s.withSave(ctx, in.UserID, in.SeasonID, in.IdempotencyKey, "sign_contract", func(doc *saveDoc) error {
		if c := doc.State.Contract; c != nil && c.WeeksElapsed < c.TermWeeks {
			return ErrContractActive
		}
		contract = &sim.Contract{
			Royalty:     in.Royalty,
			MinReleases: in.MinReleases,
			TermWeeks:   in.TermWeeks,
		}
		doc.State.Contract = contract
		sim.Credit(&doc.State, in.Advance)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contract, nil
}

// UpgradeStudio buys the next studio level, improving every future
// track roll.
func (s *Service) UpgradeStudio(ctx context.Context, in UpgradeStudioInput) (int, error) {
	var level int
	err := s.withSave(ctx, in.UserID, in.SeasonID, in.IdempotencyKey, "upgrade_studio", func(doc *saveDoc) error {
		if doc.StudioLevel >= MaxStudioLevel {
			return ErrStudioMaxed
		}
		cost := StudioUpgradeCost(doc.StudioLevel)
		if doc.State.Cash < cost {
			return fmt.Errorf("%w: studio level %d costs %.0f", ErrInsufficientFunds, doc.StudioLevel+1, cost)
		}
		sim.Debit(&doc.State, cost)
		doc.StudioLevel++
		level = doc.StudioLevel
		return nil
	})
	return level, err
}

// ReplaySync acknowledges queued offline CLI commands. The CLI replays
// each against its live endpoint; this endpoint just confirms receipt.
func (s *Service) ReplaySync(ctx context.Context, userID string, seasonID int64, commands []map[string]any) ([]map[string]any, error) {
	results := make([]map[string]any, 0, len(commands))
	for _, cmd := range commands {
		method, _ := cmd["method"].(string)
		path, _ := cmd["path"].(string)
		idem, _ := cmd["idempotency_key"].(string)
		results = append(results, map[string]any{
			"method":          method,
			"path":            path,
			"idempotency_key": idem,
			"status":          "queued_for_cli_replay",
			"user_id":         userID,
			"season_id":       seasonID,
		})
	}
	return results, nil
}
