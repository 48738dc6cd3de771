package game

import "risingstar/internal/sim"

type Dashboard struct {
	SeasonID   int64   `json:"season_id"`
	Week       int     `json:"week"`
	Cash       float64 `json:"cash"`
	Fans       int     `json:"fans"`
	Reputation float64 `json:"reputation"`

	StudioLevel int          `json:"studio_level"`
	Artist      sim.Musician `json:"artist"`

	VaultTracks int           `json:"vault_tracks"`
	Albums      []AlbumView   `json:"albums"`
	Tours       []TourView    `json:"tours"`
	Contract    *sim.Contract `json:"contract,omitempty"`
}

type AlbumView struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	ReleaseWeek    int      `json:"release_week"`
	Sales          float64  `json:"sales"`
	LastWeekSales  float64  `json:"last_week_sales"`
	ChartRank      int      `json:"chart_rank"`
	ChartPeak      int      `json:"chart_peak"`
	Certifications []string `json:"certifications"`
	TrackCount     int      `json:"track_count"`
}

type TourView struct {
	ID      string   `json:"id"`
	Cities  []string `json:"cities"`
	Revenue float64  `json:"revenue"`
	Cost    float64  `json:"cost"`
}

type ChartRow struct {
	Rank          int     `json:"rank"`
	AlbumID       string  `json:"album_id"`
	Title         string  `json:"title"`
	LastWeekSales float64 `json:"last_week_sales"`
	Peak          int     `json:"peak"`
}

type LeaderboardRow struct {
	Rank       int64   `json:"rank"`
	Username   string  `json:"username"`
	InviteCode string  `json:"invite_code"`
	Week       int     `json:"week"`
	Cash       float64 `json:"cash"`
	Fans       int64   `json:"fans"`
}

// WeekReport summarizes one advanced week; the worker feeds it to the
// Discord recap and the API returns it from the week endpoint.
type WeekReport struct {
	Week        int                 `json:"week"`
	Cash        float64             `json:"cash"`
	CashDelta   float64             `json:"cash_delta"`
	Fans        int                 `json:"fans"`
	TotalSales  float64             `json:"total_sales"`
	Streams     int64               `json:"streams"`
	ChartTop    []ChartRow          `json:"chart_top"`
	NewCerts    []sim.Certification `json:"new_certifications"`
	AwardsGiven int                 `json:"awards_given"`
	Warnings    []string            `json:"warnings"`
}

type AdvanceWeekInput struct {
	UserID         string
	SeasonID       int64
	IdempotencyKey string
}

type ProduceTrackInput struct {
	UserID         string
	SeasonID       int64
	Title          string
	IdempotencyKey string
}

type ReleaseAlbumInput struct {
	UserID         string
	SeasonID       int64
	Title          string
	Stock          *float64
	IdempotencyKey string
}

type PostSocialInput struct {
	UserID         string
	SeasonID       int64
	Platform       string
	Topic          string
	Quality        float64
	IdempotencyKey string
}

type UploadVideoInput struct {
	UserID            string
	SeasonID          int64
	Topic             string
	ProductionQuality float64
	IdempotencyKey    string
}

type PlanTourInput struct {
	UserID         string
	SeasonID       int64
	Cities         []string
	IdempotencyKey string
}

type StockMerchInput struct {
	UserID         string
	SeasonID       int64
	Name           string
	Price          float64
	Cost           float64
	Stock          *float64
	TourBoost      float64
	IdempotencyKey string
}

type SignContractInput struct {
	UserID         string
	SeasonID       int64
	Royalty        float64
	MinReleases    int
	TermWeeks      int
	Advance        float64
	IdempotencyKey string
}

type UpgradeStudioInput struct {
	UserID         string
	SeasonID       int64
	IdempotencyKey string
}
