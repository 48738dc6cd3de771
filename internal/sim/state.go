package sim

import "errors"

// ErrNilState is returned when a caller hands the scheduler a missing
// state instead of a partially-initialized one. Partial states are
// normal (Normalize fills the gaps); a nil state is a caller bug.
var ErrNilState = errors.New("sim: nil game state")

// MarketingFunc returns a demand bonus for an album at a given week.
// Supplied by external collaborators (campaign systems); nil means no bonus.
type MarketingFunc func(a *Album, week int) float64

// GameState is the top-level aggregate advanced one week per tick.
// Whoever holds the snapshot owns everything reachable from it.
type GameState struct {
	Week       int     `json:"week"`
	Cash       float64 `json:"cash"`
	Fans       int     `json:"fans"`
	Reputation float64 `json:"reputation"`

	Albums    []*Album      `json:"albums"`
	Tours     []*Tour       `json:"tours"`
	Social    []*SocialPost `json:"social"`
	YouTube   []*Video      `json:"youtube"`
	Events    []*Event      `json:"events"`
	Merch     []*MerchItem  `json:"merch"`
	Platforms []*Platform   `json:"streaming_platforms"`

	Contract       *Contract          `json:"label_contract,omitempty"`
	CityPopularity map[string]float64 `json:"city_popularity,omitempty"`

	Config Config `json:"config"`
	Prices Prices `json:"prices"`

	// Marketing is an optional demand-bonus hook. Not persisted.
	Marketing MarketingFunc `json:"-"`
}

type Album struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	ReleaseWeek int      `json:"release_week"`
	DemandBase  float64  `json:"demand_base"`
	Decay       float64  `json:"decay"`
	Stock       *float64 `json:"stock,omitempty"`

	Stats AlbumStats `json:"stats"`

	// Certifications holds "region:tier" strings, insertion order
	// preserved, never duplicated.
	Certifications []string `json:"certifications"`

	// ChartRank is the current 1-based chart position, 0 when unranked.
	// ChartPeak is the best (lowest) rank ever observed, 0 when never ranked.
	ChartRank int `json:"chart_rank"`
	ChartPeak int `json:"chart_peak"`

	Tracks []*Track `json:"tracks"`
}

type AlbumStats struct {
	Sales         float64 `json:"sales"`
	LastWeekSales float64 `json:"last_week_sales"`
}

type Track struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Quality     float64    `json:"quality"`
	Genre       string     `json:"genre"`
	ReleaseWeek int        `json:"release_week"`
	Stats       TrackStats `json:"stats"`
}

type TrackStats struct {
	Streams int64 `json:"streams"`
}

type Contract struct {
	Royalty      float64 `json:"royalty"`
	MinReleases  int     `json:"min_releases"`
	TermWeeks    int     `json:"term_weeks"`
	WeeksElapsed int     `json:"weeks_elapsed"`
}

// Event types emitted by the core itself. Callers may schedule events
// with free-form types of their own.
const (
	EventContractWarning = "contract-warning"
	EventRoyalty         = "royalty"
	EventAward           = "award"
)

// Event is an expiring queue entry. Never mutated after creation; it is
// removed only once ExpiresWeek has passed. Apply, when set, fires
// exactly once in the tick whose week matches Week.
type Event struct {
	Type        string  `json:"type"`
	Week        int     `json:"week"`
	ExpiresWeek *int    `json:"expires_week,omitempty"`
	Amount      float64 `json:"amount,omitempty"`
	Note        string  `json:"note,omitempty"`

	Apply func(*GameState) `json:"-"`
}

type Platform struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Weight   float64        `json:"weight"`
	CTR      float64        `json:"ctr"`
	Trending float64        `json:"trending"`
	Weekly   WeeklySnapshot `json:"weekly"`
	Total    int64          `json:"total"`
}

type WeeklySnapshot struct {
	Week    int   `json:"week"`
	Streams int64 `json:"streams"`
}

type SocialPost struct {
	ID       string  `json:"id"`
	Platform string  `json:"platform"`
	Topic    string  `json:"topic"`
	Quality  float64 `json:"quality"`
	Week     int     `json:"week"`
	Impact   int     `json:"impact"`
}

type Video struct {
	ID                string  `json:"id"`
	Topic             string  `json:"topic"`
	ProductionQuality float64 `json:"production_quality"`
	Week              int     `json:"week"`
	Trending          float64 `json:"trending"`
	Views             int     `json:"views"`
	Likes             int     `json:"likes"`
}

type Tour struct {
	ID      string   `json:"id"`
	Cities  []string `json:"cities"`
	Revenue float64  `json:"revenue"`
	Cost    float64  `json:"cost"`
	Risk    float64  `json:"risk"`
}

type MerchItem struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Cost  float64  `json:"cost"`
	Stock *float64 `json:"stock,omitempty"`

	// TourBoost is an additive demand bonus while the act is on the road.
	TourBoost float64 `json:"tour_boost,omitempty"`
}

// Musician carries the attributes the studio rolls against.
type Musician struct {
	Name       string  `json:"name"`
	Talent     float64 `json:"talent"`
	Creativity float64 `json:"creativity"`
}

// CertTier and CertRegion keep certification thresholds ordered: tiers
// are evaluated in declaration order, ties resolved by that order.
type CertTier struct {
	Name      string  `json:"name" yaml:"name"`
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

type CertRegion struct {
	Region string     `json:"region" yaml:"region"`
	Tiers  []CertTier `json:"tiers" yaml:"tiers"`
}

type Config struct {
	Certifications []CertRegion `json:"certifications"`
}

type Prices struct {
	Unit   float64 `json:"unit"`
	Ticket float64 `json:"ticket"`
}

// Certification is emitted when an album crosses a sales threshold.
type Certification struct {
	Region string  `json:"region"`
	Name   string  `json:"name"`
	Sales  float64 `json:"sales"`
}

const (
	DefaultDecay          = 0.2
	DefaultUnitPrice      = 1.0
	DefaultTicketPrice    = 20.0
	DefaultRoyaltyRate    = 0.15
	DefaultCityPopularity = 0.5
)

// Normalize applies every documented default in one pass so the weekly
// formulas never have to guard against partially-initialized or
// externally-edited saves. Safe to call repeatedly.
func Normalize(state *GameState) error {
	if state == nil {
		return ErrNilState
	}
	if state.Week < 0 {
		state.Week = 0
	}
	if state.Fans < 0 {
		state.Fans = 0
	}
	if state.Reputation < 0 {
		state.Reputation = 0
	}
	if state.Prices.Unit <= 0 {
		state.Prices.Unit = DefaultUnitPrice
	}
	if state.Prices.Ticket <= 0 {
		state.Prices.Ticket = DefaultTicketPrice
	}
	if state.Platforms == nil {
		state.Platforms = DefaultPlatforms()
	}
	if state.CityPopularity == nil {
		state.CityPopularity = map[string]float64{}
	}
	for _, a := range state.Albums {
		if a == nil {
			continue
		}
		if a.Decay == 0 {
			a.Decay = DefaultDecay
		}
		if a.Certifications == nil {
			a.Certifications = []string{}
		}
	}
	return nil
}
