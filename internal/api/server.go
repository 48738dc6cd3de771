package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"risingstar/internal/auth"
	"risingstar/internal/config"
	"risingstar/internal/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type contextKey string

const userContextKey contextKey = "user"

type UserContext struct {
	UserID string
	Email  string
	Token  string
}

type Server struct {
	cfg  config.APIConfig
	log  *slog.Logger
	auth *auth.Client
	game *game.Service
	mux  *chi.Mux
}

func New(cfg config.APIConfig, logger *slog.Logger, authClient *auth.Client, gameSvc *game.Service) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:  cfg,
		log:  logger,
		auth: authClient,
		game: gameSvc,
		mux:  chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/dashboard", s.handleDashboard)
			r.Post("/week/advance", s.handleAdvanceWeek)

			r.Post("/studio/tracks", s.handleProduceTrack)
			r.Post("/studio/upgrade", s.handleUpgradeStudio)
			r.Post("/albums", s.handleReleaseAlbum)
			r.Get("/charts", s.handleCharts)

			r.Post("/social/posts", s.handlePostSocial)
			r.Post("/videos", s.handleUploadVideo)
			r.Post("/tours", s.handlePlanTour)
			r.Post("/merch", s.handleStockMerch)
			r.Post("/contracts", s.handleSignContract)

			r.Get("/leaderboard", s.handleLeaderboard)
			r.Post("/sync/replay", s.handleSyncReplay)
		})
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		user, err := s.auth.VerifyAccessToken(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, fmt.Sprintf("invalid token: %v", err))
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, UserContext{
			UserID: user.ID,
			Email:  user.Email,
			Token:  token,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromContext(ctx context.Context) (UserContext, error) {
	v := ctx.Value(userContextKey)
	user, ok := v.(UserContext)
	if !ok || user.UserID == "" {
		return UserContext{}, errors.New("missing auth context")
	}
	return user, nil
}

// session resolves the authenticated user and the active season for a
// request; nearly every handler needs both.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (UserContext, int64, bool) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return UserContext{}, 0, false
	}
	seasonID, err := s.game.ActiveSeasonID(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return UserContext{}, 0, false
	}
	return user, seasonID, true
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Username string `json:"username"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	session, err := s.auth.SignUp(r.Context(), strings.TrimSpace(in.Email), strings.TrimSpace(in.Password))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if session.User.ID != "" {
		if err := s.game.EnsurePlayer(r.Context(), session.User.ID, session.User.Email, in.Username); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	session, err := s.auth.Login(r.Context(), strings.TrimSpace(in.Email), strings.TrimSpace(in.Password))
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err := s.game.EnsurePlayer(r.Context(), session.User.ID, session.User.Email, ""); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, seasonID, ok := s.session(w, r)
	if !ok {
		return
	}
	out, err := s.game.LoadDashboard(r.Context(), user.UserID, seasonID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAdvanceWeek(w http.ResponseWriter, r *http.Request) {
	user, seasonID, ok := s.session(w, r)
	if !ok {
		return
	}
	report, err := s.game.AdvanceWeek(r.Context(), game.AdvanceWeekInput{
		UserID:         user.UserID,
		SeasonID:       seasonID,
		IdempotencyKey: idempotencyKey(r),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleProduceTrack(w http.ResponseWriter, r *http.Request) {
	user, seasonID, ok := s.session(w, r)
	if !ok {
		return
	}
	var in struct {
		Title string `json:"title"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	track, err := s.game.ProduceTrack(r.Context(), game.ProduceTrackInput{
		UserID:         user.UserID,
		SeasonID:       seasonID,
		Title:          in.Title,
		IdempotencyKey: idempotencyKey(r),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, track)
}

func (s *Server) handleUpgradeStudio(w http.ResponseWriter, r *http.Request) {
	user, seasonID, ok := s.session(w, r)
	if !ok {
		return
	}
	level, err := s.game.UpgradeStudio(r.Context(), game.UpgradeStudioInput{
		UserID:         user.UserID,
		SeasonID:       seasonID,
		IdempotencyKey: idempotencyKey(r),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"studio_level": level})
}

func (s *Server) handleReleaseAlbum(w http.ResponseWriter, r *http.Request) {
	user, seasonID, ok := s.session(w, r)
	if !ok {
		return
	}
	var in struct {
		Title string   `json:"title"`
		Stock *float64 `json:"stock"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	album, err := s.game.ReleaseAlbum(r.Context(), game.ReleaseAlbumInput{
		UserID:         user.UserID,
		SeasonID:       seasonID,
		Title:          in.Title,
		Stock:          in.Stock,
		IdempotencyKey: idempotencyKey(r),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, album)
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	user, seasonID, ok := s.session(w, r)
	if !ok {
		return
	}
	rows, err := s.game.Charts(r.Context(), user.UserID, seasonID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"chart": rows})
}

func (s *Server) handlePostSocial(w http.ResponseWriter, r *http.Request) {
	user, seasonID, ok := s.session(w, r)
	if !ok {
		return
	}
	var in struct {
		Platform string  `json:"platform"`
		Topic    string  `json:"topic"`
		Quality  float64 `json:"quality"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	post, err := s.game.PostSocial(r.Context(), game.PostSocialInput{
		UserID:         user.UserID,
		SeasonID:       seasonID,
		Platform:       in.Platform,
		Topic:          in.Topic,
		Quality:        in.Quality,
		IdempotencyKey: idempotencyKey(r),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handleUploadVideo(w http.ResponseWriter, r *http.Request) {
	user, seasonID, ok := s.session(w, r)
	if !ok {
		return
	}
	var in struct {
		Topic             string  `json:"topic"`
		ProductionQuality float64 `json:"production_quality"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	video, err := s.game.UploadVideo(r.Context(), game.UploadVideoInput{
		UserID:            user.UserID,
		SeasonID:          seasonID,
		Topic:             in.Topic,
		ProductionQuality: in.ProductionQuality,
		IdempotencyKey:    idempotencyKey(r),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, video)
}

func (s *Server) handlePlanTour(w http.ResponseWriter, r *http.Request) {
	user, seasonID, ok := s.session(w, r)
	if !ok {
		return
	}
	var in struct {
		Cities []string `json:"cities"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tour, err := s.game.PlanTour(r.Context(), game.PlanTourInput{
		UserID:         user.UserID,
		SeasonID:       seasonID,
		Cities:         in.Cities,
		IdempotencyKey: idempotencyKey(r),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tour)
}

func (s *Server) handleStockMerch(w http.ResponseWriter, r *http.Request) {
	user, seasonID, ok := s.session(w, r)
	if !ok {
		return
	}
	var in struct {
		Name      string   `json:"name"`
		Price     float64  `json:"price"`
		Cost      float64  `json:"cost"`
		Stock     *float64 `json:"stock"`
		TourBoost float64  `json:"tour_boost"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item, err := s.game.StockMerch(r.Context(), game.StockMerchInput{
		UserID:         user.UserID,
		SeasonID:       seasonID,
		Name:           in.Name,
		Price:          in.Price,
		Cost:           in.Cost,
		Stock:          in.Stock,
		TourBoost:      in.TourBoost,
		IdempotencyKey: idempotencyKey(r),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleSignContract(w http.ResponseWriter, r *http.Request) {
	user, seasonID, ok := s.session(w, r)
	if !ok {
		return
	}
	var in struct {
		Royalty     float64 `json:"royalty"`
		MinReleases int     `json:"min_releases"`
		TermWeeks   int     `json:"term_weeks"`
		Advance     float64 `json:"advance"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	contract, err := s.game.SignContract(r.Context(), game.SignContractInput{
		UserID:         user.UserID,
		SeasonID:       seasonID,
		Royalty:        in.Royalty,
		MinReleases:    in.MinReleases,
		TermWeeks:      in.TermWeeks,
		Advance:        in.Advance,
		IdempotencyKey: idempotencyKey(r),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, contract)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	_, seasonID, ok := s.session(w, r)
	if !ok {
		return
	}
	rows, err := s.game.Leaderboard(r.Context(), seasonID, 100)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

func (s *Server) handleSyncReplay(w http.ResponseWriter, r *http.Request) {
	user, seasonID, ok := s.session(w, r)
	if !ok {
		return
	}
	var in struct {
		Commands []map[string]any `json:"commands"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.game.ReplaySync(r.Context(), user.UserID, seasonID, in.Commands)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": out})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrDuplicateIdempotency), errors.Is(err, game.ErrTxConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrInsufficientFunds), errors.Is(err, game.ErrNoTracks),
		errors.Is(err, game.ErrContractActive), errors.Is(err, game.ErrStudioMaxed),
		errors.Is(err, game.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrUnauthorized):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, game.ErrSaveNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}

func idempotencyKey(r *http.Request) string {
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key != "" {
		return key
	}
	return uuid.NewString()
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
