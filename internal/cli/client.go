package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"risingstar/internal/auth"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) Signup(ctx context.Context, email, password, username string) (auth.Session, error) {
	var out auth.Session
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/auth/signup", "", map[string]any{
		"email":    email,
		"password": password,
		"username": username,
	}, &out, "")
	return out, err
}

func (c *Client) Login(ctx context.Context, email, password string) (auth.Session, error) {
	var out auth.Session
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	}, &out, "")
	return out, err
}

func (c *Client) Dashboard(ctx context.Context, accessToken string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/dashboard", accessToken, nil, &out, "")
	return out, err
}

func (c *Client) AdvanceWeek(ctx context.Context, accessToken, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/week/advance", accessToken, map[string]any{}, &out, idem)
	return out, err
}

func (c *Client) ProduceTrack(ctx context.Context, accessToken, title, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/studio/tracks", accessToken, map[string]any{
		"title": title,
	}, &out, idem)
	return out, err
}

func (c *Client) UpgradeStudio(ctx context.Context, accessToken, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/studio/upgrade", accessToken, map[string]any{}, &out, idem)
	return out, err
}

func (c *Client) ReleaseAlbum(ctx context.Context, accessToken, title string, stock *float64, idem string) (map[string]any, error) {
	body := map[string]any{"title": title}
	if stock != nil {
		body["stock"] = *stock
	}
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/albums", accessToken, body, &out, idem)
	return out, err
}

func (c *Client) Charts(ctx context.Context, accessToken string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/charts", accessToken, nil, &out, "")
	return out, err
}

func (c *Client) PostSocial(ctx context.Context, accessToken, platform, topic string, quality float64, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/social/posts", accessToken, map[string]any{
		"platform": platform,
		"topic":    topic,
		"quality":  quality,
	}, &out, idem)
	return out, err
}

func (c *Client) UploadVideo(ctx context.Context, accessToken, topic string, productionQuality float64, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/videos", accessToken, map[string]any{
		"topic":              topic,
		"production_quality": productionQuality,
	}, &out, idem)
	return out, err
}

func (c *Client) PlanTour(ctx context.Context, accessToken string, cities []string, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/tours", accessToken, map[string]any{
		"cities": cities,
	}, &out, idem)
	return out, err
}

func (c *Client) StockMerch(ctx context.Context, accessToken, name string, price, cost float64, stock *float64, tourBoost float64, idem string) (map[string]any, error) {
	body := map[string]any{
		"name":       name,
		"price":      price,
		"cost":       cost,
		"tour_boost": tourBoost,
	}
	if stock != nil {
		body["stock"] = *stock
	}
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/merch", accessToken, body, &out, idem)
	return out, err
}

func (c *Client) SignContract(ctx context.Context, accessToken string, royalty float64, minReleases, termWeeks int, advance float64, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/contracts", accessToken, map[string]any{
		"royalty":      royalty,
		"min_releases": minReleases,
		"term_weeks":   termWeeks,
		"advance":      advance,
	}, &out, idem)
	return out, err
}

func (c *Client) Leaderboard(ctx context.Context, accessToken string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/leaderboard", accessToken, nil, &out, "")
	return out, err
}

func (c *Client) SyncReplay(ctx context.Context, accessToken string, commands []map[string]any) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/sync/replay", accessToken, map[string]any{
		"commands": commands,
	}, &out, "")
	return out, err
}

func (c *Client) Do(ctx context.Context, method, path, accessToken string, body map[string]any, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, method, path, accessToken, body, &out, idem)
	return out, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path, accessToken string, in any, out any, idem string) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	if idem != "" {
		req.Header.Set("Idempotency-Key", idem)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
