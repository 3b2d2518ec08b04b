package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"fleet-safety-service/internal/domain"
	"fleet-safety-service/internal/platform/obs"
	"fleet-safety-service/internal/ports"
)

// Client implements DirectionsProvider and SafetyFactorsProvider against
// the mapping gateway. Responses are normalized on ingestion, so callers
// only ever see canonical RouteCandidates.
//
// The client is safe for concurrent use.
type Client struct {
	session *http.Client
	apiKey  string
	baseURL string
}

func NewClient(apiKey, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("maps api key is empty")
	}
	if baseURL == "" {
		return nil, errors.New("maps base URL is empty")
	}

	return &Client{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: baseURL,
	}, nil
}

// GetDirections fetches route candidates. The first returned route is the
// provider's recommended route.
func (c *Client) GetDirections(ctx context.Context, req ports.DirectionsRequest) (_ []domain.RouteCandidate, err error) {
	defer obs.Time(ctx, "maps.GetDirections")(&err)

	if req.Origin == "" || req.Destination == "" {
		return nil, fmt.Errorf("get directions: %w: origin and destination must be non-empty", domain.ErrValidation)
	}

	q := url.Values{}
	q.Set("origin", req.Origin)
	q.Set("destination", req.Destination)
	q.Set("alternatives", strconv.FormatBool(req.Alternatives))
	if !req.DepartureTime.IsZero() {
		q.Set("departure_time", strconv.FormatInt(req.DepartureTime.Unix(), 10))
	}
	for _, a := range req.Avoid {
		q.Add("avoid", a)
	}

	endpoint := c.baseURL + "/v1/directions?" + q.Encode()

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("get directions %q -> %q: %w", req.Origin, req.Destination, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("get directions: read response: %w", err)
	}

	routes, err := decodeRoutes(body)
	if err != nil {
		return nil, fmt.Errorf("get directions %q -> %q: %w", req.Origin, req.Destination, err)
	}
	return routes, nil
}

// GetRouteSafetyFactors looks up external road-safety data for a route
// geometry. Callers treat an error as a signal to fall back to heuristics.
func (c *Client) GetRouteSafetyFactors(ctx context.Context, polyline string) (_ ports.SafetyFactors, err error) {
	defer obs.Time(ctx, "maps.GetRouteSafetyFactors")(&err)

	if polyline == "" {
		return ports.SafetyFactors{}, fmt.Errorf("get safety factors: %w: empty polyline", domain.ErrValidation)
	}

	endpoint := c.baseURL + "/v1/safety-factors?" + url.Values{"polyline": {polyline}}.Encode()

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return ports.SafetyFactors{}, fmt.Errorf("get safety factors: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		SafetyScore float64 `json:"safety_score"`
		RiskFactors []struct {
			Factor  string  `json:"factor"`
			Impact  float64 `json:"impact"`
			Details string  `json:"details"`
		} `json:"risk_factors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ports.SafetyFactors{}, fmt.Errorf("get safety factors: decode response: %w", err)
	}

	out := ports.SafetyFactors{SafetyScore: payload.SafetyScore}
	for _, f := range payload.RiskFactors {
		out.RiskFactors = append(out.RiskFactors, domain.RiskFactor{
			Factor:  f.Factor,
			Impact:  f.Impact,
			Details: f.Details,
		})
	}
	return out, nil
}
