package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// foodAndDrinkCategory narrows the explore query so interest scores are
// anchored to the food-delivery vertical rather than all web searches.
const foodAndDrinkCategory = 71

// Client fetches search-interest data from the trends provider using the
// widget-token handshake: one explore call issues short-lived tokens, one
// widgetdata call per dataset redeems them.
type Client struct {
	baseURL   string
	brands    []string
	geo       string
	timeframe string
	client    *http.Client
}

// NewClient creates a trends provider client with a hard request timeout.
func NewClient(baseURL string, brands []string, geo, timeframe string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		brands:    brands,
		geo:       geo,
		timeframe: timeframe,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type widget struct {
	ID      string          `json:"id"`
	Token   string          `json:"token"`
	Request json.RawMessage `json:"request"`
}

type exploreResponse struct {
	Widgets []widget `json:"widgets"`
}

type timelinePoint struct {
	Time    string    `json:"time"`
	Value   []float64 `json:"value"`
	HasData []bool    `json:"hasData"`
}

type multilineResponse struct {
	Default struct {
		TimelineData []timelinePoint `json:"timelineData"`
	} `json:"default"`
}

type geoMapEntry struct {
	GeoName string    `json:"geoName"`
	Value   []float64 `json:"value"`
	HasData []bool    `json:"hasData"`
}

type comparedGeoResponse struct {
	Default struct {
		GeoMapData []geoMapEntry `json:"geoMapData"`
	} `json:"default"`
}

type relatedSearchesResponse struct {
	Default struct {
		RankedList []struct {
			RankedKeyword []struct {
				Query string `json:"query"`
			} `json:"rankedKeyword"`
		} `json:"rankedList"`
	} `json:"default"`
}

// FetchSnapshot performs the full handshake and returns one immutable
// snapshot. Every transport or decode failure maps to ErrProviderUnavailable
// so the caller can fall back to placeholder data.
func (c *Client) FetchSnapshot(ctx context.Context) (*Snapshot, error) {
	widgets, err := c.explore(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{
		ID:        uuid.New(),
		Geo:       c.geo,
		Timeframe: c.timeframe,
		FetchedAt: time.Now().UTC(),
		Related:   make(map[string][]string),
	}

	relatedIdx := 0
	for _, w := range widgets {
		switch w.ID {
		case "TIMESERIES":
			series, err := c.fetchTimeseries(ctx, w)
			if err != nil {
				return nil, err
			}
			snapshot.Series = *series
		case "GEO_MAP":
			regions, err := c.fetchRegions(ctx, w)
			if err != nil {
				return nil, err
			}
			snapshot.Regions = *regions
		case "RELATED_QUERIES":
			// One related-queries widget is issued per comparison item,
			// in keyword order.
			if relatedIdx >= len(c.brands) {
				continue
			}
			queries, err := c.fetchRelated(ctx, w)
			if err != nil {
				return nil, err
			}
			snapshot.Related[c.brands[relatedIdx]] = queries
			relatedIdx++
		}
	}

	if snapshot.Series.Len() == 0 {
		return nil, fmt.Errorf("%w: explore response carried no timeseries widget", ErrProviderUnavailable)
	}
	if err := snapshot.Series.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	return snapshot, nil
}

// explore requests widget tokens for the fixed brand set.
func (c *Client) explore(ctx context.Context) ([]widget, error) {
	items := make([]map[string]any, 0, len(c.brands))
	for _, brand := range c.brands {
		items = append(items, map[string]any{
			"keyword": brand,
			"geo":     c.geo,
			"time":    c.timeframe,
		})
	}
	req, err := json.Marshal(map[string]any{
		"comparisonItem": items,
		"category":       foodAndDrinkCategory,
		"property":       "",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal explore request: %v", ErrProviderUnavailable, err)
	}

	params := url.Values{}
	params.Set("hl", "en-US")
	params.Set("tz", "-330")
	params.Set("req", string(req))

	var resp exploreResponse
	if err := c.getJSON(ctx, "/explore", params, &resp); err != nil {
		return nil, err
	}
	return resp.Widgets, nil
}

func (c *Client) fetchTimeseries(ctx context.Context, w widget) (*InterestSeries, error) {
	var resp multilineResponse
	if err := c.getJSON(ctx, "/widgetdata/multiline", c.widgetParams(w), &resp); err != nil {
		return nil, err
	}

	points := resp.Default.TimelineData
	series := &InterestSeries{
		Brands: c.brands,
		Dates:  make([]time.Time, 0, len(points)),
		Values: make(map[string][]*float64, len(c.brands)),
	}

	for _, p := range points {
		unix, err := strconv.ParseInt(p.Time, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad timeline timestamp %q", ErrProviderUnavailable, p.Time)
		}
		series.Dates = append(series.Dates, time.Unix(unix, 0).UTC())

		for i, brand := range c.brands {
			var v *float64
			if i < len(p.Value) && (i >= len(p.HasData) || p.HasData[i]) {
				v = Float(p.Value[i])
			}
			series.Values[brand] = append(series.Values[brand], v)
		}
	}

	return series, nil
}

func (c *Client) fetchRegions(ctx context.Context, w widget) (*RegionInterest, error) {
	var resp comparedGeoResponse
	if err := c.getJSON(ctx, "/widgetdata/comparedgeo", c.widgetParams(w), &resp); err != nil {
		return nil, err
	}

	regions := &RegionInterest{
		Brands: c.brands,
		Scores: make(map[string]map[string]float64, len(resp.Default.GeoMapData)),
	}
	for _, entry := range resp.Default.GeoMapData {
		scores := make(map[string]float64, len(c.brands))
		for i, brand := range c.brands {
			if i < len(entry.Value) && (i >= len(entry.HasData) || entry.HasData[i]) {
				scores[brand] = entry.Value[i]
			}
		}
		regions.Scores[entry.GeoName] = scores
	}
	return regions, nil
}

func (c *Client) fetchRelated(ctx context.Context, w widget) ([]string, error) {
	var resp relatedSearchesResponse
	if err := c.getJSON(ctx, "/widgetdata/relatedsearches", c.widgetParams(w), &resp); err != nil {
		return nil, err
	}

	var queries []string
	for _, list := range resp.Default.RankedList {
		for _, kw := range list.RankedKeyword {
			queries = append(queries, kw.Query)
		}
	}
	return queries, nil
}

func (c *Client) widgetParams(w widget) url.Values {
	params := url.Values{}
	params.Set("hl", "en-US")
	params.Set("tz", "-330")
	params.Set("req", string(w.Request))
	params.Set("token", w.Token)
	return params
}

// getJSON performs one GET, strips the provider's anti-JSON-hijacking
// prefix (")]}'" plus optional comma/newline) and decodes the body.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dest any) error {
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrProviderUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrProviderUnavailable, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned status %d", ErrProviderUnavailable, path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s body: %v", ErrProviderUnavailable, path, err)
	}

	trimmed := strings.TrimLeft(string(body), ")]}',\n")
	if err := json.Unmarshal([]byte(trimmed), dest); err != nil {
		return fmt.Errorf("%w: decode %s body: %v", ErrProviderUnavailable, path, err)
	}
	return nil
}
