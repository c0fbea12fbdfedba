// Package catalog fetches folktale records from the KCISA public-data API and
// normalizes them into Story values.
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/aktagon/folktale-teller/internal/logger"
)

const (
	// DefaultBaseURL is the KCISA folktale listing endpoint.
	DefaultBaseURL = "https://api.kcisa.kr/openapi/service/rest/meta14/getNLCF031801"
	// DefaultTimeout bounds a single catalog request.
	DefaultTimeout = 30 * time.Second
	// DefaultPageSize is the number of rows requested per page.
	DefaultPageSize = 50
)

// RawItem is one <item> element flattened to child tag -> text.
type RawItem map[string]string

// Page is a successful catalog response.
type Page struct {
	Items      []RawItem
	TotalCount int
	ResultCode string
	ResultMsg  string
	PageNo     int
	NumOfRows  int
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// StrictHeader rejects responses without a resultCode element.
	StrictHeader bool
	HTTPClient   *http.Client
	Logger       logger.Logger
}

// Client talks to the catalog service. It holds no mutable state.
type Client struct {
	apiKey  string
	baseURL string
	strict  bool
	client  *http.Client
	log     logger.Logger
}

// NewClient creates a catalog client for the given service key.
func NewClient(apiKey string, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: opts.BaseURL,
		strict:  opts.StrictHeader,
		client:  opts.HTTPClient,
		log:     opts.Logger,
	}
}

// Fetch requests one page of folktale records. Every failure is a *Failure.
func (c *Client) Fetch(ctx context.Context, pageNo, numOfRows int) (*Page, error) {
	if c.apiKey == "" {
		return nil, &Failure{Code: CodeNoAPIKey, Message: "catalog service key is not set"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, &Failure{Code: CodeException, Message: err.Error(), Err: err}
	}

	q := req.URL.Query()
	q.Set("serviceKey", c.apiKey)
	q.Set("pageNo", strconv.Itoa(pageNo))
	q.Set("numOfRows", strconv.Itoa(numOfRows))
	req.URL.RawQuery = q.Encode()

	c.log.Debug("Fetching catalog page",
		logger.Int("page_no", pageNo),
		logger.Int("num_of_rows", numOfRows),
	)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &Failure{Code: CodeException, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("Catalog response",
		logger.Int("status", resp.StatusCode),
		logger.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, &Failure{
			Code:    fmt.Sprintf("%s%d", httpCodePrefix, resp.StatusCode),
			Message: http.StatusText(resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Failure{Code: CodeException, Message: err.Error(), Err: err}
	}

	page, err := parseResponse(body, c.strict)
	if err != nil {
		return nil, err
	}
	page.PageNo = pageNo
	page.NumOfRows = numOfRows

	c.log.Info("Fetched catalog page",
		logger.Int("page_no", pageNo),
		logger.Int("items", page.TotalCount),
	)
	return page, nil
}

// FetchStories fetches one page and returns its working set.
func (c *Client) FetchStories(ctx context.Context, pageNo, numOfRows int) ([]Story, error) {
	page, err := c.Fetch(ctx, pageNo, numOfRows)
	if err != nil {
		return nil, err
	}

	stories, err := BuildWorkingSet(page.Items)
	if err != nil {
		return nil, err
	}

	if dropped := len(page.Items) - len(stories); dropped > 0 {
		c.log.Debug("Dropped short stories", logger.Int("dropped", dropped))
	}
	return stories, nil
}
