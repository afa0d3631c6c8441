package spoonacular

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cookme/web/internal/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	methodFindByIngredients = "findByIngredients"
	methodInformation       = "%d/information"

	endpointSearch      = "search"
	endpointInformation = "information"

	userAgent = "CookMe/1.0"

	// maxResponseBytes caps how much of an upstream body is read
	maxResponseBytes = 5 << 20
)

// Client handles communication with the Spoonacular recipe API
type Client struct {
	httpClient         *http.Client
	apiKey             string
	baseURL            string
	instructionWorkers int
	logger             logrus.FieldLogger
	debug              bool
}

// Option configures a Client
type Option func(*Client)

// WithTimeout bounds every upstream call
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithInstructionWorkers sets how many instruction lookups may run at once.
// One worker keeps the lookups strictly sequential in recipe order.
func WithInstructionWorkers(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.instructionWorkers = n
		}
	}
}

// WithLogger sets the logger used for upstream calls
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Spoonacular API client
func NewClient(apiKey, baseURL string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: Spoonacular API key is required", domain.ErrConfiguration)
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		apiKey:             apiKey,
		baseURL:            baseURL,
		instructionWorkers: 1,
		logger:             logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithField("component", "spoonacular")

	return c, nil
}

// SetDebug enables dumping of upstream response bodies
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// BuildRequestURL composes a GET URL from the base endpoint, the method path
// and the URL-encoded params plus the mandatory API key. params is not modified.
func BuildRequestURL(baseURL, method, apiKey string, params url.Values) (string, error) {
	if apiKey == "" {
		return "", fmt.Errorf("%w: Spoonacular API key is required", domain.ErrConfiguration)
	}

	query := url.Values{}
	for key, values := range params {
		query[key] = append([]string(nil), values...)
	}
	query.Set("apiKey", apiKey)

	endpoint := strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(method, "/")
	return endpoint + "?" + query.Encode(), nil
}

// JoinIngredients builds the ingredient parameter. Entries are passed through
// unchanged, so a single pre-joined string stays as it is.
func JoinIngredients(ingredients []string) string {
	return strings.Join(ingredients, ",")
}

// SearchByIngredients looks up recipes using the given ingredients. It never
// returns an error: an unreachable API or an unreadable answer both produce an
// empty recipe list, with the reason recorded in the result outcome.
func (c *Client) SearchByIngredients(ctx context.Context, ingredients []string, fetchInstructions bool) domain.SearchResult {
	param := JoinIngredients(ingredients)
	log := c.logger.WithField("ingredients", param)

	reqURL, err := BuildRequestURL(c.baseURL, methodFindByIngredients, c.apiKey, url.Values{"ingredients": {param}})
	if err != nil {
		log.WithError(err).Error("cannot build search request")
		return failedSearch(domain.OutcomeUpstreamUnavailable, err)
	}

	body, err := c.fetch(ctx, endpointSearch, reqURL)
	if err != nil {
		log.WithError(err).Warn("no response from recipe search")
		return failedSearch(domain.OutcomeUpstreamUnavailable, err)
	}

	recipes, err := decodeSearchResponse(body)
	if err != nil {
		log.WithError(err).Warn("unreadable recipe search response")
		return failedSearch(domain.OutcomeMalformedResponse, err)
	}
	log.WithField("count", len(recipes)).Info("recipes loaded")

	if len(recipes) == 0 {
		return domain.SearchResult{Recipes: []domain.Recipe{}, Outcome: domain.OutcomeNone}
	}

	if fetchInstructions {
		log.Info("get instructions")
		c.attachInstructions(ctx, recipes)
	}

	return domain.SearchResult{Recipes: recipes, Outcome: domain.OutcomeFound}
}

// attachInstructions fetches instructions for every recipe. Results are
// written by index so recipe order is unchanged.
func (c *Client) attachInstructions(ctx context.Context, recipes []domain.Recipe) {
	var g errgroup.Group
	g.SetLimit(c.instructionWorkers)

	for i := range recipes {
		g.Go(func() error {
			recipes[i].Instructions = c.FetchInstructions(ctx, recipes[i].ID)
			return nil
		})
	}

	// FetchInstructions never fails
	_ = g.Wait()
}

// FetchInstructions retrieves the cooking instructions of a single recipe.
// It returns an empty string when they are unavailable for any reason.
func (c *Client) FetchInstructions(ctx context.Context, recipeID int64) string {
	log := c.logger.WithField("recipe_id", recipeID)
	log.Info("get instructions for recipe")

	reqURL, err := BuildRequestURL(c.baseURL, fmt.Sprintf(methodInformation, recipeID), c.apiKey, nil)
	if err != nil {
		log.WithError(err).Error("cannot build information request")
		return ""
	}

	body, err := c.fetch(ctx, endpointInformation, reqURL)
	if err != nil {
		log.WithError(err).Warn("no recipe")
		return ""
	}

	instructions, err := decodeInstructions(body)
	if err != nil {
		log.WithError(err).Warn("unreadable recipe information")
		return ""
	}
	if instructions == "" {
		log.Warn("no instructions included")
	}

	return instructions
}

// fetch executes a GET request. Any transport failure or non-2xx status is
// returned as ErrUpstreamUnavailable.
func (c *Client) fetch(ctx context.Context, endpoint, reqURL string) ([]byte, error) {
	log := c.logger.WithField("url", redactAPIKey(reqURL))
	log.Info("calling recipe API")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		upstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	upstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		upstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		log.WithError(err).Error("recipe API request failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := readLimitedBody(resp.Body, maxResponseBytes)
	if err != nil {
		upstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upstreamRequestsTotal.WithLabelValues(endpoint, "status_"+strconv.Itoa(resp.StatusCode)).Inc()
		log.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   truncate(string(body), 200),
		}).Error("recipe API error")
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	upstreamRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	c.debugLog(body)
	return body, nil
}

func (c *Client) debugLog(body []byte) {
	if !c.debug {
		return
	}
	c.logger.Debugf("response body:\n%s", prettyJSON(body))
}

func failedSearch(outcome domain.SearchOutcome, err error) domain.SearchResult {
	return domain.SearchResult{Recipes: []domain.Recipe{}, Outcome: outcome, Err: err}
}

func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// redactAPIKey hides the API key of a request URL before it is logged
func redactAPIKey(reqURL string) string {
	u, err := url.Parse(reqURL)
	if err != nil {
		return "<invalid url>"
	}
	q := u.Query()
	if q.Has("apiKey") {
		q.Set("apiKey", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
