// Package query keeps the on-screen search/category state, the address bar,
// and in-flight catalog requests mutually consistent.
package query

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/estorelabs/storefront/internal/catalog"
	"github.com/estorelabs/storefront/internal/navigation"
	pkgerrors "github.com/estorelabs/storefront/pkg/errors"
	"github.com/estorelabs/storefront/pkg/logger"
	"github.com/estorelabs/storefront/pkg/metrics"
)

// Mode is the controller's exclusive operating state.
type Mode string

const (
	ModeCategory Mode = "category"
	ModeSearch   Mode = "search"
)

const maxSuggestions = 5

// CatalogClient is the consumer-side surface the controller needs.
type CatalogClient interface {
	QueryByFilter(ctx context.Context, text string, mode catalog.FilterMode) ([]catalog.Product, error)
	ListAll(ctx context.Context) ([]catalog.Product, error)
	ListCategories(ctx context.Context) ([]catalog.Category, error)
}

// Navigator routes fetch failures to a generic failure view.
type Navigator interface {
	ShowFailure(message string)
}

// State is the controller's observable snapshot. Mode determines which of
// Category/SearchText is authoritative; the other always holds its default.
type State struct {
	Mode        Mode
	Category    string
	SearchText  string
	Suggestions []string
	Results     []catalog.Product
	RequestSeq  uint64
}

// Controller is the two-state query machine. All mutation happens under one
// mutex; fetches run in goroutines and are filtered by sequence number at
// resolution, never cancelled.
type Controller struct {
	mu    sync.Mutex
	state State

	activated          bool
	suppressSuggestion bool
	suggestionSeq      uint64

	client  CatalogClient
	bar     navigation.AddressBar
	nav     Navigator
	logg    *logger.Logger
	metrics *metrics.QueryMetrics

	inflight sync.WaitGroup
}

// NewController builds a query controller. Metrics may be nil.
func NewController(client CatalogClient, bar navigation.AddressBar, nav Navigator, logg *logger.Logger, queryMetrics *metrics.QueryMetrics) (*Controller, error) {
	if client == nil {
		return nil, fmt.Errorf("catalog client required")
	}
	if bar == nil {
		return nil, fmt.Errorf("address bar required")
	}
	if nav == nil {
		return nil, fmt.Errorf("navigator required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Controller{
		state:   State{Mode: ModeCategory, Category: catalog.DefaultCategory},
		client:  client,
		bar:     bar,
		nav:     nav,
		logg:    logg,
		metrics: queryMetrics,
	}, nil
}

// Activate seeds the controller from the address bar: a search parameter wins
// over a category parameter, which wins over the Category/"All" default. A
// fetch is dispatched only when the resolved state differs from the current
// resting state, so redundant activations never duplicate fetches.
func (c *Controller) Activate(ctx context.Context) {
	params := c.bar.Query()

	mode := ModeCategory
	value := catalog.DefaultCategory
	if search := params.Get(navigation.ParamSearch); search != "" {
		mode = ModeSearch
		value = search
	} else if category := params.Get(navigation.ParamCategory); category != "" {
		value = category
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.activated && c.atRest(mode, value) {
		c.logg.Debug(c.logg.WithQueryMode(ctx, string(mode)), "query: redundant activation, fetch skipped")
		return
	}
	c.activated = true
	c.commitLocked(ctx, mode, value)
}

// SelectCategory enters Category mode with the given category. Search text
// and suggestions reset; the address bar is rewritten without growing
// history.
func (c *Controller) SelectCategory(ctx context.Context, category string) {
	if category == "" {
		category = catalog.DefaultCategory
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activated = true
	c.commitLocked(ctx, ModeCategory, category)
}

// CommitSearch enters Search mode with the given text as the active query.
// Empty text is rejected as a no-op.
func (c *Controller) CommitSearch(ctx context.Context, text string) {
	if strings.TrimSpace(text) == "" {
		rejection := pkgerrors.New(pkgerrors.CodeLogic, "query: empty search commit")
		c.logg.Warn(ctx, rejection.Error())
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activated = true
	c.commitLocked(ctx, ModeSearch, text)
}

// AcceptSuggestion commits the accepted value as a search and suppresses the
// suggestion lookup for exactly one following input cycle, so the accepted
// value does not re-trigger its own list.
func (c *Controller) AcceptSuggestion(ctx context.Context, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activated = true
	c.suppressSuggestion = true
	c.commitLocked(ctx, ModeSearch, text)
}

// InputChanged reacts to an uncommitted keystroke: it dispatches an
// asynchronous suggestion lookup unless suppressed for this cycle.
func (c *Controller) InputChanged(ctx context.Context, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.suppressSuggestion {
		c.suppressSuggestion = false
		return
	}
	if strings.TrimSpace(text) == "" {
		c.state.Suggestions = nil
		return
	}

	c.suggestionSeq++
	seq := c.suggestionSeq
	c.metrics.IncSuggestionLookup()
	c.inflight.Add(1)
	go c.lookupSuggestions(ctx, seq, text)
}

// Snapshot returns a copy of the observable state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := c.state
	state.Suggestions = append([]string(nil), c.state.Suggestions...)
	state.Results = append([]catalog.Product(nil), c.state.Results...)
	return state
}

// Wait blocks until every dispatched lookup has resolved. Superseded
// responses still resolve; they are just discarded.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

func (c *Controller) atRest(mode Mode, value string) bool {
	if c.state.Mode != mode {
		return false
	}
	if mode == ModeSearch {
		return c.state.SearchText == value
	}
	return c.state.Category == value
}

// commitLocked finalizes a mode/value pair: state fields flip atomically,
// the address bar mirrors the committed value, and a tagged fetch departs.
func (c *Controller) commitLocked(ctx context.Context, mode Mode, value string) {
	params := url.Values{}
	switch mode {
	case ModeSearch:
		c.state.Mode = ModeSearch
		c.state.SearchText = value
		c.state.Category = catalog.DefaultCategory
		params.Set(navigation.ParamSearch, value)
	case ModeCategory:
		c.state.Mode = ModeCategory
		c.state.Category = value
		c.state.SearchText = ""
		if value != catalog.DefaultCategory {
			params.Set(navigation.ParamCategory, value)
		}
	}
	c.state.Suggestions = nil
	c.bar.Replace(params)

	c.state.RequestSeq++
	seq := c.state.RequestSeq
	c.metrics.IncDispatched(string(mode))
	c.logg.Debug(c.logg.WithQueryMode(ctx, string(mode)), "query: fetch dispatched")

	c.inflight.Add(1)
	go c.fetch(ctx, seq, mode, value)
}

// fetch resolves a committed lookup. A response applies only if its sequence
// is still the highest dispatched; anything else is discarded, which keeps
// the displayed results consistent under arbitrary network reordering.
func (c *Controller) fetch(ctx context.Context, seq uint64, mode Mode, value string) {
	defer c.inflight.Done()

	filterMode := catalog.FilterCategory
	if mode == ModeSearch {
		filterMode = catalog.FilterSearch
	}

	start := time.Now()
	products, err := c.client.QueryByFilter(ctx, value, filterMode)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.state.RequestSeq {
		c.metrics.IncStale(string(mode))
		c.logg.Debug(c.logg.WithQueryMode(ctx, string(mode)), "query: stale response discarded")
		return
	}
	c.metrics.ObserveFetch(string(mode), time.Since(start))

	if err != nil {
		c.metrics.IncFailure(string(mode))
		c.logg.Error(c.logg.WithQueryMode(ctx, string(mode)), "query: fetch failed", err)
		c.nav.ShowFailure(pkgerrors.FailureMessage(err))
		return
	}
	if mode == ModeSearch && len(products) == 0 {
		c.metrics.IncFailure(string(mode))
		c.nav.ShowFailure(pkgerrors.FailureMessage(pkgerrors.New(pkgerrors.CodeNoResults, "")))
		return
	}

	c.state.Results = products
}

// lookupSuggestions unions matching product and category names, case
// insensitively, deduplicates, and truncates to five. Lookup failures only
// clear the list: suggestions are advisory, not user-initiated fetches.
func (c *Controller) lookupSuggestions(ctx context.Context, seq uint64, text string) {
	defer c.inflight.Done()

	lower := strings.ToLower(text)

	products, err := c.client.ListAll(ctx)
	if err != nil {
		c.applySuggestions(ctx, seq, nil)
		return
	}
	categories, err := c.client.ListCategories(ctx)
	if err != nil {
		c.applySuggestions(ctx, seq, nil)
		return
	}

	seen := map[string]struct{}{}
	suggestions := []string{}
	add := func(name string) {
		if len(suggestions) >= maxSuggestions {
			return
		}
		if !strings.Contains(strings.ToLower(name), lower) {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		suggestions = append(suggestions, name)
	}
	for _, p := range products {
		add(p.Name)
	}
	for _, cat := range categories {
		add(cat.Name)
	}

	c.applySuggestions(ctx, seq, suggestions)
}

func (c *Controller) applySuggestions(ctx context.Context, seq uint64, suggestions []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.suggestionSeq {
		return
	}
	c.state.Suggestions = suggestions
}
