// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selection implements plan-constrained item selection over a menu
// catalog: filtering by text, category, and eligibility plan, a running
// selection of (item, quantity) lines, and the derived stay totals.
//
// An Engine is long-lived for one selection session and is not safe for
// concurrent use; hosts with several goroutines must serialize access.
package selection

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/IT2357/catalog-engine/pkg/types"
)

// CatalogLoader supplies the catalog for a selection session.
type CatalogLoader interface {
	LoadItems(ctx context.Context) ([]types.CatalogItem, error)
	LoadCategories(ctx context.Context) ([]types.Category, error)
}

// Summary is the displayable state of a selection for a stay.
type Summary struct {
	Session string                `json:"session" yaml:"session"`
	Plan    types.SelectionPlan   `json:"plan" yaml:"plan"`
	Lines   []types.SelectionLine `json:"lines" yaml:"lines"`
	Totals  types.Totals          `json:"totals" yaml:"totals"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// Engine holds a loaded catalog, the active plan, and the running selection.
type Engine struct {
	session    uuid.UUID
	items      []types.CatalogItem
	byID       map[string]types.CatalogItem
	categories []types.Category
	plans      []types.SelectionPlan
	plan       types.SelectionPlan
	cart       *Selection
	log        *zap.Logger
}

// NewEngine loads the catalog once and starts a session on cfg's default
// plan. Loader failures are returned as *CatalogUnavailableError.
func NewEngine(ctx context.Context, loader CatalogLoader, cfg types.SelectionConfig, opts ...Option) (*Engine, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid selection config: %w", err)
	}

	e := &Engine{
		session: uuid.New(),
		plans:   cfg.Plans,
		cart:    NewSelection(),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With(zap.String("session", e.session.String()))

	items, err := loader.LoadItems(ctx)
	if err != nil {
		return nil, &CatalogUnavailableError{Part: "items", Err: err}
	}
	categories, err := loader.LoadCategories(ctx)
	if err != nil {
		return nil, &CatalogUnavailableError{Part: "categories", Err: err}
	}

	e.items = items
	e.categories = categories
	e.byID = make(map[string]types.CatalogItem, len(items))
	for _, item := range items {
		e.byID[item.ID] = item
	}
	e.plan, _ = e.lookupPlan(cfg.DefaultPlan)

	e.log.Info("selection session started",
		zap.Int("items", len(items)),
		zap.Int("categories", len(categories)),
		zap.String("plan", e.plan.ID),
	)
	return e, nil
}

// Session returns the session identifier.
func (e *Engine) Session() string { return e.session.String() }

// Plans returns the configured plans.
func (e *Engine) Plans() []types.SelectionPlan { return e.plans }

// Plan returns the active plan.
func (e *Engine) Plan() types.SelectionPlan { return e.plan }

// Categories returns every configured category.
func (e *Engine) Categories() []types.Category { return e.categories }

// SetPlan switches the active plan. Existing lines are kept.
func (e *Engine) SetPlan(planID string) error {
	p, err := e.lookupPlan(planID)
	if err != nil {
		return err
	}
	e.plan = p
	e.log.Debug("plan changed", zap.String("plan", p.ID))
	return nil
}

func (e *Engine) lookupPlan(planID string) (types.SelectionPlan, error) {
	if planID == "" {
		return e.plan, nil
	}
	for _, p := range e.plans {
		if p.ID == planID {
			return p, nil
		}
	}
	return types.SelectionPlan{}, fmt.Errorf("%w: %q", ErrUnknownPlan, planID)
}

// Filtered returns the items matching every filter.
func (e *Engine) Filtered(f Filter) ([]types.CatalogItem, error) {
	plan, err := e.lookupPlan(f.PlanID)
	if err != nil {
		return nil, err
	}
	return FilterItems(e.items, plan, f.Term, f.CategoryID), nil
}

// AvailableCategories returns the categories holding at least one eligible
// item under planID ("" for the active plan).
func (e *Engine) AvailableCategories(planID string) ([]types.Category, error) {
	plan, err := e.lookupPlan(planID)
	if err != nil {
		return nil, err
	}
	return AvailableCategories(e.items, e.categories, plan), nil
}

// Increment adds one unit of the catalog item. The item must be available
// and eligible under the active plan.
func (e *Engine) Increment(itemID string) error {
	item, ok := e.byID[itemID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownItem, itemID)
	}
	if !item.Available || !MatchesPlan(item, e.plan) {
		return fmt.Errorf("%w: %q under plan %q", ErrNotEligible, itemID, e.plan.ID)
	}
	e.cart.Increment(item)
	return nil
}

// Decrement removes one unit of the item; absent items are ignored.
func (e *Engine) Decrement(itemID string) {
	e.cart.Decrement(itemID)
}

// RemoveAll deletes the item's line.
func (e *Engine) RemoveAll(itemID string) {
	e.cart.RemoveAll(itemID)
}

// Lines returns the current selection lines.
func (e *Engine) Lines() []types.SelectionLine {
	return e.cart.Lines()
}

// Quantity returns the selected quantity of an item.
func (e *Engine) Quantity(itemID string) int {
	return e.cart.Quantity(itemID)
}

// Totals computes the stay totals of the current selection.
func (e *Engine) Totals(nights, guests int) (types.Totals, error) {
	return e.cart.Totals(nights, guests)
}

// Confirm returns the selected lines, or ErrEmptySelection.
func (e *Engine) Confirm() ([]types.SelectionLine, error) {
	lines, err := e.cart.Confirm()
	if err != nil {
		return nil, err
	}
	e.log.Info("selection confirmed", zap.Int("lines", len(lines)))
	return lines, nil
}

// Summary returns the lines and totals for a stay.
func (e *Engine) Summary(nights, guests int) (Summary, error) {
	totals, err := e.Totals(nights, guests)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Session: e.Session(),
		Plan:    e.plan,
		Lines:   e.Lines(),
		Totals:  totals,
	}, nil
}
