// Package registry holds pluggable GEO audit checks and runs them with
// per-check failure isolation.
package registry

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrDuplicateCheck is returned when a check name is already registered.
	ErrDuplicateCheck = errors.New("duplicate check")
	// ErrNotCheck is returned when a value does not provide the check capability set.
	ErrNotCheck = errors.New("value does not implement the check capability")
)

// DefaultMaxScore is the MaxScore of a CheckResult built with NewResult.
const DefaultMaxScore = 10

// Options carries free-form keyword options for a check run.
type Options map[string]any

// CheckResult is the outcome of a single check.
type CheckResult struct {
	Name     string         `json:"name"`
	Score    int            `json:"score"`
	MaxScore int            `json:"max_score"`
	Passed   bool           `json:"passed"`
	Details  map[string]any `json:"details"`
	Message  string         `json:"message"`
}

// NewResult returns a CheckResult with default values for name.
func NewResult(name string) CheckResult {
	return CheckResult{
		Name:     name,
		MaxScore: DefaultMaxScore,
		Details:  map[string]any{},
	}
}

// Clamp keeps Score within [0, MaxScore].
func (r *CheckResult) Clamp() {
	if r.MaxScore < 0 {
		r.MaxScore = 0
	}
	if r.Score < 0 {
		r.Score = 0
	}
	if r.Score > r.MaxScore {
		r.Score = r.MaxScore
	}
	if r.Details == nil {
		r.Details = map[string]any{}
	}
}

// Check is a named audit capability. doc may be nil when the page could not
// be parsed.
type Check interface {
	Name() string
	Description() string
	MaxScore() int
	Run(ctx context.Context, target string, doc *goquery.Document, opts Options) (CheckResult, error)
}

// CheckRegistry maps unique check names to checks, keeping registration order.
type CheckRegistry struct {
	mu     sync.RWMutex
	order  []string
	checks map[string]Check
	loaded bool
}

// New returns an empty CheckRegistry.
func New() *CheckRegistry {
	return &CheckRegistry{checks: map[string]Check{}}
}

// Register adds c. It fails with ErrNotCheck when c is nil or unnamed and with
// ErrDuplicateCheck when the name is taken.
func (r *CheckRegistry) Register(c Check) error {
	if isNil(c) {
		return fmt.Errorf("register: %w: nil check", ErrNotCheck)
	}
	name, ok := safeName(c)
	if !ok {
		return fmt.Errorf("register %T: %w: Name panicked", c, ErrNotCheck)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("register %T: %w: empty name", c, ErrNotCheck)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.checks[name]; ok {
		return fmt.Errorf("register %q: %w: already registered", name, ErrDuplicateCheck)
	}
	r.checks[name] = c
	r.order = append(r.order, name)
	return nil
}

// isNil also catches typed nil pointers wrapped in a non-nil interface.
func isNil(c Check) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func safeName(c Check) (name string, ok bool) {
	defer func() {
		if recover() != nil {
			name, ok = "", false
		}
	}()
	return c.Name(), true
}

// Unregister removes the named check. Unknown names are ignored.
func (r *CheckRegistry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.checks[name]; !ok {
		return
	}
	delete(r.checks, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
}

// Get returns the named check.
func (r *CheckRegistry) Get(name string) (Check, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.checks[name]
	return c, ok
}

// All returns a copy of the registered checks in registration order.
func (r *CheckRegistry) All() []Check {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Check, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.checks[n])
	}
	return out
}

// Names returns the registered names in registration order.
func (r *CheckRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string{}, r.order...)
}

// Clear removes every check and allows entry points to be loaded again.
func (r *CheckRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks = map[string]Check{}
	r.order = nil
	r.loaded = false
}

// RunAll runs every check in registration order. A check that returns an
// error or panics yields a zero score result; it never aborts the batch.
func (r *CheckRegistry) RunAll(ctx context.Context, target string, doc *goquery.Document, opts Options) []CheckResult {
	checks := r.All()
	results := make([]CheckResult, 0, len(checks))
	for _, c := range checks {
		results = append(results, runOne(ctx, c, target, doc, opts))
	}
	return results
}

func runOne(ctx context.Context, c Check, target string, doc *goquery.Document, opts Options) (res CheckResult) {
	defer func() {
		if p := recover(); p != nil {
			res = failed(c, fmt.Errorf("panic: %v", p))
		}
	}()

	res, err := c.Run(ctx, target, doc, opts)
	if err != nil {
		return failed(c, err)
	}
	if res.Name == "" {
		res.Name = c.Name()
	}
	if res.MaxScore == 0 {
		res.MaxScore = c.MaxScore()
	}
	res.Clamp()
	return res
}

func failed(c Check, err error) CheckResult {
	res := NewResult(c.Name())
	if m := c.MaxScore(); m > 0 {
		res.MaxScore = m
	}
	res.Message = fmt.Sprintf("check failed: %v", err)
	res.Details["error"] = err.Error()
	return res
}

// EntryPoint supplies checks discovered at runtime.
type EntryPoint func() []Check

var (
	epMu        sync.RWMutex
	entryPoints = map[string]EntryPoint{}
)

// RegisterEntryPoint publishes a named group of checks for LoadEntryPoints.
// Registering the same name again replaces the previous entry point.
func RegisterEntryPoint(name string, ep EntryPoint) {
	if name == "" || ep == nil {
		return
	}
	epMu.Lock()
	defer epMu.Unlock()
	entryPoints[name] = ep
}

// ListEntryPoints returns the published entry point names, sorted.
func ListEntryPoints() []string {
	epMu.RLock()
	defer epMu.RUnlock()
	out := make([]string, 0, len(entryPoints))
	for k := range entryPoints {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// LoadEntryPoints registers the checks of every published entry point once.
// It returns the number of checks added; later calls return 0 without
// consulting the entry points. Checks whose names are taken are skipped and
// reported in the returned error.
func (r *CheckRegistry) LoadEntryPoints() (int, error) {
	r.mu.Lock()
	if r.loaded {
		r.mu.Unlock()
		return 0, nil
	}
	r.loaded = true
	r.mu.Unlock()

	var errs []error
	loaded := 0
	for _, name := range ListEntryPoints() {
		epMu.RLock()
		ep := entryPoints[name]
		epMu.RUnlock()

		for _, c := range ep() {
			if err := r.Register(c); err != nil {
				errs = append(errs, fmt.Errorf("entry point %q: %w", name, err))
				continue
			}
			loaded++
		}
	}
	return loaded, errors.Join(errs...)
}
