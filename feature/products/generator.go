package products

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// categoryCount bounds generated category ids to 1..categoryCount.
const categoryCount = 5

// ModificationOptions controls how ModifyProducts derives an incoming snapshot.
type ModificationOptions struct {
	// UpdateCount is the number of kept products to change.
	UpdateCount int `json:"update_count"`
	// InsertCount is the number of new products appended.
	InsertCount int `json:"insert_count"`
	// DeleteCount is the number of products dropped, capped at a third of the base.
	DeleteCount int `json:"delete_count"`
	// IncludeOlderUpdates gives some updates a timestamp older than the base.
	IncludeOlderUpdates bool `json:"include_older_updates"`
	// ShuffleOrder shuffles the returned snapshot.
	ShuffleOrder bool `json:"shuffle_order"`
}

// DefaultModificationOptions mirrors a small mixed change set.
func DefaultModificationOptions() ModificationOptions {
	return ModificationOptions{UpdateCount: 10, InsertCount: 5, DeleteCount: 3}
}

// Scenario names a canned change set used by the demo command.
type Scenario string

const (
	ScenarioOnlyUpdates Scenario = "only-updates"
	ScenarioOnlyInserts Scenario = "only-inserts"
	ScenarioOnlyDeletes Scenario = "only-deletes"
	ScenarioMixed       Scenario = "mixed"
	ScenarioLarge       Scenario = "large"
	ScenarioNoChanges   Scenario = "no-changes"
)

// Scenarios returns every scenario in a stable order.
func Scenarios() []Scenario {
	return []Scenario{
		ScenarioOnlyUpdates,
		ScenarioOnlyInserts,
		ScenarioOnlyDeletes,
		ScenarioMixed,
		ScenarioLarge,
		ScenarioNoChanges,
	}
}

// ParseScenario converts a CLI value into a Scenario.
func ParseScenario(s string) (Scenario, error) {
	name := Scenario(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	if slices.Contains(Scenarios(), name) {
		return name, nil
	}
	return "", fmt.Errorf("unknown scenario %q", s)
}

// Generator produces demo snapshots. Timestamps are derived from Now so that runs
// can be reproduced with a fixed clock and seed.
type Generator struct {
	rng *rand.Rand
	now time.Time
}

// NewGenerator creates a generator. A zero now uses the current UTC time.
func NewGenerator(rng *rand.Rand, now time.Time) *Generator {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return &Generator{rng: rng, now: now.Truncate(time.Second)}
}

// NewSeededGenerator creates a generator from a single seed.
func NewSeededGenerator(seed uint64) *Generator {
	return NewGenerator(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), time.Time{})
}

// GenerateProducts returns n products with ids 1..n.
func GenerateProducts(n int, rng *rand.Rand) []Product {
	return NewGenerator(rng, time.Time{}).Products(n)
}

// ModifyProducts derives an incoming snapshot from base.
func ModifyProducts(base []Product, opts ModificationOptions, rng *rand.Rand) []Product {
	return NewGenerator(rng, time.Time{}).Modify(base, opts)
}

// BuildScenario derives the incoming snapshot of a canned scenario from base.
func BuildScenario(base []Product, scenario Scenario, rng *rand.Rand) []Product {
	return NewGenerator(rng, time.Time{}).Scenario(base, scenario)
}

// Products returns n products with ids 1..n.
func (g *Generator) Products(n int) []Product {
	products := make([]Product, 0, max(n, 0))
	for id := 1; id <= n; id++ {
		products = append(products, Product{
			ID:           id,
			Name:         fmt.Sprintf("Product %d", id),
			Price:        g.price(100),
			CategoryID:   g.category(),
			LastModified: g.minutesAgo(1000),
		})
	}
	return products
}

// Modify derives an incoming snapshot from base. Every updated product differs from
// its base in content, so content based policies see it as changed.
func (g *Generator) Modify(base []Product, opts ModificationOptions) []Product {
	if len(base) == 0 {
		return []Product{}
	}

	deleteCount := clamp(opts.DeleteCount, len(base)/3)
	deleted := make(map[int]struct{}, deleteCount)
	for _, i := range g.rng.Perm(len(base))[:deleteCount] {
		deleted[base[i].ID] = struct{}{}
	}

	kept := make([]Product, 0, len(base)-deleteCount+max(opts.InsertCount, 0))
	for _, p := range base {
		if _, gone := deleted[p.ID]; !gone {
			kept = append(kept, p)
		}
	}

	updateCount := clamp(opts.UpdateCount, len(kept))
	for _, i := range g.rng.Perm(len(kept))[:updateCount] {
		kept[i] = g.update(kept[i], opts.IncludeOlderUpdates)
	}

	maxID := 0
	for _, p := range base {
		maxID = max(maxID, p.ID)
	}
	for i := 1; i <= opts.InsertCount; i++ {
		id := maxID + i
		kept = append(kept, Product{
			ID:           id,
			Name:         fmt.Sprintf("New Product %d", id),
			Price:        g.price(150),
			CategoryID:   g.category(),
			LastModified: g.minutesAgo(120),
		})
	}

	if opts.ShuffleOrder {
		g.rng.Shuffle(len(kept), func(i, j int) { kept[i], kept[j] = kept[j], kept[i] })
	}
	return kept
}

// Scenario derives the incoming snapshot of a canned scenario from base.
func (g *Generator) Scenario(base []Product, scenario Scenario) []Product {
	switch scenario {
	case ScenarioOnlyUpdates:
		return g.Modify(base, ModificationOptions{UpdateCount: min(10, len(base)/2)})
	case ScenarioOnlyInserts:
		return g.Modify(base, ModificationOptions{InsertCount: 15})
	case ScenarioOnlyDeletes:
		return g.Modify(base, ModificationOptions{DeleteCount: min(5, len(base)/4)})
	case ScenarioMixed:
		return g.Modify(base, ModificationOptions{UpdateCount: 8, InsertCount: 5, DeleteCount: 3, IncludeOlderUpdates: true})
	case ScenarioLarge:
		return g.Modify(base, ModificationOptions{
			UpdateCount:  len(base) / 3,
			InsertCount:  25,
			DeleteCount:  len(base) / 4,
			ShuffleOrder: true,
		})
	case ScenarioNoChanges:
		return slices.Clone(base)
	default:
		return g.Modify(base, DefaultModificationOptions())
	}
}

func (g *Generator) update(p Product, allowOlder bool) Product {
	next := p
	switch g.rng.IntN(4) {
	case 0:
		// Price moves by up to 20 in either direction, never to the same value.
		change := g.price(20)
		if g.rng.IntN(2) == 0 {
			change = change.Neg()
		}
		if change.IsZero() {
			change = decimal.New(1, -2)
		}
		next.Price = decimal.Max(decimal.New(1, -2), p.Price.Add(change))
		if next.Price.Equal(p.Price) {
			next.Price = p.Price.Add(decimal.New(1, -2))
		}
		next.LastModified = g.minutesAgo(60)
	case 1:
		next.Name = p.Name + " (Updated)"
		next.LastModified = g.minutesAgo(30)
	case 2:
		next.CategoryID = g.otherCategory(p.CategoryID)
		next.LastModified = g.minutesAgo(45)
	default:
		next.Name = "Enhanced " + p.Name
		factor := decimal.NewFromFloat(0.9 + g.rng.Float64()*0.4)
		next.Price = p.Price.Mul(factor).Round(2)
		next.CategoryID = g.otherCategory(p.CategoryID)
		next.LastModified = g.minutesAgo(15)
	}

	if allowOlder && p.LastModified != nil && g.rng.Float64() < 0.3 {
		older := p.LastModified.Add(-time.Duration(1+g.rng.IntN(47)) * time.Hour)
		next.LastModified = &older
	}
	return next
}

// price returns a random amount in [0, upper) with two decimal places.
func (g *Generator) price(upper float64) decimal.Decimal {
	return decimal.NewFromFloat(g.rng.Float64() * upper).Round(2)
}

func (g *Generator) category() int {
	return 1 + g.rng.IntN(categoryCount)
}

func (g *Generator) otherCategory(current int) int {
	next := 1 + g.rng.IntN(categoryCount-1)
	if next >= current {
		next++
	}
	return next
}

func (g *Generator) minutesAgo(upper int) *time.Time {
	t := g.now.Add(-time.Duration(g.rng.IntN(upper)) * time.Minute)
	return &t
}

func clamp(n, upper int) int {
	return max(0, min(n, upper))
}
