package histogram

import (
	"fmt"
	"math"
	"sort"
)

// Key is the lower bound of a bucket.
type Key int

// Rule maps the open interval (Lower, Upper) to Key. The last rule of a
// layout normally has Upper set to +Inf.
type Rule struct {
	Lower float64
	Upper float64
	Key   Key
}

// Contains reports whether v falls strictly inside the rule's interval. An
// infinite upper bound also admits +Inf.
func (r Rule) Contains(v float64) bool {
	return v > r.Lower && (v < r.Upper || math.IsInf(r.Upper, 1))
}

// Layout is an ordered, non-overlapping table of bucket rules.
type Layout struct {
	rules []Rule
}

// DefaultLayout returns the 5-unit layout 0,5,...,25 with an open tail
// above 30.
func DefaultLayout() *Layout {
	layout, _ := LinearLayout(5, 30)
	return layout
}

// MaxLinearBuckets caps the number of fixed-width buckets in a
// LinearLayout.
const MaxLinearBuckets = 10000

// LinearLayout builds fixed-width buckets from 0 up to limit plus an
// open-ended bucket above limit. limit must be a positive multiple of
// width and limit/width must not exceed MaxLinearBuckets.
func LinearLayout(width, limit int) (*Layout, error) {
	if width <= 0 {
		return nil, fmt.Errorf("bucket width must be positive, got %d", width)
	}
	if limit <= 0 || limit%width != 0 {
		return nil, fmt.Errorf("bucket limit %d must be a positive multiple of width %d", limit, width)
	}
	if n := limit / width; n > MaxLinearBuckets {
		return nil, fmt.Errorf("%d buckets of width %d up to %d exceed the maximum of %d", n, width, limit, MaxLinearBuckets)
	}

	rules := make([]Rule, 0, limit/width+1)
	for lower := 0; lower < limit; lower += width {
		rules = append(rules, Rule{
			Lower: float64(lower),
			Upper: float64(lower + width),
			Key:   Key(lower),
		})
	}
	rules = append(rules, Rule{Lower: float64(limit), Upper: math.Inf(1), Key: Key(limit)})

	return NewLayout(rules)
}

// NewLayout validates and wraps an explicit rule table. Rules must be
// sorted by Lower and must not overlap.
func NewLayout(rules []Rule) (*Layout, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("layout needs at least one rule")
	}
	for i, r := range rules {
		if !(r.Lower < r.Upper) {
			return nil, fmt.Errorf("rule %d: lower %v must be below upper %v", i, r.Lower, r.Upper)
		}
		if i > 0 && r.Lower < rules[i-1].Upper {
			return nil, fmt.Errorf("rule %d overlaps rule %d", i, i-1)
		}
	}

	copied := make([]Rule, len(rules))
	copy(copied, rules)
	return &Layout{rules: copied}, nil
}

// Bucket returns the key whose rule strictly contains v. Values that sit
// exactly on a boundary, non-positive values (with the default layout)
// and NaN are not covered.
func (l *Layout) Bucket(v float64) (Key, bool) {
	if math.IsNaN(v) {
		return 0, false
	}

	// First rule whose upper bound is above v. Only that rule can contain v.
	i := sort.Search(len(l.rules), func(i int) bool {
		return l.rules[i].Upper > v || math.IsInf(l.rules[i].Upper, 1)
	})
	if i == len(l.rules) || !l.rules[i].Contains(v) {
		return 0, false
	}
	return l.rules[i].Key, true
}

// Rules returns a copy of the rule table.
func (l *Layout) Rules() []Rule {
	rules := make([]Rule, len(l.rules))
	copy(rules, l.rules)
	return rules
}
