package model

import (
	"context"
	"fmt"
	"sort"

	"github.com/polzovatel/pagemap/internal/browser"
)

const (
	maxUses = 99
	minUses = -1
)

// Locator is one strategy for finding a single element: a finding mode,
// a strategy-specific value, the position among matches, and a signed
// usage score encoding how often the strategy has worked.
type Locator struct {
	Mode  browser.Mode `yaml:"mode"`
	Value string       `yaml:"value"`
	Index int          `yaml:"index"`
	Uses  int          `yaml:"uses"`
}

// Usable reports whether the locator can be tried at all. Empty
// locators are placeholders kept in storage but never resolved.
func (l *Locator) Usable() bool {
	return l.Mode != "" && l.Value != ""
}

func (l *Locator) String() string {
	return fmt.Sprintf("<locator %s=%s[%d]>", l.Mode, l.Value, l.Index)
}

// Score adjusts the usage count and reports whether it changed.
// Positive deltas clamp to [1, 99] so a locator that ever succeeded
// keeps a minimum confidence; non-positive deltas floor at -1 so
// known-bad locators settle instead of diverging.
func (l *Locator) Score(delta int) bool {
	previous := l.Uses

	if delta > 0 {
		l.Uses = min(maxUses, max(1, l.Uses+delta))
	} else {
		l.Uses = max(minUses, l.Uses+delta)
	}

	return l.Uses != previous
}

// Find resolves the locator against the live document, or returns nil.
// When the first match is invisible the index advances once past it;
// the advanced index is remembered so later lookups skip the hidden
// duplicate directly.
func (l *Locator) Find(ctx context.Context, s *Session) browser.Element {
	elements, err := s.Driver.FindElements(ctx, l.Mode, l.Value)
	if err != nil {
		s.Logger.Debug().Err(err).Str("locator", l.String()).Msg("find failed")
		return nil
	}

	index := l.Index
	if index < len(elements) && index == 0 && !elements[index].Visible() {
		s.Logger.Debug().Str("locator", l.String()).Str("element", elements[index].OuterHTML()).Msg("found invisible element")
		index++
	}
	if index >= len(elements) {
		s.Logger.Debug().Str("locator", l.String()).Msg("unable to find element")
		return nil
	}

	l.Index = index
	s.Logger.Debug().Str("locator", l.String()).Str("element", elements[index].OuterHTML()).Msg("found element")
	return elements[index]
}

// sortedLocators returns the usable locators in descending score order.
func sortedLocators(locators []*Locator) []*Locator {
	ordered := make([]*Locator, 0, len(locators))
	for _, locator := range locators {
		if locator.Usable() {
			ordered = append(ordered, locator)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Uses > ordered[j].Uses
	})
	return ordered
}

// cleanLocators removes non-positive locators from the collection once
// licensed: either force is set or a sibling reached the score ceiling.
func cleanLocators(locators []*Locator, force bool) (kept []*Locator, removed int) {
	licensed := force
	candidates := 0
	for _, locator := range locators {
		if locator.Uses <= 0 {
			candidates++
		}
		if locator.Uses >= maxUses {
			licensed = true
		}
	}
	if !licensed || candidates == 0 {
		return locators, 0
	}

	kept = locators[:0]
	for _, locator := range locators {
		if locator.Uses <= 0 {
			removed++
			continue
		}
		kept = append(kept, locator)
	}
	return kept, removed
}
