package model

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/polzovatel/pagemap/internal/urlx"
)

// DefaultVariant names the layout used when a page has only one.
const DefaultVariant = "default"

// LocatorSet identifies a page: inclusions must all be present and
// exclusions must all be absent for the page to be active.
type LocatorSet struct {
	Inclusions []*Locator `yaml:"inclusions"`
	Exclusions []*Locator `yaml:"exclusions"`
}

// Clean prunes both collections independently and returns the number of
// locators removed.
func (ls *LocatorSet) Clean(force bool) int {
	inclusions, removedIn := cleanLocators(ls.Inclusions, force)
	exclusions, removedEx := cleanLocators(ls.Exclusions, force)
	ls.Inclusions = inclusions
	ls.Exclusions = exclusions
	return removedIn + removedEx
}

// Page is one persisted definition of a logical web page: an
// identifying locator set plus the actions known to work on it. The
// (Domain, Path, Variant) triple keys its durable record; those fields
// live in the record's location, not its body.
type Page struct {
	Domain  string `yaml:"-"`
	Path    string `yaml:"-"`
	Variant string `yaml:"-"`

	Locators LocatorSet `yaml:"locators"`
	Actions  []*Action  `yaml:"actions"`
}

// NewPage builds an empty page skeleton for a key.
func NewPage(domain, path, variant string) *Page {
	if path == "" {
		path = urlx.Root
	}
	if variant == "" {
		variant = DefaultVariant
	}
	return &Page{Domain: domain, Path: path, Variant: variant}
}

func (p *Page) URL() urlx.URL {
	return urlx.New(p.Domain, p.Path)
}

// Exact reports whether the path is literal. Templated paths describe a
// family of concrete URLs.
func (p *Page) Exact() bool {
	return !strings.Contains(p.Path, "{")
}

func (p *Page) String() string {
	if p.Variant == DefaultVariant {
		return p.URL().String()
	}
	return p.URL().String() + " (" + p.Variant + ")"
}

// SameAs compares page identity by key.
func (p *Page) SameAs(other *Page) bool {
	return other != nil && p.Domain == other.Domain && p.Path == other.Path && p.Variant == other.Variant
}

// Active reports whether this definition matches the live document: the
// URL must fall under the page's URL, every inclusion locator must
// resolve, and no exclusion locator may resolve. Locators that resolve
// are scored up and the page saved when a score moves.
func (p *Page) Active(ctx context.Context, s *Session) bool {
	logger := s.Logger.With().Str("page", p.String()).Logger()

	if !p.URL().Matches(urlx.Parse(s.Driver.URL())) {
		logger.Debug().Msg("inactive: URL not matched")
		return false
	}

	for _, locator := range sortedLocators(p.Locators.Inclusions) {
		if locator.Find(ctx, s) == nil {
			logger.Debug().Str("locator", locator.String()).Msg("inactive: expected element missing")
			return false
		}
		if locator.Score(+1) {
			s.save(p)
		}
	}

	for _, locator := range sortedLocators(p.Locators.Exclusions) {
		if locator.Find(ctx, s) != nil {
			if locator.Score(+1) {
				s.save(p)
			}
			logger.Debug().Str("locator", locator.String()).Msg("inactive: unexpected element present")
			return false
		}
	}

	logger.Debug().Msg("active")
	return true
}

// GetOrCreateAction returns the action for (verb, name), creating and
// registering it when the pair validates against the verb vocabulary.
func (p *Page) GetOrCreateAction(verb Verb, name string) (*Action, error) {
	for _, action := range p.Actions {
		if action.Verb == verb && action.Name == name {
			return action, nil
		}
	}
	if !verb.Known() || name == "" {
		return nil, ErrNoSuchAction
	}
	action := NewAction(verb, name)
	p.Actions = append(p.Actions, action)
	return action, nil
}

// Perform executes the action named like "click_submit" against the
// live document. Fill and select values are sourced from the secret
// store, falling back to an operator prompt, and written back for next
// time. It returns the active page afterwards and whether it changed.
func (p *Page) Perform(ctx context.Context, s *Session, name string) (*Page, bool, error) {
	verb, target, found := strings.Cut(name, "_")
	if !found {
		return p, false, ErrNoSuchAction
	}

	var value string
	if Verb(verb).NeedsValue() {
		stored, ok := s.Secrets.Get(target)
		if !ok || stored == "" {
			prompted, err := s.Prompter.NamedValue(target)
			if err != nil {
				return p, false, err
			}
			stored = prompted
		}
		if err := s.Secrets.Set(target, stored); err != nil {
			s.Logger.Warn().Err(err).Str("name", target).Msg("store secret")
		}
		value = stored
	}

	next, err := p.Do(ctx, s, Verb(verb), target, value, 0)
	if err != nil {
		return p, false, err
	}
	return next, !next.SameAs(p), nil
}

// Clean prunes stale locators and actions across the page, subject to
// the force-or-confirmed rule, and persists when anything was removed.
func (p *Page) Clean(s *Session, force bool) int {
	count := p.Locators.Clean(force)

	if force {
		kept := p.Actions[:0]
		for _, action := range p.Actions {
			if action.Valid() && action.exhausted() {
				s.Logger.Info().Str("action", action.String()).Msg("removed unused action")
				count++
				continue
			}
			kept = append(kept, action)
		}
		p.Actions = kept
	}

	for _, action := range p.Actions {
		count += action.Clean(force)
	}

	if count > 0 || force {
		s.save(p)
	}
	return count
}

// Text returns the live document markup.
func (p *Page) Text(ctx context.Context, s *Session) string {
	html, err := s.Driver.HTML(ctx)
	if err != nil {
		s.Logger.Debug().Err(err).Msg("read document")
		return ""
	}
	return html
}

// HTML parses the live document for callers that want to inspect it.
func (p *Page) HTML(ctx context.Context, s *Session) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(p.Text(ctx, s)))
}

// Contains reports whether the live document markup contains value.
func (p *Page) Contains(ctx context.Context, s *Session, value string) bool {
	return strings.Contains(p.Text(ctx, s), value)
}
