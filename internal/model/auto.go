package model

import (
	"context"

	"github.com/polzovatel/pagemap/internal/urlx"
)

// Auto determines which persisted page definition matches the browser's
// current location. Pages for the current domain are loaded fresh from
// storage and checked for activity; whenever any exact-path page exists
// for the domain, templated pages are suppressed from the matches. When
// nothing matches, a new literal-path page is created and persisted.
func Auto(ctx context.Context, s *Session) (*Page, error) {
	current := urlx.Parse(s.Driver.URL())

	pages, err := s.Store.ListDomain(current.Domain())
	if err != nil {
		return nil, err
	}

	var matches []*Page
	foundExact := false
	for _, page := range pages {
		if page.Active(ctx, s) {
			matches = append(matches, page)
		}
		if page.Exact() {
			foundExact = true
		}
	}

	if foundExact {
		exact := matches[:0]
		for _, page := range matches {
			if page.Exact() {
				exact = append(exact, page)
			}
		}
		matches = exact
	}

	if len(matches) > 0 {
		if len(matches) > 1 {
			for _, page := range matches {
				s.Logger.Warn().Str("page", page.String()).Msg("multiple pages matched")
			}
		}
		return matches[0], nil
	}

	s.Logger.Info().Str("url", current.String()).Msg("creating new page")
	page := NewPage(current.Domain(), current.Path(), "")
	if err := s.Store.Save(page); err != nil {
		return nil, err
	}
	return page, nil
}

// VisitPage navigates to a URL when not already there and returns its
// stored page definition, creating one on first visit. The variant
// defaults to the URL fragment.
func VisitPage(ctx context.Context, s *Session, rawURL, variant string) (*Page, error) {
	target := urlx.Parse(rawURL)

	if urlx.Parse(s.Driver.URL()) != target {
		s.Logger.Info().Str("url", target.String()).Msg("visiting")
		if err := s.Driver.Visit(ctx, target.String()); err != nil {
			return nil, err
		}
	}
	landed := urlx.Parse(s.Driver.URL())
	if landed != target {
		s.Logger.Info().Str("url", landed.String()).Msg("redirected")
		target = landed
	}

	if variant == "" {
		variant = target.Fragment()
	}

	page, found, err := s.Store.Load(target.Domain(), target.Path(), variant)
	if err != nil {
		return nil, err
	}
	if !found {
		if err := s.Store.Save(page); err != nil {
			return nil, err
		}
	}
	return page, nil
}
