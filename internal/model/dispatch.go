package model

import (
	"context"
	"errors"
	"time"

	"github.com/polzovatel/pagemap/internal/browser"
)

// Do executes one semantic operation against the live document: resolve
// the action, try its locators in score order, escalate to interactive
// repair on exhaustion, persist, and re-identify the active page unless
// the verb keeps the operator in place. A wait of zero means the verb's
// default settle delay.
func (p *Page) Do(ctx context.Context, s *Session, verb Verb, name, value string, wait time.Duration) (*Page, error) {
	action, err := p.GetOrCreateAction(verb, name)
	if err != nil {
		return nil, err
	}
	logger := s.Logger.With().Str("action", action.String()).Logger()

	for {
		done, err := p.tryLocators(ctx, s, action, value, wait)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}

		logger.Error().Msg("no locators able to find element")
		mode, locatorValue, ok := s.Prompter.ModeAndValue()
		if !ok {
			s.save(p)
			return nil, ErrUnresolved
		}
		action.Locators = append(action.Locators, &Locator{Mode: mode, Value: locatorValue})
	}

	s.save(p)
	p.Clean(s, false)

	if verb.spec().updates {
		return p, nil
	}
	return Auto(ctx, s)
}

// tryLocators runs one pass over the action's candidates. It returns
// true when the operation succeeded and false when every candidate
// failed; only context cancellation propagates as an error.
func (p *Page) tryLocators(ctx context.Context, s *Session, action *Action, value string, wait time.Duration) (bool, error) {
	spec := action.Verb.spec()

	if spec.raw {
		if err := s.Driver.SendKeys(ctx, keyName(action.Name)); err != nil {
			if !recoverable(err) {
				return false, err
			}
			s.Logger.Warn().Err(err).Str("action", action.String()).Msg("send keys failed")
		}
		p.postAction(s, spec, wait)
		return true, nil
	}

	for _, locator := range action.sorted() {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		s.Logger.Debug().Str("locator", locator.String()).Str("name", action.Name).Msg("trying locator")

		element := locator.Find(ctx, s)
		if element == nil {
			locator.Score(-1)
			continue
		}

		if err := spec.apply(element, value); err != nil {
			if !recoverable(err) {
				return false, err
			}
			s.Logger.Warn().Err(err).Str("locator", locator.String()).Msg("action attempt failed")
			locator.Score(-1)
			continue
		}

		locator.Score(+1)
		p.postAction(s, spec, wait)
		return true, nil
	}

	return false, nil
}

// postAction applies the explicit wait when given, otherwise the verb's
// settle delay covering an expected navigation.
func (p *Page) postAction(s *Session, spec verbSpec, wait time.Duration) {
	if wait > 0 {
		s.settle(wait)
		return
	}
	s.settle(spec.settle)
}

// recoverable reports whether a failure should be absorbed by scoring
// the locator down and moving on. The driver's whole taxonomy counts;
// anything else, notably context cancellation, propagates.
func recoverable(err error) bool {
	return errors.Is(err, browser.ErrNotFound) ||
		errors.Is(err, browser.ErrNotInteractable) ||
		errors.Is(err, browser.ErrDriver)
}
