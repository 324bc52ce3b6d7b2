// Package model implements the adaptive locator engine: scored locators,
// verb-tagged actions with ordered fallback dispatch, self-identifying
// page definitions, and the registry logic that decides which persisted
// page matches the browser's current location.
package model

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/polzovatel/pagemap/internal/browser"
)

var (
	// ErrNoSuchAction is returned when a (verb, name) pair fails
	// vocabulary validation.
	ErrNoSuchAction = errors.New("no such action")

	// ErrUnresolved is returned when every locator failed and the
	// operator declined to supply a new one.
	ErrUnresolved = errors.New("action unresolved")
)

// Store persists one page record per (domain, path, variant).
type Store interface {
	// Load returns the stored page, or an empty skeleton when no
	// record exists yet.
	Load(domain, path, variant string) (*Page, bool, error)
	Save(page *Page) error
	// ListDomain loads every stored page for a domain.
	ListDomain(domain string) ([]*Page, error)
}

// Prompter supplies operator input during interactive repair and for
// fill/select values that were not provided programmatically.
type Prompter interface {
	// ModeAndValue asks for a replacement locator; ok is false when
	// the operator declines.
	ModeAndValue() (mode browser.Mode, value string, ok bool)
	NamedValue(name string) (string, error)
}

// Secrets stores values previously supplied for fill/select actions.
type Secrets interface {
	Get(name string) (string, bool)
	Set(name, value string) error
}

// Session carries the collaborators for one browser run. It is created
// by the launcher and passed into every dispatch and identification
// call; the engine itself keeps no global state.
type Session struct {
	Driver   browser.Driver
	Store    Store
	Prompter Prompter
	Secrets  Secrets
	Logger   zerolog.Logger

	sleep func(time.Duration)
}

func NewSession(driver browser.Driver, store Store, prompter Prompter, secrets Secrets, logger zerolog.Logger) *Session {
	return &Session{
		Driver:   driver,
		Store:    store,
		Prompter: prompter,
		Secrets:  secrets,
		Logger:   logger,
		sleep:    time.Sleep,
	}
}

func (s *Session) settle(d time.Duration) {
	if d <= 0 {
		return
	}
	if s.sleep == nil {
		s.sleep = time.Sleep
	}
	s.sleep(d)
}

// save persists a page, downgrading failures to a log line so a broken
// disk never interrupts a dispatch in progress.
func (s *Session) save(p *Page) {
	if err := s.Store.Save(p); err != nil {
		s.Logger.Error().Err(err).Str("page", p.String()).Msg("save page")
	}
}
