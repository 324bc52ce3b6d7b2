package model

import (
	"strings"
	"time"

	"github.com/polzovatel/pagemap/internal/browser"
)

// Verb is the kind of interaction an action performs. The vocabulary is
// closed: unknown verbs fail action creation.
type Verb string

const (
	VerbClick  Verb = "click"
	VerbFill   Verb = "fill"
	VerbSelect Verb = "select"
	VerbCheck  Verb = "check"
	VerbType   Verb = "type"
)

const defaultSettle = 500 * time.Millisecond

// verbSpec drives dispatch for one verb: its element primitive, default
// locator seeds, whether the page stays put afterwards, the post-action
// settle delay, and whether it sends raw keystrokes instead of
// targeting an element.
type verbSpec struct {
	apply   func(el browser.Element, value string) error
	seeds   func(name string) []*Locator
	updates bool
	settle  time.Duration
	raw     bool
}

var verbTable = map[Verb]verbSpec{
	VerbClick: {
		apply:  func(el browser.Element, _ string) error { return el.Click() },
		seeds:  clickSeeds,
		settle: defaultSettle,
	},
	VerbFill: {
		apply:   func(el browser.Element, value string) error { return el.Fill(value) },
		seeds:   inputSeeds,
		updates: true,
	},
	VerbSelect: {
		apply:   func(el browser.Element, value string) error { return el.SelectOption(value) },
		seeds:   inputSeeds,
		updates: true,
	},
	VerbCheck: {
		apply:   func(el browser.Element, _ string) error { return el.Check() },
		seeds:   inputSeeds,
		updates: true,
	},
	VerbType: {
		raw:    true,
		settle: defaultSettle,
	},
}

func (v Verb) Known() bool {
	_, ok := verbTable[v]
	return ok
}

func (v Verb) spec() verbSpec {
	return verbTable[v]
}

// NeedsValue reports whether the verb consumes a value argument that
// must be sourced from secrets or the operator when not supplied.
func (v Verb) NeedsValue() bool {
	return v == VerbFill || v == VerbSelect
}

// clickSeeds guesses locators for things usually labeled by their
// visible text, like buttons and links.
func clickSeeds(name string) []*Locator {
	label := humanize(name)
	return []*Locator{
		{Mode: browser.ModeText, Value: label},
		{Mode: browser.ModePartialText, Value: label},
		{Mode: browser.ModeValue, Value: label},
		{Mode: browser.ModeID, Value: name},
	}
}

// inputSeeds guesses locators for form controls, which are usually
// addressed by name or id attributes.
func inputSeeds(name string) []*Locator {
	return []*Locator{
		{Mode: browser.ModeName, Value: name},
		{Mode: browser.ModeID, Value: name},
		{Mode: browser.ModeCSS, Value: "input[name=" + name + "]"},
	}
}

// humanize turns an action name like "sign_in" into "Sign In".
func humanize(name string) string {
	words := strings.Split(name, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// keyName maps an action name like "enter" or "arrow_down" to the key
// identifier the driver expects ("Enter", "ArrowDown").
func keyName(name string) string {
	return strings.ReplaceAll(humanize(name), " ", "")
}
