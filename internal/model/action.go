package model

// Action is a named, verb-tagged operation backed by a ranked list of
// candidate locators, any of which may resolve the target element.
type Action struct {
	Verb     Verb       `yaml:"verb"`
	Name     string     `yaml:"name"`
	Locators []*Locator `yaml:"locators"`
}

// NewAction builds an action seeded with an empty placeholder locator
// plus the built-in default locators for its verb and name.
func NewAction(verb Verb, name string) *Action {
	action := &Action{
		Verb:     verb,
		Name:     name,
		Locators: []*Locator{{}},
	}
	if spec := verb.spec(); spec.seeds != nil {
		action.Locators = append(action.Locators, spec.seeds(name)...)
	}
	return action
}

// Valid reports whether the action identifies a real operation.
func (a *Action) Valid() bool {
	return a.Verb != "" && a.Name != ""
}

func (a *Action) String() string {
	return string(a.Verb) + "_" + a.Name
}

func (a *Action) sorted() []*Locator {
	return sortedLocators(a.Locators)
}

// exhausted reports whether no locator retains a positive score, which
// makes the whole action a cleanup candidate.
func (a *Action) exhausted() bool {
	for _, locator := range a.Locators {
		if locator.Uses > 0 {
			return false
		}
	}
	return true
}

// Clean prunes non-positive locators, subject to the force-or-confirmed
// rule, and returns the number removed.
func (a *Action) Clean(force bool) int {
	kept, removed := cleanLocators(a.Locators, force)
	a.Locators = kept
	return removed
}
