package model_test

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/polzovatel/pagemap/internal/browser"
	"github.com/polzovatel/pagemap/internal/model"
)

type fakeElement struct {
	visible  bool
	html     string
	applyErr error
	clicks   int
	filled   []string
	selected []string
	checks   int
}

func (e *fakeElement) Visible() bool     { return e.visible }
func (e *fakeElement) OuterHTML() string { return e.html }

func (e *fakeElement) Click() error {
	if e.applyErr != nil {
		return e.applyErr
	}
	e.clicks++
	return nil
}

func (e *fakeElement) Fill(text string) error {
	if e.applyErr != nil {
		return e.applyErr
	}
	e.filled = append(e.filled, text)
	return nil
}

func (e *fakeElement) SelectOption(value string) error {
	if e.applyErr != nil {
		return e.applyErr
	}
	e.selected = append(e.selected, value)
	return nil
}

func (e *fakeElement) Check() error {
	if e.applyErr != nil {
		return e.applyErr
	}
	e.checks++
	return nil
}

type fakeDriver struct {
	url      string
	html     string
	elements map[string][]browser.Element
	finds    []string
	visited  []string
	keys     []string
}

func locatorKey(mode browser.Mode, value string) string {
	return string(mode) + "|" + value
}

func (d *fakeDriver) Visit(_ context.Context, url string) error {
	d.visited = append(d.visited, url)
	d.url = url
	return nil
}

func (d *fakeDriver) URL() string   { return d.url }
func (d *fakeDriver) Title() string { return "" }

func (d *fakeDriver) HTML(context.Context) (string, error) {
	return d.html, nil
}

func (d *fakeDriver) FindElements(_ context.Context, mode browser.Mode, value string) ([]browser.Element, error) {
	key := locatorKey(mode, value)
	d.finds = append(d.finds, key)
	return d.elements[key], nil
}

func (d *fakeDriver) SendKeys(_ context.Context, key string) error {
	d.keys = append(d.keys, key)
	return nil
}

type memStore struct {
	pages map[string]*model.Page
	saves int
}

func newMemStore() *memStore {
	return &memStore{pages: map[string]*model.Page{}}
}

func pageKey(domain, path, variant string) string {
	return domain + "|" + path + "|" + variant
}

func (st *memStore) Load(domain, path, variant string) (*model.Page, bool, error) {
	skeleton := model.NewPage(domain, path, variant)
	if page, ok := st.pages[pageKey(skeleton.Domain, skeleton.Path, skeleton.Variant)]; ok {
		return page, true, nil
	}
	return skeleton, false, nil
}

func (st *memStore) Save(page *model.Page) error {
	st.saves++
	st.pages[pageKey(page.Domain, page.Path, page.Variant)] = page
	return nil
}

func (st *memStore) ListDomain(domain string) ([]*model.Page, error) {
	var keys []string
	for key := range st.pages {
		if strings.HasPrefix(key, domain+"|") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	pages := make([]*model.Page, 0, len(keys))
	for _, key := range keys {
		pages = append(pages, st.pages[key])
	}
	return pages, nil
}

type fakeSecrets struct {
	values map[string]string
}

func newFakeSecrets() *fakeSecrets {
	return &fakeSecrets{values: map[string]string{}}
}

func (s *fakeSecrets) Get(name string) (string, bool) {
	value, ok := s.values[name]
	return value, ok
}

func (s *fakeSecrets) Set(name, value string) error {
	s.values[name] = value
	return nil
}

func newTestSession(driver *fakeDriver, st model.Store, prompter model.Prompter) *model.Session {
	if st == nil {
		st = newMemStore()
	}
	return model.NewSession(driver, st, prompter, newFakeSecrets(), zerolog.Nop())
}
