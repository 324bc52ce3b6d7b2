// Package store persists page definitions as one YAML record per
// (domain, path, variant) under <root>/sites/<domain>/<path>/<variant>.yml.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/polzovatel/pagemap/internal/model"
)

const recordExt = ".yml"

type Store struct {
	root string
}

var _ model.Store = (*Store)(nil)

// New creates a store rooted at dir; records live under dir/sites.
func New(dir string) *Store {
	return &Store{root: dir}
}

// Load reads the record for a key. When no record exists an empty page
// skeleton is returned with found false; partial records load with
// zero-value defaults.
func (st *Store) Load(domain, path, variant string) (*model.Page, bool, error) {
	page := model.NewPage(domain, path, variant)

	data, err := os.ReadFile(st.recordPath(page))
	if errors.Is(err, fs.ErrNotExist) {
		return page, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read page record: %w", err)
	}
	if err := yaml.Unmarshal(data, page); err != nil {
		return nil, false, fmt.Errorf("decode page record %s: %w", page, err)
	}
	return page, true, nil
}

func (st *Store) Save(page *model.Page) error {
	data, err := yaml.Marshal(page)
	if err != nil {
		return fmt.Errorf("encode page record %s: %w", page, err)
	}
	record := st.recordPath(page)
	if err := os.MkdirAll(filepath.Dir(record), 0o755); err != nil {
		return fmt.Errorf("create page record dir: %w", err)
	}
	if err := os.WriteFile(record, data, 0o644); err != nil {
		return fmt.Errorf("write page record: %w", err)
	}
	return nil
}

// ListDomain loads every record stored for a domain, in path order.
func (st *Store) ListDomain(domain string) ([]*model.Page, error) {
	dir := filepath.Join(st.root, "sites", domain)

	var pages []*model.Page
	err := filepath.WalkDir(dir, func(record string, entry fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), recordExt) {
			return nil
		}
		rel, err := filepath.Rel(dir, filepath.Dir(record))
		if err != nil {
			return err
		}
		path := filepath.ToSlash(rel)
		if path == "." {
			return nil
		}
		variant := strings.TrimSuffix(entry.Name(), recordExt)
		page, _, err := st.Load(domain, path, variant)
		if err != nil {
			return err
		}
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list pages for %s: %w", domain, err)
	}
	return pages, nil
}

func (st *Store) recordPath(page *model.Page) string {
	segments := append([]string{st.root, "sites", page.Domain},
		strings.Split(page.Path, "/")...)
	segments = append(segments, page.Variant+recordExt)
	return filepath.Join(segments...)
}
