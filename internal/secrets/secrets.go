// Package secrets keeps values the operator supplied for fill and
// select actions so later runs do not re-prompt. The file is plain YAML
// with owner-only permissions; anything stronger is the caller's job.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/polzovatel/pagemap/internal/model"
)

type File struct {
	path   string
	values map[string]string
}

var _ model.Secrets = (*File)(nil)

// Open loads the secret file at path, creating an empty store when the
// file does not exist yet.
func Open(path string) (*File, error) {
	f := &File{path: path, values: map[string]string{}}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read secrets: %w", err)
	}
	if err := yaml.Unmarshal(data, &f.values); err != nil {
		return nil, fmt.Errorf("decode secrets: %w", err)
	}
	return f, nil
}

func (f *File) Get(name string) (string, bool) {
	value, ok := f.values[name]
	return value, ok
}

func (f *File) Set(name, value string) error {
	if f.values[name] == value {
		return nil
	}
	f.values[name] = value

	data, err := yaml.Marshal(f.values)
	if err != nil {
		return fmt.Errorf("encode secrets: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write secrets: %w", err)
	}
	return nil
}
