package urlx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/polzovatel/pagemap/internal/urlx"
)

func TestNew(t *testing.T) {
	assert.Equal(t, "https://example.com", urlx.New("example.com", "@").String())
	assert.Equal(t, "https://example.com", urlx.New("example.com", "").String())
	assert.Equal(t, "https://example.com/login", urlx.New("example.com", "login").String())
	assert.Equal(t, "https://example.com/a/b", urlx.New("example.com", "/a/b/").String())
}

func TestParseParts(t *testing.T) {
	u := urlx.Parse("https://example.com/users/42#profile/edit")
	assert.Equal(t, "example.com", u.Domain())
	assert.Equal(t, "users/42", u.Path())
	assert.Equal(t, "profile_edit", u.Fragment())

	root := urlx.Parse("https://example.com/")
	assert.Equal(t, urlx.Root, root.Path())
	assert.Equal(t, "", root.Fragment())
}

func TestMatchesExactPaths(t *testing.T) {
	page := urlx.New("example.com", "login")
	assert.True(t, page.Matches(urlx.Parse("https://example.com/login")))
	assert.True(t, page.Matches(urlx.Parse("https://example.com/login/")))
	assert.False(t, page.Matches(urlx.Parse("https://example.com/logout")))
	assert.False(t, page.Matches(urlx.Parse("https://other.com/login")))
}

func TestMatchesTemplatedPaths(t *testing.T) {
	page := urlx.New("example.com", "users/{id}/edit")
	assert.True(t, page.Matches(urlx.Parse("https://example.com/users/42/edit")))
	assert.False(t, page.Matches(urlx.Parse("https://example.com/users/42")))
	assert.False(t, page.Matches(urlx.Parse("https://example.com/users/42/43/edit")),
		"a placeholder spans exactly one segment")

	wild := urlx.New("example.com", "{slug}")
	assert.True(t, wild.Matches(urlx.Parse("https://example.com/anything")))
	assert.False(t, wild.Matches(urlx.Parse("https://example.com/a/b")))
}

func TestMatchesRoot(t *testing.T) {
	root := urlx.New("example.com", urlx.Root)
	assert.True(t, root.Matches(urlx.Parse("https://example.com")))
	assert.False(t, root.Matches(urlx.Parse("https://example.com/login")))
}
