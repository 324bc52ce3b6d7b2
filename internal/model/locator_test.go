package model_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polzovatel/pagemap/internal/browser"
	"github.com/polzovatel/pagemap/internal/model"
)

func TestScorePositiveClampsToCeiling(t *testing.T) {
	locator := &model.Locator{Mode: browser.ModeCSS, Value: "#go"}

	assert.True(t, locator.Score(+1))
	assert.Equal(t, 1, locator.Uses)

	for i := 0; i < 150; i++ {
		locator.Score(+1)
	}
	assert.Equal(t, 99, locator.Uses)
	assert.False(t, locator.Score(+1), "scoring at the ceiling is a no-op")
	assert.Equal(t, 99, locator.Uses)
}

func TestScoreNegativeFloorsAtMinusOne(t *testing.T) {
	locator := &model.Locator{Mode: browser.ModeCSS, Value: "#go", Uses: 2}

	assert.True(t, locator.Score(-1))
	assert.Equal(t, 1, locator.Uses)

	for i := 0; i < 10; i++ {
		locator.Score(-1)
	}
	assert.Equal(t, -1, locator.Uses)
	assert.False(t, locator.Score(-1), "scoring at the floor is a no-op")
	assert.Equal(t, -1, locator.Uses)
}

func TestScorePositiveNeverDecreases(t *testing.T) {
	locator := &model.Locator{Mode: browser.ModeCSS, Value: "#go", Uses: -1}
	locator.Score(+1)
	assert.Equal(t, 1, locator.Uses, "a success lifts a failing locator back to minimum confidence")
}

func TestUsableRequiresModeAndValue(t *testing.T) {
	assert.False(t, (&model.Locator{}).Usable())
	assert.False(t, (&model.Locator{Mode: browser.ModeCSS}).Usable())
	assert.False(t, (&model.Locator{Value: "#go"}).Usable())
	assert.True(t, (&model.Locator{Mode: browser.ModeCSS, Value: "#go"}).Usable())
}

func TestFindSkipsInvisibleFirstMatch(t *testing.T) {
	hidden := &fakeElement{visible: false}
	shown := &fakeElement{visible: true}
	driver := &fakeDriver{
		url: "https://example.com",
		elements: map[string][]browser.Element{
			locatorKey(browser.ModeCSS, ".item"): {hidden, shown},
		},
	}
	session := newTestSession(driver, nil, nil)
	locator := &model.Locator{Mode: browser.ModeCSS, Value: ".item"}

	element := locator.Find(context.Background(), session)
	require.NotNil(t, element)
	assert.Same(t, shown, element)
	assert.Equal(t, 1, locator.Index, "advanced index is remembered")

	// A second lookup goes straight to the visible element.
	element = locator.Find(context.Background(), session)
	assert.Same(t, shown, element)
}

func TestFindReturnsNilWhenIndexOutOfRange(t *testing.T) {
	driver := &fakeDriver{
		url: "https://example.com",
		elements: map[string][]browser.Element{
			locatorKey(browser.ModeCSS, ".item"): {&fakeElement{visible: false}},
		},
	}
	session := newTestSession(driver, nil, nil)
	locator := &model.Locator{Mode: browser.ModeCSS, Value: ".item"}

	assert.Nil(t, locator.Find(context.Background(), session))
	assert.Equal(t, 0, locator.Index, "index only advances on success")

	locator.Value = ".missing"
	assert.Nil(t, locator.Find(context.Background(), session))
}
