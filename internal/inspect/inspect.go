// Package inspect collects the visible interactive elements of the live
// page together with suggested locator strategies. The REPL prints a
// summary before the interactive-repair prompt so the operator can pick
// a working (mode, value) pair.
package inspect

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/polzovatel/pagemap/internal/browser"
)

// Element describes one interactive node and the locator suggestion
// most likely to find it again.
type Element struct {
	Tag   string `json:"tag"`
	Text  string `json:"text"`
	Mode  string `json:"mode"`
	Value string `json:"value"`
}

// Summary is a compact view of the current page.
type Summary struct {
	URL      string
	Title    string
	Elements []Element
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "URL: %s\nTITLE: %s\nELEMENTS:\n", s.URL, s.Title)
	for i, el := range s.Elements {
		fmt.Fprintf(&b, "%3d) %-8s %-12s %-40s %s\n", i+1, el.Tag, el.Mode, el.Value, el.Text)
	}
	return b.String()
}

const collectScript = `(limit) => {
	const pick = [];
	const nodes = document.querySelectorAll("a,button,input,select,textarea,[role],[onclick]");
	for (const el of nodes) {
		if (pick.length >= limit) break;
		const rect = el.getBoundingClientRect();
		if (rect.width === 0 && rect.height === 0) continue;
		const tag = el.tagName.toLowerCase();
		const text = (el.innerText || el.textContent || el.value || "").trim().slice(0, 80);
		let mode = "", value = "";
		if (el.id) {
			mode = "id"; value = el.id;
		} else if (el.getAttribute("name")) {
			mode = "name"; value = el.getAttribute("name");
		} else if (text && text.length < 40 && !text.includes("\n")) {
			mode = "text"; value = text;
		} else {
			const siblings = Array.from(el.parentElement ? el.parentElement.children : []);
			const idx = siblings.filter(c => c.tagName === el.tagName).indexOf(el) + 1;
			mode = "css"; value = tag + ":nth-of-type(" + idx + ")";
		}
		pick.push({tag, text, mode, value});
	}
	return pick;
}`

// Collect gathers up to limit visible interactive elements from the
// live page.
func Collect(ctx context.Context, driver *browser.Playwright, limit int) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	if limit <= 0 {
		limit = 50
	}

	page := driver.Page()
	val, err := page.Evaluate(collectScript, limit)
	if err != nil {
		return Summary{}, fmt.Errorf("collect elements: %w", err)
	}
	data, err := json.Marshal(val)
	if err != nil {
		return Summary{}, err
	}
	var elements []Element
	if err := json.Unmarshal(data, &elements); err != nil {
		return Summary{}, err
	}

	return Summary{
		URL:      driver.URL(),
		Title:    driver.Title(),
		Elements: elements,
	}, nil
}
