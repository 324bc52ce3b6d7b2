// Package browser wraps playwright-go behind the small driver surface the
// locator engine needs: visit a URL, enumerate elements for a finding
// strategy, and perform verb primitives on one element.
package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

const (
	defaultNavTimeout    = 30 * time.Second
	defaultActionTimeout = 2 * time.Second
	headlessEnv          = "PAGEMAP_HEADLESS"
	widthEnv             = "PAGEMAP_WIDTH"
	heightEnv            = "PAGEMAP_HEIGHT"
)

// Mode is an element-finding strategy tag. Values are stored in page
// records, so they must stay stable.
type Mode string

const (
	ModeCSS         Mode = "css"
	ModeXPath       Mode = "xpath"
	ModeID          Mode = "id"
	ModeName        Mode = "name"
	ModeText        Mode = "text"
	ModePartialText Mode = "partial_text"
	ModeValue       Mode = "value"
)

// Modes lists every supported finding strategy, for prompt validation.
var Modes = []Mode{ModeCSS, ModeXPath, ModeID, ModeName, ModeText, ModePartialText, ModeValue}

func (m Mode) Known() bool {
	for _, known := range Modes {
		if m == known {
			return true
		}
	}
	return false
}

// Sentinel conditions the dispatch loop distinguishes. Everything the
// driver raises is folded into one of these three.
var (
	ErrNotFound        = errors.New("element not found")
	ErrNotInteractable = errors.New("element not interactable")
	ErrDriver          = errors.New("driver failure")
)

// Element is one live DOM element handle.
type Element interface {
	Visible() bool
	OuterHTML() string
	Click() error
	Fill(text string) error
	SelectOption(value string) error
	Check() error
}

// Driver exposes the document-level operations the engine performs.
type Driver interface {
	Visit(ctx context.Context, url string) error
	URL() string
	Title() string
	HTML(ctx context.Context) (string, error)
	FindElements(ctx context.Context, mode Mode, value string) ([]Element, error)
	SendKeys(ctx context.Context, key string) error
}

// Launcher owns playwright lifecycle.
type Launcher struct {
	pw       *playwright.Playwright
	browser  playwright.Browser
	headless bool
}

func NewLauncher(ctx context.Context) (*Launcher, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	headless := parseBoolEnv(headlessEnv, false)
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		Args: []string{
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	return &Launcher{pw: pw, browser: browser, headless: headless}, nil
}

// NewDriver opens a fresh browser context and page sized per the
// PAGEMAP_WIDTH/PAGEMAP_HEIGHT environment.
func (l *Launcher) NewDriver(ctx context.Context) (*Playwright, error) {
	opts := playwright.BrowserNewContextOptions{
		IgnoreHttpsErrors: playwright.Bool(true),
	}
	if width, height := parseIntEnv(widthEnv, 0), parseIntEnv(heightEnv, 0); width > 0 && height > 0 {
		opts.Viewport = &playwright.Size{Width: width, Height: height}
	}
	context, err := l.browser.NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("new context: %w", err)
	}
	page, err := context.NewPage()
	if err != nil {
		_ = context.Close()
		return nil, fmt.Errorf("new page: %w", err)
	}
	page.SetDefaultTimeout(float64(defaultActionTimeout.Milliseconds()))
	return &Playwright{context: context, page: page}, nil
}

func (l *Launcher) Close() error {
	if l.browser != nil {
		_ = l.browser.Close()
	}
	if l.pw != nil {
		return l.pw.Stop()
	}
	return nil
}

// Playwright is the playwright-backed Driver.
type Playwright struct {
	context playwright.BrowserContext
	page    playwright.Page
}

var _ Driver = (*Playwright)(nil)

func (d *Playwright) Page() playwright.Page {
	return d.page
}

func (d *Playwright) Close(ctx context.Context) error {
	_ = ctx
	if d.page != nil {
		_ = d.page.Close()
	}
	if d.context != nil {
		return d.context.Close()
	}
	return nil
}

func (d *Playwright) Visit(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(float64(defaultNavTimeout.Milliseconds())),
	})
	return wrap(err)
}

func (d *Playwright) URL() string {
	return d.page.URL()
}

func (d *Playwright) Title() string {
	title, err := d.page.Title()
	if err != nil {
		return ""
	}
	return title
}

func (d *Playwright) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	content, err := d.page.Content()
	if err != nil {
		return "", wrap(err)
	}
	return content, nil
}

// FindElements returns every element matching (mode, value) in document
// order. An empty result is not an error.
func (d *Playwright) FindElements(ctx context.Context, mode Mode, value string) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matches, err := d.page.Locator(selector(mode, value)).All()
	if err != nil {
		return nil, wrap(err)
	}
	elements := make([]Element, 0, len(matches))
	for _, match := range matches {
		elements = append(elements, &element{loc: match})
	}
	return elements, nil
}

func (d *Playwright) SendKeys(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return wrap(d.page.Keyboard().Press(key))
}

func selector(mode Mode, value string) string {
	switch mode {
	case ModeXPath:
		return "xpath=" + value
	case ModeID:
		return fmt.Sprintf("[id=%q]", value)
	case ModeName:
		return fmt.Sprintf("[name=%q]", value)
	case ModeValue:
		return fmt.Sprintf("[value=%q]", value)
	case ModeText:
		return fmt.Sprintf("text=%q", value)
	case ModePartialText:
		return "text=" + value
	default:
		return value
	}
}

type element struct {
	loc playwright.Locator
}

func (e *element) Visible() bool {
	visible, err := e.loc.IsVisible()
	return err == nil && visible
}

func (e *element) OuterHTML() string {
	html, err := e.loc.Evaluate("el => el.outerHTML", nil)
	if err != nil {
		return ""
	}
	text, _ := html.(string)
	return text
}

func (e *element) Click() error {
	return wrap(e.loc.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(float64(defaultActionTimeout.Milliseconds())),
	}))
}

func (e *element) Fill(text string) error {
	return wrap(e.loc.Fill(text, playwright.LocatorFillOptions{
		Timeout: playwright.Float(float64(defaultActionTimeout.Milliseconds())),
	}))
}

func (e *element) SelectOption(value string) error {
	_, err := e.loc.SelectOption(playwright.SelectOptionValues{
		ValuesOrLabels: &[]string{value},
	}, playwright.LocatorSelectOptionOptions{
		Timeout: playwright.Float(float64(defaultActionTimeout.Milliseconds())),
	})
	return wrap(err)
}

func (e *element) Check() error {
	return wrap(e.loc.Check(playwright.LocatorCheckOptions{
		Timeout: playwright.Float(float64(defaultActionTimeout.Milliseconds())),
	}))
}

// wrap folds a playwright error into the sentinel taxonomy. Context
// cancellation passes through untouched.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not visible"),
		strings.Contains(msg, "not interactable"),
		strings.Contains(msg, "intercepts pointer events"),
		strings.Contains(msg, "element is not enabled"):
		return fmt.Errorf("%w: %v", ErrNotInteractable, err)
	case strings.Contains(msg, "not attached"),
		strings.Contains(msg, "no element"),
		strings.Contains(msg, "not found"),
		strings.Contains(msg, "timeout"):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	default:
		return fmt.Errorf("%w: playwright: %v", ErrDriver, err)
	}
}

func parseBoolEnv(name string, def bool) bool {
	val := strings.TrimSpace(os.Getenv(name))
	if val == "" {
		return def
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

func parseIntEnv(name string, def int) int {
	val := strings.TrimSpace(os.Getenv(name))
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return parsed
}
