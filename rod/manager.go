package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
)

// DefaultMaxPages is how many pages a browser renders before it is replaced.
// A shell session converts one URL per prompt, so 50 renders is a long
// session; the restart costs one extra launch of a second or so.
const DefaultMaxPages = 50

// chromeFlags keep a headless tab rendering at full speed while it is never
// focused, and let Chrome run in containers with a small /dev/shm.
var chromeFlags = []flags.Flag{
	"disable-background-timer-throttling",
	"disable-renderer-backgrounding",
	"disable-dev-shm-usage",
}

// BrowserManager owns the Chrome process behind a render session. Chrome
// keeps memory from closed tabs, so after maxPages renders the process is
// swapped for a fresh one between two conversions.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher

	rendered atomic.Int64
	maxPages int64
	restarts atomic.Int64
	closed   atomic.Bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the number of renders per browser process. Values
// below one keep a single process for the whole session.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// NewBrowserManager starts Chrome. It fails when no Chrome or Chromium
// binary can be found or downloaded.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(bm)
	}

	browser, l, err := startChrome()
	if err != nil {
		return nil, err
	}
	bm.browser, bm.launcher = browser, l
	return bm, nil
}

// Browser returns the browser for the next render. When the current process
// has used up its renders it is replaced first. Report the finished render
// with IncrementPageCount.
func (bm *BrowserManager) Browser() *rod.Browser {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.maxPages > 0 && bm.rendered.Load() >= bm.maxPages {
		bm.replace()
	}
	return bm.browser
}

// IncrementPageCount counts one finished render against the current process.
func (bm *BrowserManager) IncrementPageCount() {
	bm.rendered.Add(1)
}

// Restarts reports how many times the browser process was replaced.
func (bm *BrowserManager) Restarts() int64 {
	return bm.restarts.Load()
}

// Close stops Chrome. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()
	err := stopChrome(bm.browser, bm.launcher)
	bm.browser, bm.launcher = nil, nil
	return err
}

// LauncherPID returns the process ID of the browser launcher, or zero after
// Close.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}

// replace swaps in a fresh process. If Chrome cannot be started again the
// old process keeps serving and the count is left as is, so the next render
// retries. Must be called with mu held.
func (bm *BrowserManager) replace() {
	browser, l, err := startChrome()
	if err != nil {
		return
	}

	_ = stopChrome(bm.browser, bm.launcher)
	bm.browser, bm.launcher = browser, l
	bm.rendered.Store(0)
	bm.restarts.Add(1)
}

func startChrome() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().Leakless(true).Headless(true)
	for _, flag := range chromeFlags {
		l = l.Set(flag)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return browser, l, nil
}

func stopChrome(browser *rod.Browser, l *launcher.Launcher) error {
	var err error
	if browser != nil {
		err = browser.Close()
	}
	if l != nil {
		l.Kill()
	}
	return err
}
