package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/seckatie/urlrota/internal/logger"
)

// ChromeLauncher opens URLs as tabs of one visible Chrome/Chromium window
// driven over the DevTools protocol.
//
// The browser is started on the first Launch and stays open until Close.
type ChromeLauncher struct {
	// ExecPath optionally overrides the Chrome/Chromium executable path.
	ExecPath string

	log logger.Logger

	mu            sync.Mutex
	browserCtx    context.Context
	cancelAlloc   context.CancelFunc
	cancelBrowser context.CancelFunc
	firstTabUsed  bool
	tabCancels    []context.CancelFunc
}

func NewChromeLauncher(execPath string, log logger.Logger) *ChromeLauncher {
	if log == nil {
		log = logger.Nop()
	}
	return &ChromeLauncher{ExecPath: execPath, log: log}
}

func (c *ChromeLauncher) start() error {
	c.dropStaleSession()
	if c.browserCtx != nil {
		return nil
	}

	allocatorOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocatorOpts = append(allocatorOpts,
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.Flag("headless", false),
	)
	if c.ExecPath != "" {
		allocatorOpts = append(allocatorOpts, chromedp.ExecPath(c.ExecPath))
	}

	// The session outlives individual runs, so it is not tied to a caller's ctx.
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocatorOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// The first Run starts the browser; it must not carry a timeout.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return err
	}

	c.browserCtx = browserCtx
	c.cancelAlloc = cancelAlloc
	c.cancelBrowser = cancelBrowser
	c.firstTabUsed = false
	c.log.Info("chrome session started", logger.String("exec_path", c.ExecPath))
	return nil
}

// Launch navigates a tab to url without waiting for the page to load. The
// blank tab Chrome starts with is reused for the first URL.
func (c *ChromeLauncher) Launch(ctx context.Context, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.start(); err != nil {
		return fmt.Errorf("%w: starting chrome: %w", ErrLaunchFailed, err)
	}

	tabCtx := c.browserCtx
	if c.firstTabUsed {
		var cancelTab context.CancelFunc
		tabCtx, cancelTab = chromedp.NewContext(c.browserCtx)
		if err := chromedp.Run(tabCtx); err != nil {
			cancelTab()
			return fmt.Errorf("%w: opening tab: %w", ErrLaunchFailed, err)
		}
		c.tabCancels = append(c.tabCancels, cancelTab)
	}
	c.firstTabUsed = true

	runCtx, cancel := context.WithTimeout(tabCtx, chromeLaunchTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, _, errText, _, err := page.Navigate(url).Do(ctx)
		if err != nil {
			return err
		}
		if errText != "" {
			return fmt.Errorf("navigate %s: %s", url, errText)
		}
		return nil
	}))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLaunchFailed, err)
	}
	return nil
}

// dropStaleSession forgets a session whose browser is gone, for example
// because the user closed the window, so the next start launches a new one.
func (c *ChromeLauncher) dropStaleSession() {
	if c.browserCtx == nil || c.browserCtx.Err() == nil {
		return
	}
	c.log.Warn("chrome session ended, starting a new one on next launch")
	c.release()
}

// release cancels every tab and the browser and clears the session.
func (c *ChromeLauncher) release() {
	for _, cancel := range c.tabCancels {
		cancel()
	}
	c.tabCancels = nil
	c.cancelBrowser()
	c.cancelAlloc()
	c.browserCtx = nil
	c.firstTabUsed = false
}

// Close closes every tab and the browser.
func (c *ChromeLauncher) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browserCtx == nil {
		return nil
	}
	var err error
	if c.browserCtx.Err() == nil {
		err = chromedp.Cancel(c.browserCtx)
	}
	c.release()
	c.log.Info("chrome session closed")
	return err
}
