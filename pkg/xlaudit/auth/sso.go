package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ErrAuthTimeout is returned when the user does not complete the sign-in
// within the configured budget.
var ErrAuthTimeout = errors.New("authentication timed out")

// DefaultAuthTimeout is the wall-clock budget for the interactive sign-in.
const DefaultAuthTimeout = 5 * time.Minute

const authPollInterval = 500 * time.Millisecond

// loginURLPatterns match identity-provider pages the browser lands on
// before the sign-in completes.
var loginURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`login\.microsoftonline\.com`),
	regexp.MustCompile(`login\.live\.com`),
	regexp.MustCompile(`adfs\.`),
	regexp.MustCompile(`federation`),
}

// postLoginSelectors match account UI elements SharePoint renders once
// the user is signed in.
var postLoginSelectors = []string{
	`[data-automation-id='mectrl_main_trigger']`,
	`#O365_MainLink_Me`,
	`.ms-Persona`,
}

// DomainOf extracts the host from a SharePoint URL.
func DomainOf(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("URL has no host: %s", rawURL)
	}
	return parsed.Host, nil
}

func isLoginURL(u string) bool {
	for _, pattern := range loginURLPatterns {
		if pattern.MatchString(u) {
			return true
		}
	}
	return false
}

// Authenticator establishes authenticated browser sessions against
// SharePoint, reusing stored cookies when they are still valid.
type Authenticator struct {
	store   *Store
	timeout time.Duration
	log     *zap.Logger
}

// NewAuthenticator builds an Authenticator over the given store. A zero
// timeout defaults to DefaultAuthTimeout and a nil logger is replaced
// with a no-op one.
func NewAuthenticator(store *Store, timeout time.Duration, log *zap.Logger) *Authenticator {
	if timeout <= 0 {
		timeout = DefaultAuthTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Authenticator{store: store, timeout: timeout, log: log}
}

// BrowserSession is a live authenticated browser. Ctx is a chromedp
// context usable with chromedp.Run; Close tears the browser down.
type BrowserSession struct {
	// Ctx is the chromedp browser context.
	Ctx context.Context
	// Domain is the SharePoint host the session is authenticated for.
	Domain string

	cancels []context.CancelFunc
}

// Close shuts the browser down and releases the allocator.
func (s *BrowserSession) Close() {
	for i := len(s.cancels) - 1; i >= 0; i-- {
		s.cancels[i]()
	}
}

// Session returns an authenticated browser session for the given
// SharePoint URL. Stored cookies are tried first; when absent, expired or
// rejected, a visible browser window is opened for interactive SSO and
// the resulting cookies are saved for reuse.
func (a *Authenticator) Session(ctx context.Context, sharepointURL string) (*BrowserSession, error) {
	domain, err := DomainOf(sharepointURL)
	if err != nil {
		return nil, err
	}

	// The window must be visible so the user can complete the login.
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", false),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	session := &BrowserSession{
		Ctx:     browserCtx,
		Domain:  domain,
		cancels: []context.CancelFunc{cancelAlloc, cancelBrowser},
	}

	if a.store.HasValidSession(domain) {
		if err := a.restoreCookies(browserCtx, domain); err == nil {
			var location string
			err := chromedp.Run(browserCtx,
				chromedp.Navigate(sharepointURL),
				chromedp.Sleep(2*time.Second),
				chromedp.Location(&location),
			)
			if err == nil && !isLoginURL(location) {
				a.log.Info("reusing cached session", zap.String("domain", domain))
				return session, nil
			}
			a.log.Info("cached session rejected, re-authenticating", zap.String("domain", domain))
		} else {
			a.log.Warn("cached session unreadable, re-authenticating",
				zap.String("domain", domain), zap.Error(err))
		}
	}

	a.log.Info("opening browser for Microsoft 365 sign-in",
		zap.String("url", sharepointURL))
	if err := chromedp.Run(browserCtx, chromedp.Navigate(sharepointURL)); err != nil {
		session.Close()
		return nil, fmt.Errorf("opening sign-in page: %w", err)
	}

	if err := a.waitForLogin(browserCtx, domain); err != nil {
		session.Close()
		return nil, err
	}

	if err := a.persistCookies(browserCtx, domain, sharepointURL); err != nil {
		a.log.Warn("failed to save session", zap.String("domain", domain), zap.Error(err))
	} else {
		a.log.Info("authentication successful, session saved", zap.String("domain", domain))
	}
	return session, nil
}

// waitForLogin polls the page until it has left the identity provider and
// landed back on the SharePoint domain, then looks for a signed-in
// account element. The URL check alone is accepted when no account
// element renders.
func (a *Authenticator) waitForLogin(browserCtx context.Context, domain string) error {
	deadline := time.Now().Add(a.timeout)
	ticker := time.NewTicker(authPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-browserCtx.Done():
			return browserCtx.Err()
		case <-ticker.C:
		}
		if time.Now().After(deadline) {
			return ErrAuthTimeout
		}

		var location string
		if err := chromedp.Run(browserCtx, chromedp.Location(&location)); err != nil {
			return fmt.Errorf("reading browser location: %w", err)
		}
		parsed, err := url.Parse(location)
		if err != nil || parsed.Host != domain || isLoginURL(location) {
			continue
		}

		for _, sel := range postLoginSelectors {
			checkCtx, cancel := context.WithTimeout(browserCtx, 2*time.Second)
			err := chromedp.Run(checkCtx, chromedp.WaitVisible(sel, chromedp.ByQuery))
			cancel()
			if err == nil {
				return nil
			}
		}
		// Landed on the domain without a recognizable account element.
		return nil
	}
}

func (a *Authenticator) restoreCookies(browserCtx context.Context, domain string) error {
	cookies, err := a.store.LoadCookies(domain)
	if err != nil {
		return err
	}
	params := make([]*network.CookieParam, 0, len(cookies))
	for _, c := range cookies {
		param := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
		}
		if c.Expires > 0 {
			expires := epochTime(c.Expires)
			param.Expires = &expires
		}
		params = append(params, param)
	}
	return chromedp.Run(browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		return storage.SetCookies(params).Do(ctx)
	}))
}

func (a *Authenticator) persistCookies(browserCtx context.Context, domain, sharepointURL string) error {
	var cookies []*network.Cookie
	err := chromedp.Run(browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = storage.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return err
	}

	stored := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		})
	}
	if err := a.store.SaveCookies(domain, stored); err != nil {
		return err
	}
	return a.store.SaveSession(domain, map[string]string{"url": sharepointURL})
}

func epochTime(seconds float64) cdp.TimeSinceEpoch {
	sec := int64(seconds)
	nsec := int64((seconds - float64(sec)) * float64(time.Second))
	return cdp.TimeSinceEpoch(time.Unix(sec, nsec))
}
