// Package portal scrapes the college ERP: captcha login, dashboard pages and
// logout, plus the syllabus source the SPA reads from.
package portal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	maxRedirects = 10
	maxBodyBytes = 8 << 20
)

// Client talks to one ERP deployment. It holds no session state: every call
// receives the session cookie it should act on.
type Client struct {
	cfg  Config
	base *url.URL
	http *http.Client
	log  logrus.FieldLogger
}

func NewClient(cfg Config, log logrus.FieldLogger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid portal base url %q: %w", cfg.BaseURL, err)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return &Client{
		cfg:  cfg,
		base: base,
		http: &http.Client{
			Timeout: cfg.Timeout,
			// redirects are followed by fetch so cookies set along the way are kept
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		log: log,
	}, nil
}

func (c *Client) resolve(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return c.base.ResolveReference(u).String()
}

// response is a fetched body with the URL it was finally served from and the
// cookie string after every Set-Cookie seen on the way.
type response struct {
	status      int
	url         *url.URL
	cookie      string
	contentType string
	body        []byte
}

func (c *Client) fetch(ctx context.Context, method, target, cookie, referer string, form url.Values) (*response, error) {
	for hop := 0; hop <= maxRedirects; hop++ {
		var body io.Reader
		if form != nil {
			body = strings.NewReader(form.Encode())
		}
		req, err := http.NewRequestWithContext(ctx, method, target, body)
		if err != nil {
			return nil, fmt.Errorf("error creating request: %w", err)
		}
		req.Header.Set("User-Agent", c.cfg.UserAgent)
		if referer != "" {
			req.Header.Set("Referer", referer)
		}
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
		if cookie != "" {
			req.Header.Set("Cookie", cookie)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("error requesting %s: %w", target, err)
		}
		cookie = mergeCookies(cookie, resp.Cookies())
		c.log.WithFields(logrus.Fields{"url": req.URL.String(), "status": resp.StatusCode}).Debug("portal request")

		if loc := resp.Header.Get("Location"); loc != "" && resp.StatusCode >= 300 && resp.StatusCode < 400 {
			resp.Body.Close()
			next, err := req.URL.Parse(loc)
			if err != nil {
				return nil, fmt.Errorf("invalid redirect from %s: %w", target, err)
			}
			referer, target = req.URL.String(), next.String()
			if resp.StatusCode != http.StatusTemporaryRedirect && resp.StatusCode != http.StatusPermanentRedirect {
				method, form = http.MethodGet, nil
			}
			continue
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", target, err)
		}
		if len(data) > maxBodyBytes {
			return nil, fmt.Errorf("response from %s exceeds %d bytes", target, maxBodyBytes)
		}
		return &response{
			status:      resp.StatusCode,
			url:         req.URL,
			cookie:      cookie,
			contentType: resp.Header.Get("Content-Type"),
			body:        data,
		}, nil
	}
	return nil, fmt.Errorf("too many redirects requesting %s", target)
}

// page is an HTML response parsed with goquery.
type page struct {
	doc    *goquery.Document
	url    *url.URL
	cookie string
}

func (c *Client) doPortalRequest(ctx context.Context, method, target, cookie, referer string, form url.Values) (*page, error) {
	resp, err := c.fetch(ctx, method, target, cookie, referer, form)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.status, target)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.body))
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML from %s: %w", target, err)
	}
	doc.Url = resp.url
	return &page{doc: doc, url: resp.url, cookie: resp.cookie}, nil
}

// mergeCookies folds Set-Cookie values into a Cookie header, keeping the
// order cookies were first seen in. Expired cookies are dropped.
func mergeCookies(header string, set []*http.Cookie) string {
	var names []string
	values := map[string]string{}
	put := func(name, value string) {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
		values[name] = value
	}

	if header != "" {
		if parsed, err := http.ParseCookie(header); err == nil {
			for _, ck := range parsed {
				put(ck.Name, ck.Value)
			}
		}
	}
	for _, ck := range set {
		if ck.MaxAge < 0 {
			delete(values, ck.Name)
			continue
		}
		put(ck.Name, ck.Value)
	}

	parts := make([]string, 0, len(names))
	for _, name := range names {
		if v, ok := values[name]; ok {
			parts = append(parts, name+"="+v)
		}
	}
	return strings.Join(parts, "; ")
}

// hiddenFields collects the hidden inputs of a form, ASP.NET view state
// included.
func hiddenFields(form *goquery.Selection) map[string]string {
	fields := map[string]string{}
	form.Find("input[type='hidden']").Each(func(_ int, in *goquery.Selection) {
		if name, ok := in.Attr("name"); ok && name != "" {
			fields[name] = in.AttrOr("value", "")
		}
	})
	return fields
}

func hasLoginForm(doc *goquery.Document) bool {
	return doc.Find(loginFormSelector).Length() > 0
}
