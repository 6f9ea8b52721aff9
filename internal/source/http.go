package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// DefaultTimeout bounds a single HTTP request.
const DefaultTimeout = 15 * time.Second

// maxBody caps the size of one fetched file.
const maxBody = 32 << 20

// HTTP reads data from a web server that serves the data directory, with
// directory listings rendered as HTML index pages.
type HTTP struct {
	BaseURL *url.URL
	client  *http.Client
}

// NewHTTP returns a Source rooted at baseURL. A zero timeout uses
// DefaultTimeout.
func NewHTTP(baseURL string, timeout time.Duration) (*HTTP, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTP{
		BaseURL: u,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (h *HTTP) String() string {
	return "http:" + h.BaseURL.String()
}

// URL returns the absolute URL of a path under the base URL.
func (h *HTTP) URL(p string) (string, error) {
	rel, err := cleanRel(p)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return h.BaseURL.String(), nil
	}
	if strings.HasSuffix(p, "/") {
		rel += "/"
	}
	ref := &url.URL{Path: rel}
	return h.BaseURL.ResolveReference(ref).String(), nil
}

func (h *HTTP) get(ctx context.Context, p string) (string, error) {
	u, err := h.URL(p)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", u, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%s: %w", p, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return "", &StatusError{URL: u, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", u, err)
	}
	return string(body), nil
}

// FetchText implements Source.
func (h *HTTP) FetchText(ctx context.Context, p string) (string, error) {
	return h.get(ctx, p)
}

// List implements Source by reading the HTML index page of dir and keeping
// the anchors whose href ends in ext.
func (h *HTTP) List(ctx context.Context, dir, ext string) ([]string, error) {
	body, err := h.get(ctx, strings.TrimSuffix(dir, "/")+"/")
	if err != nil {
		return nil, err
	}
	hrefs, err := ListingLinks(strings.NewReader(body), ext)
	if err != nil {
		return nil, fmt.Errorf("parse listing %s: %w", dir, err)
	}
	return filterNames(hrefs, ext), nil
}

// ListingLinks returns the href of every anchor in an HTML document whose
// path ends in ext. Query strings and fragments are ignored.
func ListingLinks(r io.Reader, ext string) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := getAttr(n, "href"); href != "" {
				if u, err := url.Parse(href); err == nil {
					if strings.HasSuffix(u.Path, ext) {
						links = append(links, u.Path)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
