package query

import (
	"net/url"
	"sync"
)

// Navigator receives the canonical query parameters of the current view.
// Implementations must not reload or navigate away.
type Navigator interface {
	SetQueryParam(key, value string)
}

// URLNavigator keeps the shareable URL of the current view.
// Front-ends read URL() to push it into the browser history or print it.
type URLNavigator struct {
	mu  sync.Mutex
	url url.URL
}

// NewURLNavigator creates a navigator rooted at base (e.g. "/" or "http://host:8080/").
func NewURLNavigator(base string) (*URLNavigator, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	return &URLNavigator{url: *u}, nil
}

// SetQueryParam overwrites one parameter, keeping the others.
func (n *URLNavigator) SetQueryParam(key, value string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	q := n.url.Query()
	q.Set(key, value)
	n.url.RawQuery = q.Encode()
}

// Param returns the current (decoded once) value of a parameter.
func (n *URLNavigator) Param(key string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.url.Query().Get(key)
}

// URL returns the current URL as a string.
func (n *URLNavigator) URL() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.url.String()
}
