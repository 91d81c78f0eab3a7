package client

import "net/url"

// Query holds parameters appended to the URL's own query. Keys are encoded in the
// sorted order, so equal queries always render identically.
type Query map[string][]string

func NewQuery() Query {
	return make(Query)
}

func (q Query) WithValue(key string, values ...string) Query {
	q[key] = append(q[key], values...)
	return q
}

// Encode renders the query in the application/x-www-form-urlencoded form.
func (q Query) Encode() string {
	return url.Values(q).Encode()
}
