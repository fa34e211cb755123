package registry

import (
	"fmt"
	"strings"
)

// Query is one key=value pair of an endpoint query string.
type Query struct {
	Key   string
	Value any
}

// CreateEndpoint joins the non-empty segments onto the configured API URL
// and appends queries. Values are not percent-encoded. Empty segments,
// a leading one included, are dropped, so the result never contains "//"
// after the base; CreateEndpoint([]string{"", "a"}) is "<api>/a".
func (s *Service) CreateEndpoint(segments []string, queries ...Query) string {
	return createEndpoint(s.prefs.APIURL(), segments, queries)
}

func createEndpoint(base string, segments []string, queries []Query) string {
	var b strings.Builder
	b.WriteString(base)
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		b.WriteString("/")
		b.WriteString(seg)
	}
	if len(queries) > 0 {
		pairs := make([]string, len(queries))
		for i, q := range queries {
			pairs[i] = q.Key + "=" + fmt.Sprint(q.Value)
		}
		b.WriteString("?")
		b.WriteString(strings.Join(pairs, "&"))
	}
	return b.String()
}
