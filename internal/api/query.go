package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pders01/scriptorium/internal/resource"
	"github.com/pders01/scriptorium/internal/search"
)

// ParseRequest builds a search request from query parameters. List filters
// accept repeated keys and comma-separated values.
func ParseRequest(q url.Values) (search.Request, error) {
	var req search.Request
	var err error

	req.Query = q.Get("q")
	if req.Query == "" {
		req.Query = q.Get("query")
	}

	if req.Page, err = queryInt(q, "page", 0); err != nil {
		return req, err
	}
	if req.Limit, err = queryInt(q, "limit", 0); err != nil {
		return req, err
	}
	if raw := q.Get("sortBy"); raw != "" {
		if req.SortBy, err = search.ParseSortBy(raw); err != nil {
			return req, err
		}
	}

	f := &req.Filters
	f.Religion = list(q, "religion")
	f.Type = list(q, "type")
	f.Language = list(q, "language")
	f.Period = list(q, "period")
	f.Topics = list(q, "topics")
	f.Denomination = list(q, "denomination")

	if f.Verified, err = queryBool(q, "verified"); err != nil {
		return req, err
	}
	if f.HasScientificStudies, err = queryBool(q, "hasScientificStudies"); err != nil {
		return req, err
	}

	for _, raw := range list(q, "sourceType") {
		st, err := resource.ParseSourceType(raw)
		if err != nil {
			return req, err
		}
		f.SourceType = append(f.SourceType, st)
	}

	return req, nil
}

func list(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func queryInt(q url.Values, key string, def int) (int, error) {
	s := q.Get(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return v, nil
}

func queryBool(q url.Values, key string) (*bool, error) {
	s := q.Get(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, s)
	}
	return &v, nil
}
