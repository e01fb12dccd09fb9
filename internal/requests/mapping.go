package requests

import "net/url"

// Filters contains optional exact-match criteria applied after the search term
// and status filter. Nil fields are ignored.
type Filters struct {
	Status      *string      `json:"status,omitempty"`
	RequestType *RequestType `json:"request_type,omitempty"`
	Priority    *Priority    `json:"priority,omitempty"`
}

// StatusFilter returns the status filter value, defaulting to FilterAll.
func (f Filters) StatusFilter() string {
	if f.Status == nil || *f.Status == "" {
		return FilterAll
	}
	return *f.Status
}

// Match reports whether r satisfies the type and priority criteria.
func (f Filters) Match(r Request) bool {
	if f.RequestType != nil && r.RequestType != *f.RequestType {
		return false
	}
	if f.Priority != nil && r.Priority != *f.Priority {
		return false
	}
	return true
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if t := values.Get("request_type"); t != "" {
		rt := RequestType(t)
		f.RequestType = &rt
	}

	if p := values.Get("priority"); p != "" {
		pr := Priority(p)
		f.Priority = &pr
	}

	return f
}

func matchStatus(r Request, statusFilter string) bool {
	return statusFilter == FilterAll || string(r.Status) == statusFilter
}

func validStatusFilter(statusFilter string) bool {
	return statusFilter == FilterAll || Status(statusFilter).Valid()
}
