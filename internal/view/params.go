package view

import (
	"net/url"
	"strconv"
)

// SearchParams are the search page parameters, carried in the URL so
// result views stay shareable.
type SearchParams struct {
	Query string
}

// SearchParamsFromQuery decodes search parameters from a URL query.
func SearchParamsFromQuery(q url.Values) SearchParams {
	return SearchParams{Query: q.Get("q")}
}

// Values encodes the parameters back into a URL query.
func (p SearchParams) Values() url.Values {
	v := url.Values{}
	if p.Query != "" {
		v.Set("q", p.Query)
	}
	return v
}

// ContentParams are the content feed parameters: type filter and page
// number.
type ContentParams struct {
	Type string
	Page int
}

// ContentParamsFromQuery decodes content feed parameters. Page numbers
// start at 1; anything unparsable falls back to the first page.
func ContentParamsFromQuery(q url.Values) ContentParams {
	p := ContentParams{
		Type: q.Get("type"),
		Page: 1,
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		p.Page = n
	}
	return p
}

// Values encodes the parameters back into a URL query.
func (p ContentParams) Values() url.Values {
	v := url.Values{}
	if p.Type != "" {
		v.Set("type", p.Type)
	}
	if p.Page > 1 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	return v
}

// PrevPage returns the previous page number, floored at 1.
func (p ContentParams) PrevPage() int {
	if p.Page <= 1 {
		return 1
	}
	return p.Page - 1
}

// NextPage returns the next page number.
func (p ContentParams) NextPage() int {
	return p.Page + 1
}
