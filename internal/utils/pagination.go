package utils

import (
	"net/url"

	"house-inventory/internal/models"
)

// BuildQuery encodes pagination and filter as request parameters. Page and
// limit come first, then the set filter fields.
func BuildQuery(p *models.PaginationRequest, f *models.HouseFilter) url.Values {
	q := url.Values{}
	for _, param := range p.RequestParams() {
		q.Set(param.Key, param.Value)
	}
	for _, param := range f.RequestParams() {
		q.Set(param.Key, param.Value)
	}
	return q
}

// BuildURL appends the encoded query to baseURL, keeping any query the
// base already carries.
func BuildURL(baseURL string, params url.Values) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for key, values := range params {
		q.Del(key)
		for _, value := range values {
			q.Add(key, value)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
