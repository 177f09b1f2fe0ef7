package cache

import (
	"strconv"
	"strings"

	"house-inventory/internal/models"
)

// ListKeyPrefix starts every list cache key.
const ListKeyPrefix = "houses"

// GenerateKey serializes pagination and filter into a list cache key:
// houses|page:N|limit:N|<field>:<value>... with filter fields in a fixed
// order, so equal requests always share a key.
func GenerateKey(p *models.PaginationRequest, f *models.HouseFilter) string {
	parts := []string{ListKeyPrefix}
	if p != nil {
		parts = append(parts, "page:"+strconv.Itoa(p.Page), "limit:"+strconv.Itoa(p.Limit))
	}
	for _, param := range f.RequestParams() {
		parts = append(parts, param.Key+":"+param.Value)
	}
	return strings.Join(parts, "|")
}

// TokenKey namespaces a token storage key.
func TokenKey(prefix, name string) string {
	return prefix + name
}
