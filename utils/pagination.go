package utils

import (
	"fmt"
	"net/url"
	"strconv"

	"storefront/models"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

func TotalPages(totalItems, limit int) int {
	if totalItems <= 0 || limit <= 0 {
		return 0
	}
	return (totalItems + limit - 1) / limit
}

// BuildLinks renders self/prev/next links for baseURL, keeping every query
// parameter except page and limit.
func BuildLinks(baseURL string, query url.Values, page, limit, totalPages int) models.PaginationLinks {
	makeURL := func(pageNum int) string {
		params := url.Values{}
		for key, values := range query {
			if key == "page" || key == "limit" {
				continue
			}
			for _, value := range values {
				params.Add(key, value)
			}
		}
		params.Set("page", strconv.Itoa(pageNum))
		params.Set("limit", strconv.Itoa(limit))
		return fmt.Sprintf("%s?%s", baseURL, params.Encode())
	}

	links := models.PaginationLinks{Self: makeURL(page)}
	if page > 1 {
		links.Prev = makeURL(page - 1)
	}
	if page < totalPages {
		links.Next = makeURL(page + 1)
	}
	return links
}
