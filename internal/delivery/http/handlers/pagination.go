package handlers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/gin-gonic/gin"
)

// Paginator - постраничная выдача в формате {count, next, previous, results}
type Paginator struct {
	DefaultSize int
	MaxSize     int
	// PublicURL - внешний адрес сервиса для абсолютных ссылок. Пусто - берется из запроса
	PublicURL string
}

type ListResponse[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

type PageParams struct {
	Page int
	Size int
}

func (p Paginator) Parse(c *gin.Context) (PageParams, error) {
	params := PageParams{Page: 1, Size: p.DefaultSize}
	if params.Size <= 0 {
		params.Size = 10
	}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return params, fmt.Errorf("invalid page %q: %w", raw, domain.ErrNotFound)
		}
		params.Page = page
	}
	if raw := c.Query("page_size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			params.Size = size
		}
	}
	if p.MaxSize > 0 && params.Size > p.MaxSize {
		params.Size = p.MaxSize
	}
	return params, nil
}

func NewListResponse[T any](c *gin.Context, p Paginator, params PageParams, total int64, results []T) ListResponse[T] {
	if results == nil {
		results = []T{}
	}
	resp := ListResponse[T]{Count: total, Results: results}
	if int64(params.Page*params.Size) < total {
		next := p.pageURL(c, params.Page+1)
		resp.Next = &next
	}
	if params.Page > 1 {
		prev := p.pageURL(c, params.Page-1)
		resp.Previous = &prev
	}
	return resp
}

func (p Paginator) pageURL(c *gin.Context, page int) string {
	base := strings.TrimRight(p.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + c.Request.Host
	}
	query := url.Values{}
	for k, v := range c.Request.URL.Query() {
		query[k] = v
	}
	// первая страница в DRF отдается без параметра page
	if page == 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}
	u := base + c.Request.URL.Path
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}
