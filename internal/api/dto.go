package api

import "emphasize/internal/articleservice"

// ArticleDetail is the full article response type (aliased from the domain
// layer).
type ArticleDetail = articleservice.ArticleDetail

// ArticleListItem is a lightweight item in a list response (aliased from
// the domain layer).
type ArticleListItem = articleservice.ArticleListItem

// ArticleListResponse wraps paginated article listings.
type ArticleListResponse struct {
	Articles []ArticleListItem `json:"articles"`
	Total    int               `json:"total"`
}

// StatusResponse reports the serving state (aliased from the domain layer).
type StatusResponse = articleservice.StatusInfo
