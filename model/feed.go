package model

import (
	"encoding/json"
)

const feedKeyPrefix = "main-feed:"

/*

Feed is the result of a feed query

Links: the page of links selected by skip and take
Count: number of links matching the filter, ignoring skip and take
Id: identity of the query, derived from its arguments, see FeedArgs.Key

*/
type Feed struct {
	Links []*Link
	Count int
	Id    string
}

// Sort is the direction of an ordering clause.
type Sort string

const (
	SortAsc  Sort = "asc"
	SortDesc Sort = "desc"
)

// IsValid returns true iff s is one of the known directions.
func (s Sort) IsValid() bool {
	return s == SortAsc || s == SortDesc
}

// LinkOrderByInput selects the columns a feed is ordered by. Within one input
// the columns are applied in field order.
type LinkOrderByInput struct {
	Description *Sort `json:"description,omitempty"`
	Url         *Sort `json:"url,omitempty"`
	CreatedAt   *Sort `json:"createdAt,omitempty"`
}

// FeedArgs are the arguments of a feed query. Nil fields were not provided by
// the client.
type FeedArgs struct {
	Filter  *string            `json:"filter,omitempty"`
	Skip    *int               `json:"skip,omitempty"`
	Take    *int               `json:"take,omitempty"`
	OrderBy []LinkOrderByInput `json:"orderBy,omitempty"`
}

// Key returns the identity of the feed produced by these arguments, e.g.
// main-feed:{"filter":"go","take":10}. Two queries with the same arguments
// always produce the same key.
func (a FeedArgs) Key() string {
	// Only strings, ints and Sort values, marshal can't fail.
	b, _ := json.Marshal(a)
	return feedKeyPrefix + string(b)
}
