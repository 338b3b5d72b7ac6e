package models

import "github.com/delvedns/delvedns/internal/journal"

// QueriesResponse lists recently journaled queries, newest first.
type QueriesResponse struct {
	Count   int             `json:"count"`
	Queries []journal.Entry `json:"queries"`
}
