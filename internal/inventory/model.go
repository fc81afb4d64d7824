package inventory

import "errors"

var (
	ErrNotFound     = errors.New("item not found")
	ErrConflict     = errors.New("item already exists")
	ErrInvalidInput = errors.New("invalid input")
)

// Item is one inventory record. Name is the unique key and never changes after creation.
type Item struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}
