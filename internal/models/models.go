// package models defines the data model for the movie sync service
package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyTitle = errors.New("movie title is empty")
	ErrEmptyRunID = errors.New("sync run id is empty")
)

// Movie is a single title/release date pair. Title is the store's primary key.
type Movie struct {
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
}

// Validate rejects movies that cannot be keyed.
func (m Movie) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

func (m Movie) String() string { return fmt.Sprintf("%s (%s)", m.Title, m.ReleaseDate) }

// Batch is an ordered sequence of movies from one fetch.
type Batch []Movie

// Titles returns the titles in batch order.
func (b Batch) Titles() []string {
	titles := make([]string, len(b))
	for i, m := range b {
		titles[i] = m.Title
	}
	return titles
}

// Filter returns the movies for which keep reports true, preserving order.
// The result is never nil.
func (b Batch) Filter(keep func(Movie) bool) Batch {
	out := make(Batch, 0, len(b))
	for _, m := range b {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

// Head returns at most n movies from the front of the batch.
func (b Batch) Head(n int) Batch {
	if n < 0 || n >= len(b) {
		return b
	}
	return b[:n]
}

// Validate checks every movie in the batch.
func (b Batch) Validate() error {
	for i, m := range b {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("movie %d: %w", i, err)
		}
	}
	return nil
}
