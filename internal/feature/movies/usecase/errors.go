// Package usecase implements the business logic for the movies feature.
package usecase

import "errors"

var (
	// ErrMovieNotFound is returned when no movie has the requested id.
	ErrMovieNotFound = errors.New("movie not found")

	// ErrMovieAlreadyExists is returned when a movie with the same episode_id is already stored.
	ErrMovieAlreadyExists = errors.New("movie with this episode_id already exists")

	// ErrInvalidMovieID is returned when an id is not a well-formed identifier.
	ErrInvalidMovieID = errors.New("invalid movie ID format")

	// ErrUpstream is returned when the external films catalogue is unreachable or returns a malformed response.
	ErrUpstream = errors.New("external film source error")
)
