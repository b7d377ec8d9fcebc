// Package entity defines the domain models for the movies feature.
package entity

import "time"

// Movie is a stored film record. The five name lists hold display names,
// never resource URLs.
type Movie struct {
	ID           string    // Opaque generated identifier (UUID)
	Title        string    // Film title
	EpisodeID    int       // Business key, unique across movies
	OpeningCrawl string    // Optional opening crawl text
	Director     string    // Director name(s)
	Producer     string    // Producer name(s)
	ReleaseDate  time.Time // Release date (date only)
	Characters   []string
	Planets      []string
	Starships    []string
	Vehicles     []string
	Species      []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MoviePatch holds the fields supplied to an update. Nil means "leave as is".
type MoviePatch struct {
	Title        *string
	EpisodeID    *int
	OpeningCrawl *string
	Director     *string
	Producer     *string
	ReleaseDate  *time.Time
	Characters   []string
	Planets      []string
	Starships    []string
	Vehicles     []string
	Species      []string
}

// Apply merges the supplied fields of p into m.
func (p MoviePatch) Apply(m *Movie) {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.EpisodeID != nil {
		m.EpisodeID = *p.EpisodeID
	}
	if p.OpeningCrawl != nil {
		m.OpeningCrawl = *p.OpeningCrawl
	}
	if p.Director != nil {
		m.Director = *p.Director
	}
	if p.Producer != nil {
		m.Producer = *p.Producer
	}
	if p.ReleaseDate != nil {
		m.ReleaseDate = *p.ReleaseDate
	}
	if p.Characters != nil {
		m.Characters = p.Characters
	}
	if p.Planets != nil {
		m.Planets = p.Planets
	}
	if p.Starships != nil {
		m.Starships = p.Starships
	}
	if p.Vehicles != nil {
		m.Vehicles = p.Vehicles
	}
	if p.Species != nil {
		m.Species = p.Species
	}
}

// ExternalFilm is a film as published by the external catalogue. The five
// reference lists hold resource URLs that still have to be resolved to names.
type ExternalFilm struct {
	Title        string
	EpisodeID    int
	OpeningCrawl string
	Director     string
	Producer     string
	ReleaseDate  time.Time
	Characters   []string
	Planets      []string
	Starships    []string
	Vehicles     []string
	Species      []string
}
