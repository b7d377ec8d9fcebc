// Package dto defines data transfer objects for the SWAPI responses.
package dto

// FilmListResponse represents the JSON response from the films endpoint.
type FilmListResponse struct {
	Count   int     `json:"count"`
	Next    *string `json:"next"`
	Results []Film  `json:"results"`
}

// Film is a single entry of FilmListResponse.Results.
type Film struct {
	Title        string   `json:"title"`
	EpisodeID    int      `json:"episode_id"`
	OpeningCrawl string   `json:"opening_crawl"`
	Director     string   `json:"director"`
	Producer     string   `json:"producer"`
	ReleaseDate  string   `json:"release_date"`
	Characters   []string `json:"characters"`
	Planets      []string `json:"planets"`
	Starships    []string `json:"starships"`
	Vehicles     []string `json:"vehicles"`
	Species      []string `json:"species"`
	URL          string   `json:"url"`
}

// Resource is the subset of any SWAPI resource needed to display it.
// People, planets, starships, vehicles and species carry "name"; films carry "title".
type Resource struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}
