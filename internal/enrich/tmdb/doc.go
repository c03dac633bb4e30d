// Package tmdb is the TMDB lookup source for release metadata.
//
// The Client wraps the search and details endpoints the enricher needs. Source
// adapts it to enrich.Source: series keys search TV titles by season, other
// keys use multi search with the key's year, and the best match's details
// supply genres. Landscape backdrops are preferred over portrait posters.
package tmdb
