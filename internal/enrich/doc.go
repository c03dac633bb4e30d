// Package enrich resolves a release key to display metadata by consulting an
// ordered list of lookup sources.
//
// Each field is taken from the first source that supplies it, so a later
// source can contribute genres even when an earlier one already provided the
// title. Source failures never reach the caller: a timeout, HTTP error, or
// malformed payload simply means that source contributes nothing. When no
// source answers, Resolve returns the key as the title with kind MOVIE and no
// poster.
package enrich
