// Package release turns noisy upload names into a stable release identity and
// the display attributes that accompany it.
//
// Normalize derives the Key shared by every file of one movie or one season:
// release tags are stripped, a year or season marker terminates the title, and
// the remainder is display-cased. The Detect* classifiers are independent pure
// functions over the filename plus caption. Describe combines both into the
// FileDescriptor the coalescing queue accumulates.
//
// Nothing here performs I/O or holds state; all functions are safe for
// concurrent use.
package release
