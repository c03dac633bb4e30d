// Package language holds the closed vocabulary of audio languages recognised
// in release names and captions.
//
// The same word list drives two consumers: the attribute classifier, which
// reports the languages present, and the identity normalizer, which strips
// them so a dubbed and an original upload share one release key.
package language
