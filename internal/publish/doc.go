// Package publish turns a flushed batch into one announcement per release
// and keeps that announcement current.
//
// Aggregate folds the batch into a Summary, Render formats the caption, and
// Publisher decides between editing the post recorded in its Index and
// sending a new one. Repeated flushes for the same key converge on a single
// visible post. The Index lives for the process lifetime only.
package publish
