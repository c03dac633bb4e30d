package publish

import "context"

// Handle identifies a message previously sent to the destination.
type Handle int64

// Link is an action button attached under a post.
type Link struct {
	Text string
	URL  string
}

// Post is one rendered announcement.
type Post struct {
	Destination int64
	PhotoURL    string
	Caption     string
	Links       []Link
}

// Transport delivers posts. Edit replaces the image and caption of an
// existing message; any error means the message could not be updated.
type Transport interface {
	Send(ctx context.Context, post Post) (Handle, error)
	Edit(ctx context.Context, handle Handle, post Post) error
}
