package telegram

import (
	"context"
	"errors"

	"reelpost/internal/publish"
)

// Channel adapts a Client to publish.Transport.
type Channel struct {
	client  *Client
	spoiler bool
}

var _ publish.Transport = (*Channel)(nil)

// NewChannel wraps client. spoiler blurs posted photos until tapped.
func NewChannel(client *Client, spoiler bool) *Channel {
	return &Channel{client: client, spoiler: spoiler}
}

// Send implements publish.Transport.
func (c *Channel) Send(ctx context.Context, post publish.Post) (publish.Handle, error) {
	msg, err := c.client.SendPhoto(ctx, c.photo(post))
	if err != nil {
		return 0, err
	}
	return publish.Handle(msg.MessageID), nil
}

// Edit implements publish.Transport. An unchanged message counts as success.
func (c *Channel) Edit(ctx context.Context, handle publish.Handle, post publish.Post) error {
	err := c.client.EditPhoto(ctx, int64(handle), c.photo(post))
	if errors.Is(err, ErrNotModified) {
		return nil
	}
	return err
}

func (c *Channel) photo(post publish.Post) Photo {
	photo := Photo{
		ChatID:  post.Destination,
		URL:     post.PhotoURL,
		Caption: post.Caption,
		Spoiler: c.spoiler,
	}
	if len(post.Links) > 0 {
		kb := &InlineKeyboard{}
		for _, link := range post.Links {
			kb.Rows = append(kb.Rows, []InlineButton{{Text: link.Text, URL: link.URL}})
		}
		photo.Keyboard = kb
	}
	return photo
}
