package telegram

// Chat is the subset of the Bot API chat object the client reads.
type Chat struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
}

// User is the bot account returned by getMe.
type User struct {
	ID       int64  `json:"id"`
	IsBot    bool   `json:"is_bot"`
	Username string `json:"username,omitempty"`
}

// File covers both video and document attachments.
type File struct {
	FileID       string `json:"file_id"`
	FileUniqueID string `json:"file_unique_id"`
	FileName     string `json:"file_name,omitempty"`
	MimeType     string `json:"mime_type,omitempty"`
	FileSize     int64  `json:"file_size,omitempty"`
}

// Message is a channel post or a sent message.
type Message struct {
	MessageID int64  `json:"message_id"`
	Date      int64  `json:"date"`
	Chat      Chat   `json:"chat"`
	Caption   string `json:"caption,omitempty"`
	Video     *File  `json:"video,omitempty"`
	Document  *File  `json:"document,omitempty"`
}

// Media returns the attached video or document, preferring video.
func (m *Message) Media() *File {
	if m == nil {
		return nil
	}
	if m.Video != nil {
		return m.Video
	}
	return m.Document
}

// Update is one getUpdates entry. Only channel posts are requested.
type Update struct {
	UpdateID    int64    `json:"update_id"`
	ChannelPost *Message `json:"channel_post,omitempty"`
}

// InlineButton is a URL button in an inline keyboard.
type InlineButton struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// InlineKeyboard is the reply_markup payload for inline buttons.
type InlineKeyboard struct {
	Rows [][]InlineButton `json:"inline_keyboard"`
}

// Photo describes an outgoing photo with caption.
type Photo struct {
	ChatID   int64
	URL      string
	Caption  string
	Spoiler  bool
	Keyboard *InlineKeyboard
}

type sendPhotoRequest struct {
	ChatID      int64           `json:"chat_id"`
	Photo       string          `json:"photo"`
	Caption     string          `json:"caption,omitempty"`
	ParseMode   string          `json:"parse_mode,omitempty"`
	HasSpoiler  bool            `json:"has_spoiler,omitempty"`
	ReplyMarkup *InlineKeyboard `json:"reply_markup,omitempty"`
}

type inputMediaPhoto struct {
	Type       string `json:"type"`
	Media      string `json:"media"`
	Caption    string `json:"caption,omitempty"`
	ParseMode  string `json:"parse_mode,omitempty"`
	HasSpoiler bool   `json:"has_spoiler,omitempty"`
}

type editMessageMediaRequest struct {
	ChatID      int64           `json:"chat_id"`
	MessageID   int64           `json:"message_id"`
	Media       inputMediaPhoto `json:"media"`
	ReplyMarkup *InlineKeyboard `json:"reply_markup,omitempty"`
}

type getUpdatesRequest struct {
	Offset         int64    `json:"offset,omitempty"`
	Timeout        int      `json:"timeout"`
	AllowedUpdates []string `json:"allowed_updates"`
}

type responseParameters struct {
	RetryAfter int `json:"retry_after,omitempty"`
}
