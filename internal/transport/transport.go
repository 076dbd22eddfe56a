// Package transport abstracts the outbound chat channel. The engine
// only needs send/edit; everything else about the chat platform stays
// behind the adapter.
package transport

import "context"

// Button is one inline option attached to a message. Data is the
// opaque payload the platform echoes back when the user taps it.
type Button struct {
	Label string
	Data  string
}

// Options tweak an outbound message.
type Options struct {
	ParseMode      string
	DisablePreview bool
	Buttons        [][]Button
}

// Transport delivers messages to a chat. Implementations are expected
// to be safe for re-invocation: callers wrap them in retries.
type Transport interface {
	// SendMessage delivers text to a chat.
	SendMessage(ctx context.Context, chatID int64, text string, opts Options) error

	// EditMessage replaces the text of a previously sent message.
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, opts Options) error
}
