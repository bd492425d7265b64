package telegram

import (
	"context"
	"fmt"
)

// Channel is the primary broadcast target: one chat or channel id
type Channel struct {
	sender sender
	chatID int64
}

// NewChannel creates a channel sending through s
func NewChannel(s sender, chatID int64) *Channel {
	return &Channel{sender: s, chatID: chatID}
}

func (c *Channel) Name() string {
	return "telegram"
}

// Send posts text as a plain message
func (c *Channel) Send(ctx context.Context, text string) error {
	if err := sendText(ctx, c.sender, c.chatID, text); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
