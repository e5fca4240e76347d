package telegram

import (
	"errors"
	"fmt"

	"gopkg.in/telebot.v3"
)

// MessageSender is the part of *telebot.Bot used to post messages.
type MessageSender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// ChatSender implements the Client interface for posting hadiths to a chat or
// channel. Messages go out as HTML without link previews unless the caller
// passes its own options; a caller's options without a parse mode still get HTML.
type ChatSender struct {
	bot MessageSender
}

func NewChatSender(b MessageSender) *ChatSender {
	return &ChatSender{bot: b}
}

func (s *ChatSender) SendMessage(chatID int64, text string, options *telebot.SendOptions) error {
	if chatID == 0 {
		return errors.New("telegram: chat ID is not set")
	}

	opts := telebot.SendOptions{ParseMode: telebot.ModeHTML, DisableWebPagePreview: true}
	if options != nil {
		opts = *options
		if opts.ParseMode == telebot.ModeDefault {
			opts.ParseMode = telebot.ModeHTML
		}
	}

	if _, err := s.bot.Send(&telebot.Chat{ID: chatID}, text, &opts); err != nil {
		return fmt.Errorf("sending message to chat %d: %w", chatID, err)
	}
	return nil
}
