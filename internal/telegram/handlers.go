package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/suspectuso/airdrop-bot/internal/commands"
)

// CommandHandler answers a parsed command
type CommandHandler interface {
	Handle(ctx context.Context, cmd commands.Command, userID int64) string
}

// sender is the part of *bot.Bot used to push messages
type sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// menu is published with setMyCommands on start
var menu = []models.BotCommand{
	{Command: "ping", Description: "判断机器人是否在线"},
	{Command: "help", Description: "显示帮助"},
	{Command: "airdrops", Description: "获取最新空投详情"},
	{Command: "list", Description: "获取最近空投列表"},
	{Command: "status", Description: "查看监控状态"},
	{Command: "msgtest", Description: "频道消息测试"},
}

// Bot wraps the telegram bot runtime
type Bot struct {
	bot      *bot.Bot
	commands CommandHandler
	log      *slog.Logger
}

// New creates a new telegram bot. httpClient carries the proxy aware transport.
func New(token string, httpClient bot.HttpClient, pollTimeout time.Duration, log *slog.Logger) (*Bot, error) {
	b := &Bot{log: log}

	opts := []bot.Option{
		bot.WithDefaultHandler(b.defaultHandler),
	}
	if httpClient != nil {
		opts = append(opts, bot.WithHTTPClient(pollTimeout, httpClient))
	}

	tgBot, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	b.bot = tgBot

	return b, nil
}

// SetCommands installs the command handler. Call it before Start.
func (b *Bot) SetCommands(h CommandHandler) {
	b.commands = h
}

// Start publishes the command menu and blocks polling updates until ctx is done
func (b *Bot) Start(ctx context.Context) {
	if _, err := b.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: menu}); err != nil {
		b.log.Warn("set bot commands", "error", err)
	}
	b.bot.Start(ctx)
}

// Channel returns the primary broadcast channel for chatID
func (b *Bot) Channel(chatID int64) *Channel {
	return NewChannel(b.bot, chatID)
}

// --- Handlers ---

// defaultHandler runs in its own goroutine per update, so commands never
// wait on each other or on the poll loop.
func (b *Bot) defaultHandler(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleUpdate(ctx, tgBot, update)
}

func (b *Bot) handleUpdate(ctx context.Context, s sender, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" || b.commands == nil {
		return
	}

	cmd := commands.Parse(update.Message.Text)
	if cmd == commands.Unknown {
		return
	}

	var userID int64
	if update.Message.From != nil {
		userID = update.Message.From.ID
	}

	b.log.Info("command received",
		"command", cmd.String(),
		"user_id", userID,
		"chat_id", update.Message.Chat.ID,
	)

	reply := b.commands.Handle(ctx, cmd, userID)
	if reply == "" {
		return
	}

	if err := sendText(ctx, s, update.Message.Chat.ID, reply); err != nil {
		b.log.Error("send reply", "command", cmd.String(), "error", err)
	}
}

func sendText(ctx context.Context, s sender, chatID int64, text string) error {
	disablePreview := true
	_, err := s.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
		LinkPreviewOptions: &models.LinkPreviewOptions{
			IsDisabled: &disablePreview,
		},
	})
	return err
}
