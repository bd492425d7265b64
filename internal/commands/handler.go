package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/suspectuso/airdrop-bot/internal/binance"
	"github.com/suspectuso/airdrop-bot/internal/notifier"
)

// Replies
const (
	ReplyPong        = "pong（在线）"
	ReplyNoAirdrops  = "当前没有可用空投。"
	ReplyNotExecuted = "该命令未执行。"
	TestMessage      = "这是一个频道消息测试"

	HelpText = "可用命令:\n" +
		"/ping — 判断机器人是否在线\n" +
		"/help — 显示帮助\n" +
		"/airdrops — 获取最新空投详情\n" +
		"/list — 获取最近空投列表\n" +
		"/status — 查看监控状态\n" +
		"/msgtest — 频道消息测试"
)

const listLimit = 10

// Source returns the current campaign snapshot
type Source interface {
	FetchAirdrops(ctx context.Context) ([]binance.Airdrop, error)
}

// Broadcaster sends raw text to every enabled channel
type Broadcaster interface {
	Broadcast(ctx context.Context, text string) notifier.Outcome
	Channels() []string
}

// StatsSource exposes poll loop counters
type StatsSource interface {
	Stats() notifier.Stats
}

// Handler answers bot commands. It holds no mutable state, so concurrent
// calls are safe.
type Handler struct {
	source      Source
	format      *notifier.Formatter
	broadcast   Broadcaster
	stats       StatsSource
	adminUserID int64
	log         *slog.Logger
}

// NewHandler creates a new command handler. adminUserID 0 allows nobody to run msgtest.
func NewHandler(source Source, format *notifier.Formatter, broadcast Broadcaster, stats StatsSource, adminUserID int64, log *slog.Logger) *Handler {
	return &Handler{
		source:      source,
		format:      format,
		broadcast:   broadcast,
		stats:       stats,
		adminUserID: adminUserID,
		log:         log,
	}
}

// Handle returns the reply for cmd issued by userID, empty for Unknown
func (h *Handler) Handle(ctx context.Context, cmd Command, userID int64) string {
	h.log.Debug("handling command", "command", cmd.String(), "user_id", userID)

	switch cmd {
	case Ping:
		return ReplyPong
	case Help:
		return HelpText
	case Airdrops:
		return h.latest(ctx)
	case List:
		return h.list(ctx)
	case Status:
		return h.status()
	case MsgTest:
		return h.msgTest(ctx, userID)
	default:
		return ""
	}
}

func (h *Handler) latest(ctx context.Context) string {
	airdrops, err := h.source.FetchAirdrops(ctx)
	if err != nil {
		h.log.Error("fetch airdrops for command", "error", err)
		return fmt.Sprintf("获取空投信息失败: %v", err)
	}
	if len(airdrops) == 0 {
		return ReplyNoAirdrops
	}
	return h.format.Announcement(airdrops[0])
}

func (h *Handler) list(ctx context.Context) string {
	airdrops, err := h.source.FetchAirdrops(ctx)
	if err != nil {
		h.log.Error("fetch airdrops for command", "error", err)
		return fmt.Sprintf("获取空投信息失败: %v", err)
	}
	if len(airdrops) == 0 {
		return ReplyNoAirdrops
	}
	return h.format.Listing(airdrops, listLimit)
}

func (h *Handler) status() string {
	s := h.stats.Stats()

	lastPoll := "尚未轮询"
	if !s.LastPollAt.IsZero() {
		lastPoll = s.LastPollAt.Format(time.DateTime)
	}

	lines := []string{
		"📊 监控状态",
		"轮询间隔: " + s.Interval,
		fmt.Sprintf("轮询次数: %d", s.Cycles),
		fmt.Sprintf("拉取失败: %d", s.FetchFailures),
		fmt.Sprintf("已推送空投: %d", s.Announced),
		"上次轮询: " + lastPoll,
		"推送通道: " + strings.Join(h.broadcast.Channels(), ", "),
	}
	if s.LastError != "" {
		lines = append(lines, "最近错误: "+s.LastError)
	}
	return strings.Join(lines, "\n")
}

func (h *Handler) msgTest(ctx context.Context, userID int64) string {
	if h.adminUserID == 0 || userID != h.adminUserID {
		h.log.Warn("restricted command rejected", "command", MsgTest.String(), "user_id", userID)
		return ReplyNotExecuted
	}

	id := uuid.NewString()
	out := h.broadcast.Broadcast(ctx, fmt.Sprintf("%s #%s", TestMessage, id[:8]))

	failed := make(map[string]error, len(out.Failures))
	for _, f := range out.Failures {
		failed[f.Channel] = f.Err
	}

	lines := []string{"测试消息已发送 #" + id[:8]}
	for _, name := range h.broadcast.Channels() {
		if err, ok := failed[name]; ok {
			lines = append(lines, fmt.Sprintf("❌ %s: %v", name, err))
			continue
		}
		lines = append(lines, "✅ "+name)
	}

	h.log.Info("test message broadcast", "request_id", id, "primary_ok", out.PrimarySucceeded, "failures", len(out.Failures))
	return strings.Join(lines, "\n")
}
