package notifier

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/suspectuso/airdrop-bot/internal/binance"
)

// InvalidTime replaces timestamps that cannot be rendered
const InvalidTime = "无效时间"

const timeLayout = "2006-01-02 15:04:05"

// Formatter renders airdrops for humans. It is pure and safe for concurrent use.
type Formatter struct {
	loc *time.Location
}

// NewFormatter creates a formatter rendering times in loc (UTC when nil)
func NewFormatter(loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{loc: loc}
}

// Announcement renders the full multi-line notification text
func (f *Formatter) Announcement(a binance.Airdrop) string {
	lines := []string{
		"📢 新空投上线: " + a.ConfigName,
		"Token: " + a.TokenSymbol,
		"空投量: " + formatNumber(a.AirdropAmount),
		"积分门槛：" + formatNumber(a.PointsThreshold),
		"积分消耗：" + formatNumber(a.DeductPoints),
		"合约地址：" + a.ContractAddress,
		"开始时间: " + f.FormatTimestamp(a.ClaimStartTime),
		"结束时间: " + f.FormatTimestamp(a.ClaimEndTime),
		"状态: " + a.Status,
	}
	return strings.Join(lines, "\n")
}

// SummaryLine renders the compact single-line form
func (f *Formatter) SummaryLine(a binance.Airdrop) string {
	return fmt.Sprintf("• %s (%s): %s %s", a.ConfigName, a.TokenSymbol, formatNumber(a.AirdropAmount), a.Status)
}

// Listing renders a header and at most limit summary lines
func (f *Formatter) Listing(airdrops []binance.Airdrop, limit int) string {
	if limit > 0 && len(airdrops) > limit {
		airdrops = airdrops[:limit]
	}

	var sb strings.Builder
	sb.WriteString("当前空投列表：\n")
	for _, a := range airdrops {
		sb.WriteString(f.SummaryLine(a))
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatTimestamp renders epoch milliseconds in the display zone
func (f *Formatter) FormatTimestamp(ms int64) string {
	t := time.UnixMilli(ms).In(f.loc)
	if y := t.Year(); y < 1 || y > 9999 {
		return InvalidTime
	}
	return t.Format(timeLayout)
}

// formatNumber prints the shortest decimal that round-trips, e.g. 100 or 0.5
func formatNumber(num float64) string {
	return strconv.FormatFloat(num, 'f', -1, 64)
}
