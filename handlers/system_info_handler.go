package handlers

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"ticket-bot/bot"
	"ticket-bot/utils"
	"ticket-bot/utils/database"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemInfo is what /sysinfo reports.
type SystemInfo struct {
	Platform      string
	Kernel        string
	CPUCount      int
	CPUPercent    float64
	MemUsed       uint64
	MemTotal      uint64
	MemPercent    float64
	DatabaseBytes int64
	Latency       time.Duration
	Goroutines    int
	Ledger        database.LedgerCounts
	Pending       int
}

func collectSystemInfo(ctx context.Context, b *bot.Bot) SystemInfo {
	info := SystemInfo{
		Latency:    b.Session.HeartbeatLatency(),
		Goroutines: runtime.NumGoroutine(),
		Pending:    b.Confirms.Pending(),
	}
	if n, err := cpu.Counts(true); err == nil {
		info.CPUCount = n
	}
	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		info.CPUPercent = pct[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.MemUsed, info.MemTotal, info.MemPercent = vm.Used, vm.Total, vm.UsedPercent
	}
	if h, err := host.Info(); err == nil {
		info.Platform = h.Platform + " " + h.PlatformVersion
		info.Kernel = h.KernelVersion
	}
	if fi, err := os.Stat(b.GetConfig().DatabasePath); err == nil {
		info.DatabaseBytes = fi.Size()
	}
	if counts, err := b.Store.Counts(ctx); err == nil {
		info.Ledger = counts
	}
	return info
}

// SystemInfoEmbed renders info for /sysinfo.
func SystemInfoEmbed(info SystemInfo, now time.Time) *discordgo.MessageEmbed {
	const mb = 1024 * 1024
	return &discordgo.MessageEmbed{
		Title: "System information",
		Color: 0x5865F2, // Discord Blurple
		Fields: []*discordgo.MessageEmbedField{
			{Name: "💻 OS", Value: info.Platform, Inline: true},
			{Name: "🔧 Kernel", Value: info.Kernel, Inline: true},
			{Name: "🐹 Go", Value: runtime.Version(), Inline: true},
			{Name: "🔼 CPUs", Value: fmt.Sprintf("%d", info.CPUCount), Inline: true},
			{Name: "🔥 CPU usage", Value: fmt.Sprintf("%.1f%%", info.CPUPercent), Inline: true},
			{Name: "🧠 Memory", Value: fmt.Sprintf("%.1f%% (%d MB / %d MB)", info.MemPercent, info.MemUsed/mb, info.MemTotal/mb), Inline: true},
			{Name: "🗃️ Database", Value: fmt.Sprintf("%.1f MB", float64(info.DatabaseBytes)/mb), Inline: true},
			{Name: "⏱️ WebSocket latency", Value: info.Latency.String(), Inline: true},
			{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", info.Goroutines), Inline: true},
			{Name: "🎫 Open tickets", Value: fmt.Sprintf("%d (%d pending)", info.Ledger.OpenTickets, info.Ledger.PendingTickets), Inline: true},
			{Name: "📦 Closed tickets", Value: fmt.Sprintf("%d", info.Ledger.ClosedTickets), Inline: true},
			{Name: "👥 Tracked staff", Value: fmt.Sprintf("%d", info.Ledger.TrackedUsers), Inline: true},
			{Name: "❓ Open prompts", Value: fmt.Sprintf("%d", info.Pending), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "System monitor · " + now.Format("15:04"),
		},
	}
}

func SystemInfoHandler(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	utils.SendEmbedResponse(s, i, SystemInfoEmbed(collectSystemInfo(ctx, b), time.Now()), true)
}
