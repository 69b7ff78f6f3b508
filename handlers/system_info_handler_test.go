package handlers

import (
	"testing"
	"time"

	"ticket-bot/utils/database"

	"github.com/stretchr/testify/assert"
)

func TestSystemInfoEmbed(t *testing.T) {
	info := SystemInfo{
		Platform:      "debian 12",
		CPUCount:      4,
		CPUPercent:    12.34,
		MemUsed:       512 * 1024 * 1024,
		MemTotal:      2048 * 1024 * 1024,
		MemPercent:    25,
		DatabaseBytes: 3 * 1024 * 1024 / 2,
		Ledger:        database.LedgerCounts{OpenTickets: 5, PendingTickets: 1, ClosedTickets: 40, TrackedUsers: 7},
		Pending:       2,
	}
	embed := SystemInfoEmbed(info, time.Date(2025, 1, 1, 9, 30, 0, 0, time.UTC))

	values := map[string]string{}
	for _, f := range embed.Fields {
		values[f.Name] = f.Value
	}
	assert.Equal(t, "12.3%", values["🔥 CPU usage"])
	assert.Equal(t, "25.0% (512 MB / 2048 MB)", values["🧠 Memory"])
	assert.Equal(t, "1.5 MB", values["🗃️ Database"])
	assert.Equal(t, "5 (1 pending)", values["🎫 Open tickets"])
	assert.Equal(t, "40", values["📦 Closed tickets"])
	assert.Equal(t, "2", values["❓ Open prompts"])
	assert.Equal(t, "System monitor · 09:30", embed.Footer.Text)
}
