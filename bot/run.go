package bot

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ticket-bot/commands"
	"ticket-bot/utils"
)

// Run connects to Discord, registers the slash commands and blocks until
// the process is interrupted.
func (b *Bot) Run() error {
	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	if err := b.RegisterCommands(commands.GenerateCommands()); err != nil {
		b.log.Error("cannot register commands", "error", err)
	}

	b.scheduler.Start()

	b.log.Info("bot is now running, press CTRL-C to exit")
	_ = utils.LogInfo(b.Session, b.GetConfig().LogChannelID, "System", "Startup", "Bot has started successfully.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
	return nil
}
