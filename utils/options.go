package utils

import "github.com/bwmarrin/discordgo"

type OptionMap map[string]*discordgo.ApplicationCommandInteractionDataOption

// Options indexes command options by name.
func Options(opts []*discordgo.ApplicationCommandInteractionDataOption) OptionMap {
	m := make(OptionMap, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

func (m OptionMap) String(name, def string) string {
	if opt, ok := m[name]; ok {
		return opt.StringValue()
	}
	return def
}

func (m OptionMap) Int(name string, def int64) int64 {
	if opt, ok := m[name]; ok {
		return opt.IntValue()
	}
	return def
}

func (m OptionMap) Bool(name string) bool {
	if opt, ok := m[name]; ok {
		return opt.BoolValue()
	}
	return false
}

// ID returns the raw snowflake of a user, role or channel option.
func (m OptionMap) ID(name string) string {
	if opt, ok := m[name]; ok {
		if s, ok := opt.Value.(string); ok {
			return s
		}
	}
	return ""
}

// Subcommand returns the invoked subcommand and its options.
func Subcommand(data discordgo.ApplicationCommandInteractionData) (string, OptionMap) {
	if len(data.Options) == 0 {
		return "", OptionMap{}
	}
	sub := data.Options[0]
	if sub.Type != discordgo.ApplicationCommandOptionSubCommand {
		return "", Options(data.Options)
	}
	return sub.Name, Options(sub.Options)
}
