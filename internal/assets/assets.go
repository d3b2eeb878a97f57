package assets

import _ "embed"

// BotMessagesYAML: every user-visible string the bot sends.
//
//go:embed messages/bot-messages.yml
var BotMessagesYAML string

// ProfessionsYAML: the static profession catalog (name + emoji).
//
//go:embed catalog/professions.yml
var ProfessionsYAML string
