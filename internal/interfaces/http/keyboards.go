package http

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CreateCommandKeyboard shows the three dialog commands as buttons.
func CreateCommandKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Reservar", "RESERVAR"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancelar", "CANCELAR"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔎 Mi turno", "MI TURNO"),
		),
	)
}
