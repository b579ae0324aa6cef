package service

import (
	"fmt"
	"strings"

	"github.com/pribylovaa/infomonitor/internal/models"
)

// Тексты в разметке Telegram Markdown (legacy).
const (
	// NoNewsText — ответ, когда агрегатор не вернул ни одной новости.
	NoNewsText = "😔 К сожалению, не удалось получить новости. Попробуйте позже."
	// NoMoreNewsText — курсор вне списка (пустая сессия).
	NoMoreNewsText = "😔 Больше новостей нет."

	digestHeader   = "📰 *ТОП НОВОСТИ*\n\n"
	digestGreeting = "🌅 *Доброе утро! ИнфоМонитор приносит свежие новости:*\n\n"
	separatorWidth = 50
)

var mdEscaper = strings.NewReplacer(`_`, `\_`, `*`, `\*`, "`", "\\`", `[`, `\[`)

// escapeMarkdown экранирует служебные символы legacy Markdown,
// чтобы текст из ленты не ломал разметку сообщения.
func escapeMarkdown(s string) string {
	return mdEscaper.Replace(s)
}

// writeItemBody пишет общую часть карточки новости: описание, ссылку, источник, дату.
func writeItemBody(b *strings.Builder, item models.NewsItem) {
	fmt.Fprintf(b, "📝 %s\n", escapeMarkdown(item.Description))
	if item.Link != "" {
		fmt.Fprintf(b, "🔗 [Читать полностью](%s)\n", item.Link)
	}
	fmt.Fprintf(b, "📰 Источник: %s\n", escapeMarkdown(item.Source))
	if item.Published != "" {
		fmt.Fprintf(b, "🕐 %s\n", escapeMarkdown(item.Published))
	}
}

// FormatDigest отрисовывает нумерованный дайджест всех новостей.
// Пустой список -> NoNewsText.
func FormatDigest(items []models.NewsItem) string {
	if len(items) == 0 {
		return NoNewsText
	}

	var b strings.Builder
	b.WriteString(digestHeader)

	for i, item := range items {
		fmt.Fprintf(&b, "*%d. %s*\n", i+1, escapeMarkdown(item.Title))
		writeItemBody(&b, item)
		b.WriteString("\n" + strings.Repeat("─", separatorWidth) + "\n\n")
	}

	fmt.Fprintf(&b, "📊 Показано новостей: %d", len(items))
	return b.String()
}

// FormatSingle отрисовывает новость items[index] с подвалом «Новость X из Y».
// index вне диапазона -> NoMoreNewsText.
func FormatSingle(items []models.NewsItem, index, total int) string {
	if index < 0 || index >= len(items) {
		return NoMoreNewsText
	}

	item := items[index]

	var b strings.Builder
	fmt.Fprintf(&b, "📰 *%s*\n\n", escapeMarkdown(item.Title))
	writeItemBody(&b, item)
	fmt.Fprintf(&b, "\n📊 Новость %d из %d", index+1, total)
	return b.String()
}
