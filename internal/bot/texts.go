package bot

import (
	"fmt"
	"strings"
)

const (
	// ButtonNews — кнопка постоянной клавиатуры.
	ButtonNews = "📰 Получить новости"

	textFetchError     = "😔 Произошла ошибка при получении новостей. Попробуйте позже."
	textSessionExpired = "😔 Сессия новостей истекла. Используйте /news для получения свежих новостей."
	textFallback       = "🤖 Я ИнфоМонитор!\n\nИспользуйте кнопку ниже или команду `/news` для получения новостей."
	textSubscribed     = "✅ Вы подписаны на ежедневную рассылку."
	textUnsubscribed   = "🔕 Вы отписались от ежедневной рассылки. Вернуться: /start"
	textNotSubscribed  = "ℹ️ Вы не были подписаны на рассылку."
	textSubscribeError = "😔 Не удалось оформить подписку. Попробуйте позже."
	textUnknownCommand = "🤷 Неизвестная команда. Список команд: /help"
)

// welcomeText собирает приветствие /start.
func welcomeText(digestAt string, sources []string) string {
	var b strings.Builder
	b.WriteString("🤖 *Добро пожаловать в ИнфоМонитор!*\n\n")
	fmt.Fprintf(&b, "Я буду присылать вам актуальные новости каждый день в %s (UTC).\n\n", digestAt)
	b.WriteString("📰 *Доступные команды:*\n")
	b.WriteString("• /news - получить новости прямо сейчас\n")
	b.WriteString("• /categories - список категорий\n")
	b.WriteString("• /help - справка по командам\n\n")
	b.WriteString("📊 Источники новостей:\n")
	writeSources(&b, sources)
	b.WriteString("\nБот работает 24/7 и автоматически собирает последние новости!")
	return b.String()
}

// helpText собирает справку /help.
func helpText(digestAt string, sources []string) string {
	var b strings.Builder
	b.WriteString("🔧 *Справка по командам ИнфоМонитора*\n\n")
	b.WriteString("📰 *Основные команды:*\n")
	b.WriteString("• `/news` - получить последние новости\n")
	b.WriteString("• `/news <категория>` - новости одной категории\n")
	b.WriteString("• `/categories` - список категорий\n")
	b.WriteString("• `/start` - начать работу и подписаться на рассылку\n")
	b.WriteString("• `/stop` - отписаться от рассылки\n")
	b.WriteString("• `/help` - показать эту справку\n\n")
	b.WriteString("⏰ *Автоматическая рассылка:*\n")
	fmt.Fprintf(&b, "Новости приходят каждый день в %s (UTC)\n\n", digestAt)
	b.WriteString("📊 *Источники новостей:*\n")
	writeSources(&b, sources)
	return b.String()
}

func writeSources(b *strings.Builder, sources []string) {
	for _, s := range sources {
		fmt.Fprintf(b, "• %s\n", s)
	}
}
