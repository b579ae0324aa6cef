// bot реализует диалог ИнфоМонитора независимо от транспорта:
// команды, распознавание ключевых слов и навигационные callback-и.
// Транспорт (webhook чат-фронтенда) превращает Reply в сообщение с клавиатурами.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/pribylovaa/infomonitor/internal/models"
	"github.com/pribylovaa/infomonitor/internal/service"
	"github.com/pribylovaa/infomonitor/internal/session"
	"github.com/pribylovaa/infomonitor/internal/storage"
	"github.com/pribylovaa/infomonitor/pkg/log"
	"github.com/pribylovaa/infomonitor/pkg/redact"
)

// ParseModeMarkdown — режим разметки ответов.
const ParseModeMarkdown = "Markdown"

// NewsFetcher — источник новостей для диалога.
type NewsFetcher interface {
	FetchLatest(ctx context.Context, limit int, category string) ([]models.NewsItem, error)
	Categories() map[string]string
}

// Update — входящее событие чата: текст сообщения или данные callback-кнопки.
type Update struct {
	UserID       int64  `json:"user_id"`
	Username     string `json:"username,omitempty"`
	Text         string `json:"text,omitempty"`
	CallbackData string `json:"callback_data,omitempty"`
}

// Reply — ответ пользователю.
type Reply struct {
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
	// Actions — inline-кнопки навигации.
	Actions []models.Action `json:"actions,omitempty"`
	// Keyboard — постоянная клавиатура (строки кнопок).
	Keyboard [][]string `json:"keyboard,omitempty"`
	// Edit — ответ заменяет предыдущее сообщение (навигация), а не отправляется новым.
	Edit bool `json:"edit,omitempty"`
}

// Options — параметры диалога.
type Options struct {
	// NewsLimit — сколько новостей загружать по /news.
	NewsLimit int
	// DigestAt — время рассылки для текстов приветствия и справки.
	DigestAt string
	// Sources — отображаемые имена источников.
	Sources []string
}

// Bot — обработчик диалога.
type Bot struct {
	news        NewsFetcher
	sessions    session.Store
	subscribers storage.SubscriberStorage
	limit       int
	welcome     string
	help        string
}

// New создаёт Bot. subscribers может быть nil: тогда /start и /stop не меняют подписку.
func New(news NewsFetcher, sessions session.Store, subscribers storage.SubscriberStorage, opts Options) *Bot {
	if opts.NewsLimit <= 0 {
		opts.NewsLimit = 10
	}

	return &Bot{
		news:        news,
		sessions:    sessions,
		subscribers: subscribers,
		limit:       opts.NewsLimit,
		welcome:     welcomeText(opts.DigestAt, opts.Sources),
		help:        helpText(opts.DigestAt, opts.Sources),
	}
}

// Handle маршрутизирует событие: callback -> Callback, "/cmd args" -> Command, иначе Text.
func (b *Bot) Handle(ctx context.Context, upd Update) Reply {
	ctx = log.Into(ctx, log.From(ctx).With(slog.Int64("user_id", upd.UserID)))

	if upd.CallbackData != "" {
		return b.Callback(ctx, upd.UserID, upd.CallbackData)
	}

	text := strings.TrimSpace(upd.Text)
	if strings.HasPrefix(text, "/") {
		name, args, _ := strings.Cut(text[1:], " ")
		// /news@InfoMonitorBot -> news
		name, _, _ = strings.Cut(name, "@")
		return b.Command(ctx, models.Subscriber{UserID: upd.UserID, Username: upd.Username}, name, strings.TrimSpace(args))
	}

	return b.Text(ctx, upd.UserID, text)
}

// Command обрабатывает слэш-команду name (без "/").
func (b *Bot) Command(ctx context.Context, user models.Subscriber, name, args string) Reply {
	switch strings.ToLower(name) {
	case "start":
		return b.start(ctx, user)
	case "help":
		return b.helpReply()
	case "news":
		return b.News(ctx, user.UserID, strings.ToLower(args))
	case "categories":
		return b.categories()
	case "stop":
		return b.stop(ctx, user.UserID)
	default:
		return Reply{Text: textUnknownCommand}
	}
}

// Text распознаёт ключевые слова обычного сообщения.
func (b *Bot) Text(ctx context.Context, userID int64, text string) Reply {
	msg := strings.ToLower(strings.TrimSpace(text))

	switch {
	case msg == strings.ToLower(ButtonNews):
		return b.News(ctx, userID, "")
	case containsAny(msg, "новости", "news", "что нового"):
		return b.News(ctx, userID, "")
	case containsAny(msg, "помощь", "help", "справка"):
		return b.helpReply()
	default:
		return Reply{Text: textFallback, ParseMode: ParseModeMarkdown}
	}
}

// News загружает свежие новости, начинает новую сессию пагинации и отрисовывает первую новость.
func (b *Bot) News(ctx context.Context, userID int64, category string) Reply {
	const op = "bot.News"

	items, err := b.news.FetchLatest(ctx, b.limit, category)
	if err != nil {
		if errors.Is(err, service.ErrUnknownCategory) {
			return b.categories()
		}

		log.Op(ctx, op).Error("fetch_latest_failed", slog.String("err", err.Error()))
		return Reply{Text: textFetchError}
	}

	if len(items) == 0 {
		return Reply{Text: service.NoNewsText}
	}

	b.sessions.Start(ctx, userID, items)

	view, err := b.sessions.Render(ctx, userID)
	if err != nil {
		return Reply{Text: textSessionExpired}
	}

	return viewReply(view, false)
}

// Callback обрабатывает нажатие навигационной кнопки.
func (b *Bot) Callback(ctx context.Context, userID int64, data string) Reply {
	var (
		view models.View
		err  error
	)

	switch models.Action(data) {
	case models.ActionAdvance:
		view, err = b.sessions.Advance(ctx, userID)
	case models.ActionRetreat:
		view, err = b.sessions.Retreat(ctx, userID)
	default:
		view, err = b.sessions.Render(ctx, userID)
	}

	if errors.Is(err, session.ErrNoSession) {
		return Reply{Text: textSessionExpired, Edit: true}
	}

	return viewReply(view, true)
}

func (b *Bot) start(ctx context.Context, user models.Subscriber) Reply {
	const op = "bot.start"

	reply := Reply{Text: b.welcome, ParseMode: ParseModeMarkdown, Keyboard: newsKeyboard()}

	if b.subscribers == nil {
		return reply
	}

	err := b.subscribers.AddSubscriber(ctx, user)
	switch {
	case err == nil:
		log.Op(ctx, op).Info("subscribed",
			slog.Int64("user_id", user.UserID),
			slog.String("username", redact.Username(user.Username)),
		)
		reply.Text += "\n\n" + textSubscribed
	case errors.Is(err, storage.ErrAlreadyExists):
	default:
		log.Op(ctx, op).Error("subscribe_failed", slog.String("err", err.Error()))
		reply.Text += "\n\n" + textSubscribeError
	}

	return reply
}

func (b *Bot) stop(ctx context.Context, userID int64) Reply {
	const op = "bot.stop"

	if b.subscribers == nil {
		return Reply{Text: textNotSubscribed}
	}

	err := b.subscribers.RemoveSubscriber(ctx, userID)
	switch {
	case err == nil:
		return Reply{Text: textUnsubscribed}
	case errors.Is(err, storage.ErrNotFound):
		return Reply{Text: textNotSubscribed}
	default:
		log.Op(ctx, op).Error("unsubscribe_failed", slog.String("err", err.Error()))
		return Reply{Text: textFetchError}
	}
}

func (b *Bot) helpReply() Reply {
	return Reply{Text: b.help, ParseMode: ParseModeMarkdown, Keyboard: newsKeyboard()}
}

func (b *Bot) categories() Reply {
	cats := b.news.Categories()

	keys := make([]string, 0, len(cats))
	for k := range cats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("🗂 Доступные категории:\n")
	for _, k := range keys {
		fmt.Fprintf(&sb, "• %s - /news %s\n", cats[k], k)
	}

	return Reply{Text: strings.TrimRight(sb.String(), "\n")}
}

func viewReply(view models.View, edit bool) Reply {
	return Reply{
		Text:      view.Text,
		ParseMode: ParseModeMarkdown,
		Actions:   view.Actions,
		Edit:      edit,
	}
}

func newsKeyboard() [][]string {
	return [][]string{{ButtonNews}}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
