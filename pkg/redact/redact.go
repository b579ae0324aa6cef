// redact предоставляет утилиты безопасного редактирования чувствительных
// данных для логов (URL с паролями и токенами ботов, имена пользователей).
// Цель — исключить утечки секретов, сохранив полезный для отладки контекст (хост, путь).
package redact

import (
	"net/url"
	"strings"
)

// Mask — заглушка вместо секрета.
const Mask = "***"

// URL маскирует секреты в URL для логирования.
//
// Правила:
//   - пароль userinfo заменяется на "***", имя пользователя сохраняется;
//   - сегмент пути вида bot<token> (Telegram Bot API) заменяется на "bot***";
//   - значения query-параметров token/key/secret/password заменяются на "***";
//   - нераспознаваемая строка возвращается как "***".
//
// Примеры:
//
//	"postgres://app:secret@db:5432/x"             -> "postgres://app:***@db:5432/x"
//	"https://api.telegram.org/bot123:AA/send"     -> "https://api.telegram.org/bot***/send"
//	"https://hook.example/notify?token=abc&x=1"   -> "https://hook.example/notify?token=***&x=1"
func URL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Mask
	}

	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), Mask)
		}
	}

	if strings.Contains(u.Path, "/bot") {
		segments := strings.Split(u.Path, "/")
		for i, s := range segments {
			if strings.HasPrefix(s, "bot") && len(s) > len("bot") {
				segments[i] = "bot" + Mask
			}
		}
		u.Path = strings.Join(segments, "/")
		u.RawPath = ""
	}

	if u.RawQuery != "" {
		q := u.Query()
		for k := range q {
			switch strings.ToLower(k) {
			case "token", "key", "secret", "password", "api_key":
				q.Set(k, Mask)
			}
		}
		u.RawQuery = q.Encode()
	}

	// url.String экранирует '*' в userinfo; возвращаем читаемую маску.
	return strings.ReplaceAll(u.String(), "%2A%2A%2A", Mask)
}

// Username маскирует имя пользователя чата: первые два символа (по рунам) + "***".
// Имена из 1–2 символов и пустые редактируются полностью.
//
// Примеры:
//
//	"alice" -> "al***"
//	"@bob"  -> "bo***"
//	"ab"    -> "***"
func Username(s string) string {
	r := []rune(strings.TrimPrefix(s, "@"))
	if len(r) <= 2 {
		return Mask
	}
	return string(r[:2]) + Mask
}
