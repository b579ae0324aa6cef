package service

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

// ellipsis — маркер обрезки текста.
const ellipsis = "..."

var (
	reTag   = regexp.MustCompile(`<[^<>]*>`)
	reSpace = regexp.MustCompile(`[\s\p{Zs}]+`)
)

// cleanText превращает HTML-фрагмент ленты в простой текст длиной не более max символов:
//   - раскрывает HTML-сущности;
//   - удаляет теги, пока в строке остаются последовательности <...>
//     (вложенные конструкции вида "<a<b>>" снимаются за несколько проходов);
//   - схлопывает пробельные последовательности и обрезает края;
//   - при превышении max обрезает по последней границе слова и добавляет "...".
func cleanText(s string, max int) string {
	s = html.UnescapeString(s)
	for reTag.MatchString(s) {
		s = reTag.ReplaceAllString(s, "")
	}
	s = strings.TrimSpace(reSpace.ReplaceAllString(s, " "))

	return truncateWords(s, max)
}

// truncateWords обрезает s до max рун вместе с маркером ellipsis.
// Слово разрезается только если в допустимой части нет ни одного пробела.
func truncateWords(s string, max int) string {
	if max <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	marker := []rune(ellipsis)
	if max <= len(marker) {
		return string(runes[:max])
	}

	keep := max - len(marker)
	cut := runes[:keep]

	// Следующий символ не пробел — значит, обрыв пришёлся на середину слова.
	if !unicode.IsSpace(runes[keep]) {
		for i := len(cut) - 1; i > 0; i-- {
			if unicode.IsSpace(cut[i]) {
				cut = cut[:i]
				break
			}
		}
	}

	return strings.TrimRightFunc(string(cut), unicode.IsSpace) + ellipsis
}
