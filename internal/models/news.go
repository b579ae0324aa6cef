// models содержит доменные сущности сервиса ИнфоМонитор.
// Эти типы используются слоями агрегации, сессий, хранилища и транспорта.
package models

import (
	"slices"
	"time"
)

// NewsItem — нормализованная новость из RSS/Atom-ленты.
//
// Особенности:
//   - все строковые поля — простой текст без разметки;
//   - PublishedAt используется только для сортировки; нулевое значение
//     означает «время неизвестно» и сортируется как самое старое.
type NewsItem struct {
	// Title — заголовок (очищен, ограничен по длине).
	Title string `json:"title"`
	// Description — описание (очищено, ограничено по длине).
	Description string `json:"description"`
	// Link — ссылка на материал, может быть пустой.
	Link string `json:"link"`
	// Source — идентификатор источника в верхнем регистре.
	Source string `json:"source"`
	// Published — исходная строка даты публикации из ленты, может быть пустой.
	Published string `json:"published,omitempty"`
	// PublishedAt — разобранное время публикации (UTC) или нулевое значение.
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// Source — статическая запись реестра RSS-источников.
type Source struct {
	ID         string   `yaml:"id"`
	URL        string   `yaml:"url"`
	Categories []string `yaml:"categories"`
}

// HasCategory сообщает, отмечен ли источник тегом category.
func (s Source) HasCategory(category string) bool {
	return slices.Contains(s.Categories, category)
}
