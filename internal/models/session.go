package models

// Action — навигационное действие над сессией пагинации.
// Значения совпадают с callback-данными inline-клавиатуры чата.
type Action string

const (
	// ActionRetreat — показать предыдущую новость.
	ActionRetreat Action = "prev_news"
	// ActionAdvance — показать следующую новость.
	ActionAdvance Action = "next_news"
)

// View — отрисованное состояние сессии: текст текущей новости
// и набор допустимых навигационных действий.
type View struct {
	Text    string   `json:"text"`
	Actions []Action `json:"actions"`
	// Index — позиция курсора (с нуля); Total — длина списка.
	Index int `json:"index"`
	Total int `json:"total"`
}

// Has сообщает, доступно ли действие a.
func (v View) Has(a Action) bool {
	for _, x := range v.Actions {
		if x == a {
			return true
		}
	}
	return false
}
