package data

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// yearPlaceholder is rendered in place of the zero sentinel year.
const yearPlaceholder = "—"

func init() {
	for _, s := range []struct {
		key, en, ru string
	}{
		{"status." + StatusWant, "Want to read", "Хочу прочитать"},
		{"status." + StatusReading, "Reading", "Читаю"},
		{"status." + StatusDropped, "Dropped", "Бросил"},
		{"status." + StatusRead, "Read", "Прочитал"},
		{"status.unspecified", "Not specified", "Не указан"},
	} {
		message.SetString(language.English, s.key, s.en)
		message.SetString(language.Russian, s.key, s.ru)
	}
}

// Printer returns a message printer for the given BCP 47 locale string,
// falling back to English when the locale does not parse.
func Printer(locale string) *message.Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

// StatusLabel maps a status code to its localized display label. An
// unrecognized code is displayed verbatim; an empty one falls back to the
// "not specified" label.
func StatusLabel(p *message.Printer, code string) string {
	switch code {
	case StatusWant, StatusReading, StatusDropped, StatusRead:
		return p.Sprintf("status." + code)
	case "":
		return p.Sprintf("status.unspecified")
	default:
		return code
	}
}

// ItemView holds the display fields for one book row in the list screen.
type ItemView struct {
	Title  string
	Year   string
	Author string
	Status string
	Note   string
}

// NewItemView maps a Book to its display fields. Pure: no network, no state.
func NewItemView(p *message.Printer, b Book) ItemView {
	year := yearPlaceholder
	if b.Year > 0 {
		year = strconv.Itoa(b.Year)
	}
	return ItemView{
		Title:  b.Title,
		Year:   year,
		Author: b.Author,
		Status: StatusLabel(p, b.Status),
		Note:   b.Note,
	}
}
