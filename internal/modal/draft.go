package modal

import (
	"strconv"
	"strings"
	"time"

	"github.com/five82/shelf/internal/catalog"
)

// Field names one editable attribute of a book.
type Field int

const (
	FieldTitle Field = iota
	FieldAuthor
	FieldISBN
	FieldYear
	FieldAvailable
)

var fieldLabels = map[Field]string{
	FieldTitle:     "Title",
	FieldAuthor:    "Author",
	FieldISBN:      "ISBN",
	FieldYear:      "Publication year",
	FieldAvailable: "Available",
}

func (f Field) String() string {
	if label, ok := fieldLabels[f]; ok {
		return label
	}
	return "field(" + strconv.Itoa(int(f)) + ")"
}

// Draft is the uncommitted copy of a book's fields bound to the open modal.
// Year holds the raw text the user typed; it is parsed only on save. A nil
// Available means "not set".
type Draft struct {
	Title     string
	Author    string
	ISBN      string
	Year      string
	Available *bool
}

// AvailableValue reports the availability the draft would save.
func (d Draft) AvailableValue() bool {
	return d.Available == nil || *d.Available
}

func blankDraft(now time.Time) Draft {
	available := true
	return Draft{
		Year:      strconv.Itoa(now.Year()),
		Available: &available,
	}
}

func draftFrom(book catalog.Book) Draft {
	available := book.Available
	d := Draft{
		Title:     book.Title,
		Author:    book.Author,
		ISBN:      book.ISBN,
		Available: &available,
	}
	if book.PublicationYear != 0 {
		d.Year = strconv.Itoa(book.PublicationYear)
	}
	return d
}

// build finalizes the draft into a book ready to persist. Required fields are
// checked first; an empty or zero year becomes the current year and an unset
// availability becomes true.
func (d Draft) build(now time.Time) (catalog.Book, error) {
	book := catalog.Book{
		Title:  strings.TrimSpace(d.Title),
		Author: strings.TrimSpace(d.Author),
		ISBN:   strings.TrimSpace(d.ISBN),
	}
	for _, req := range []struct {
		field Field
		value string
	}{
		{FieldTitle, book.Title},
		{FieldAuthor, book.Author},
		{FieldISBN, book.ISBN},
	} {
		if req.value == "" {
			return catalog.Book{}, &ValidationError{Field: req.field, Message: "Title, author and ISBN are required."}
		}
	}

	year := now.Year()
	if text := strings.TrimSpace(d.Year); text != "" {
		parsed, err := strconv.Atoi(text)
		if err != nil || parsed < 0 {
			return catalog.Book{}, &ValidationError{Field: FieldYear, Message: "Publication year must be a number."}
		}
		if parsed != 0 {
			year = parsed
		}
	}
	book.PublicationYear = year
	book.Available = d.AvailableValue()
	return book, nil
}
