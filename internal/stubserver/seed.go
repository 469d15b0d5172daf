package stubserver

import "github.com/five82/shelf/internal/catalog"

// SeedData returns example books to pre-populate the stub catalog.
func SeedData() []catalog.Book {
	return []catalog.Book{
		{
			ID:              1,
			Title:           "The Go Programming Language",
			Author:          "Alan A. A. Donovan",
			ISBN:            "9780134190440",
			PublicationYear: 2015,
			Available:       true,
		},
		{
			ID:              2,
			Title:           "Introducing Go",
			Author:          "Caleb Doxsey",
			ISBN:            "9781491941959",
			PublicationYear: 2016,
			Available:       true,
		},
		{
			ID:              3,
			Title:           "Concurrency in Go",
			Author:          "Katherine Cox-Buday",
			ISBN:            "9781491941195",
			PublicationYear: 2017,
			Available:       false,
		},
		{
			ID:              4,
			Title:           "Go in Practice",
			Author:          "Matt Butcher",
			ISBN:            "9781633430075",
			PublicationYear: 2016,
			Available:       true,
		},
	}
}
