package catalog

import "strings"

// Book mirrors one record of the catalog API. The JSON names are the backend's
// wire contract and must not change.
type Book struct {
	ID              int64  `json:"id,omitempty"`
	Title           string `json:"titulo"`
	Author          string `json:"autor"`
	ISBN            string `json:"isbn"`
	PublicationYear int    `json:"anoPublicacao"`
	Available       bool   `json:"disponivel"`
}

// AvailabilityLabel returns the short label shown in lists.
func (b Book) AvailabilityLabel() string {
	if b.Available {
		return "Available"
	}
	return "Unavailable"
}

// DisplayTitle returns the title, or a placeholder for blank titles.
func (b Book) DisplayTitle() string {
	if t := strings.TrimSpace(b.Title); t != "" {
		return t
	}
	return "(untitled)"
}

// errorPayload is the body shape the backend uses for rejected requests.
type errorPayload struct {
	Message string `json:"message"`
}
