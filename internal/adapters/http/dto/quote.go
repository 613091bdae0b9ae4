package dto

import "github.com/jsamuelsen/quotes-api/internal/domain"

// QuoteRequest is the body accepted by POST and PUT /quotes.
// Presence of quote and author is a domain rule, checked by the service.
type QuoteRequest struct {
	Quote  string `json:"quote"  validate:"max=2000"`
	Author string `json:"author" validate:"max=200"`
	Year   *int   `json:"year"   validate:"omitempty,gte=-9999,lte=9999"`
}

// ToDomain converts the request into a domain quote without an id.
func (r *QuoteRequest) ToDomain() *domain.Quote {
	return &domain.Quote{
		Quote:  r.Quote,
		Author: r.Author,
		Year:   r.Year,
	}
}

// QuoteResponse is the wire form of a stored quote.
type QuoteResponse struct {
	ID     string `json:"id"`
	Quote  string `json:"quote"`
	Author string `json:"author"`
	Year   *int   `json:"year,omitempty"`
}

// NewQuoteResponse converts a domain quote into its wire form.
func NewQuoteResponse(q *domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:     q.ID,
		Quote:  q.Quote,
		Author: q.Author,
		Year:   q.Year,
	}
}

// NewQuoteListResponse converts quotes into a JSON array that is never null.
func NewQuoteListResponse(quotes []*domain.Quote) []QuoteResponse {
	resp := make([]QuoteResponse, len(quotes))
	for i, q := range quotes {
		resp[i] = NewQuoteResponse(q)
	}

	return resp
}
