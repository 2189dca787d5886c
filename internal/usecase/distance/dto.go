package distance

// EstimateRequest carries the lead's address and the quote's final value.
type EstimateRequest struct {
	Address    string  `json:"address" validate:"required,min=5"`
	QuoteValue float64 `json:"quote_value" validate:"required,min=0"`
}
