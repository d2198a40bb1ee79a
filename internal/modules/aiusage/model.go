package aiusage

import "errors"

// ErrInsufficientTokens is returned when a user has no classifier calls remaining for the current month.
var ErrInsufficientTokens = errors.New("insufficient tokens")

// DefaultTokens is the number of classifier calls granted per month.
const DefaultTokens = 500
