package rbc

// Subscription flags. A target receives a message when its mask contains
// every bit of the message flag.
const (
	FlagProgress = 1
	FlagWarning  = 2
	FlagResult   = 4
	FlagTicket   = 8

	FlagAll = FlagProgress | FlagWarning | FlagResult | FlagTicket
)
