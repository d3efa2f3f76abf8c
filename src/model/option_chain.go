package model

import "github.com/shopspring/decimal"

// OptionQuote is a single strike row of an option chain.
type OptionQuote struct {
	StrikePrice  decimal.Decimal `json:"strike_price"`
	LastPrice    decimal.Decimal `json:"last_price"`
	OpenInterest int64           `json:"open_interest"`
}

// OptionChain holds the call and put sides for one index and expiry.
type OptionChain struct {
	Index  string        `json:"index"`
	Expiry string        `json:"expiry"`
	Calls  []OptionQuote `json:"calls"`
	Puts   []OptionQuote `json:"puts"`
}
