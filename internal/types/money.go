// README: Common money value object used across modules.
package types

import "fmt"

// Money carries an amount in minor units (cents) to keep fare math exact.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// USD builds a Money value from cents.
func USD(cents int64) Money {
	return Money{Amount: cents, Currency: "USD"}
}

func (m Money) String() string {
	sign := ""
	a := m.Amount
	if a < 0 {
		sign = "-"
		a = -a
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, a/100, a%100, m.Currency)
}
