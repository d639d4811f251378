package models

import "github.com/satheeshds/autodealer/reconcile"

// Money is an amount in paise.
type Money = reconcile.Money

// tooLarge reports whether m is above the largest amount a ledger accepts.
func tooLarge(m Money) bool { return m > reconcile.MaxAmount }
