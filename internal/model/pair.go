package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pair is one reconciled row: a bank or card transaction matched to a
// budgeting-register entry on exact account, date and signed amount.
type Pair struct {
	Date            time.Time
	AccountName     string
	RawText         string
	RawNorm         string
	FingerprintV0   string
	YNABPayeeRaw    string
	YNABCategoryRaw string
	PairSource      string
	AmountILS       decimal.Decimal
	AmbiguousKey    bool
}
