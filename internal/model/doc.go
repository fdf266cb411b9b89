// Package model defines the records persisted in the finance collections.
// Field names and JSON tags follow the backup document format, so a record
// round-trips unchanged between the store and an exported backup.
package model

import "github.com/shopspring/decimal"

func init() {
	// Amounts are plain JSON numbers in the backup format.
	decimal.MarshalJSONWithoutQuotes = true
}
