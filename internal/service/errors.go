package service

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError covers malformed order input (empty cart, bad quantity,
// incomplete shipping address).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NotFoundError is returned when a cart item references an artwork that does
// not exist.
type NotFoundError struct {
	ArtworkID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("artwork %s not found", e.ArtworkID)
}

// AlreadySoldError is returned when an artwork already has a completed
// transaction.
type AlreadySoldError struct {
	ArtworkID string
}

func (e *AlreadySoldError) Error() string {
	return fmt.Sprintf("artwork %s is already sold", e.ArtworkID)
}

// PriceMismatchError is returned when a caller-supplied price disagrees with
// the stored artwork price. The stored price is always authoritative; the
// client value is only a consistency check.
type PriceMismatchError struct {
	ArtworkID string
	Given     decimal.Decimal
	Stored    decimal.Decimal
}

func (e *PriceMismatchError) Error() string {
	return fmt.Sprintf("price %s for artwork %s does not match listed price %s",
		e.Given.StringFixed(2), e.ArtworkID, e.Stored.StringFixed(2))
}
