// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnauthorized indicates failed authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrPermissionDenied indicates the actor lacks the role required for an action.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrAccountLocked indicates too many failed login attempts; a super user must reset.
	ErrAccountLocked = errors.New("account locked")

	// ErrValidation indicates missing or malformed request input. Wrap it
	// with the offending field so errors.Is keeps matching.
	ErrValidation = errors.New("validation failed")

	// ErrAccountInUse indicates the account still backs item or transaction
	// records and cannot be removed.
	ErrAccountInUse = errors.New("account referenced by sale records")
)

// Domain-rule sentinels for the sale/item/transaction lifecycle.
var (
	// ErrItemPurchased indicates an attempt to mutate an item that has been sold.
	// Sold items are frozen for audit integrity until detached from their transaction.
	ErrItemPurchased = errors.New("item purchased")

	// ErrBelowMinimumPrice indicates a sale attempt under the item's minimum price.
	ErrBelowMinimumPrice = errors.New("below minimum price")

	// ErrBidTooLow indicates a bid that does not beat the current highest bid.
	ErrBidTooLow = errors.New("bid too low")

	// ErrSaleClosed indicates an administrative mutation on a closed sale.
	ErrSaleClosed = errors.New("sale closed")

	// ErrInvalidDateRange indicates a sale whose end date precedes its start date.
	ErrInvalidDateRange = errors.New("end date before start date")

	// ErrTransactionNotEmpty indicates a delete attempt while items still
	// reference the transaction; detach all items first.
	ErrTransactionNotEmpty = errors.New("transaction has attached items")

	// ErrItemNotInSale indicates selling an item that is not attached to the
	// transaction's sale.
	ErrItemNotInSale = errors.New("item not in the transaction's sale")
)
