package repository

import "errors"

// ErrNoPriceData is returned when a product has no recorded price observation.
var ErrNoPriceData = errors.New("no price data for product")

// ErrAlertNotFound is returned when a toggle targets a (user, product) pair
// that has no alert row.
var ErrAlertNotFound = errors.New("alert not found")
