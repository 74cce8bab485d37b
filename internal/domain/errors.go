package domain

import (
	"github.com/pkg/errors"
)

var (
	// ErrValidation is matched by every input validation failure.
	ErrValidation = errors.New("validation failed")
	// ErrStoreWrite is matched by failures to persist a collection.
	ErrStoreWrite = errors.New("store write failed")
	// ErrCatalogLoad is matched by failures to read the medicine catalog.
	ErrCatalogLoad = errors.New("catalog load failed")
	ErrNotFound    = errors.New("not found")
)

// ValidationError is a user correctable input problem. The message is shown as is.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

func (e ValidationError) Is(target error) bool { return target == ErrValidation }

const (
	ErrInvalidQuantity = ValidationError("quantity must be a positive number")
	ErrIneligible      = ValidationError("medicine is not available")
	ErrLineNotFound    = ValidationError("cart line not found")
	ErrEmptyCart       = ValidationError("your cart is empty, please add items before placing an order")
	ErrBlankAddress    = ValidationError("please enter your delivery address")
	ErrBlankField      = ValidationError("please fill in all fields")
	ErrNothingSelected = ValidationError("please select at least one non-expired medicine with quantity greater than zero")
	ErrUsernameTaken   = ValidationError("username already exists")
	ErrUsernameTooLong = ValidationError("username must be at most 20 characters")
	ErrInvalidEmail    = ValidationError("invalid email format")
	ErrPasswordShort   = ValidationError("password must be at least 6 characters")
	ErrPasswordUpper   = ValidationError("password must have at least one uppercase letter")
	ErrPasswordLower   = ValidationError("password must have at least one lowercase letter")
	ErrPasswordDigit   = ValidationError("password must have at least one digit")
	ErrPasswordSpecial = ValidationError("password must have at least one special character: !@#$%^&*()-_+=")
	ErrUserNotFound    = ValidationError("user not found")
	ErrWrongPassword   = ValidationError("incorrect password")
)

// StoreWriteError wraps a failed write to a named collection.
type StoreWriteError struct {
	Collection string
	Err        error
}

func (e *StoreWriteError) Error() string {
	return "save " + e.Collection + ": " + e.Err.Error()
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

func (e *StoreWriteError) Is(target error) bool { return target == ErrStoreWrite }

// CatalogLoadError wraps a failed or malformed catalog read.
type CatalogLoadError struct {
	Err error
}

func (e *CatalogLoadError) Error() string { return "load medicines: " + e.Err.Error() }

func (e *CatalogLoadError) Unwrap() error { return e.Err }

func (e *CatalogLoadError) Is(target error) bool { return target == ErrCatalogLoad }

func IsValidation(err error) bool  { return errors.Is(err, ErrValidation) }
func IsStoreWrite(err error) bool  { return errors.Is(err, ErrStoreWrite) }
func IsCatalogLoad(err error) bool { return errors.Is(err, ErrCatalogLoad) }
func IsNotFound(err error) bool    { return errors.Is(err, ErrNotFound) }
