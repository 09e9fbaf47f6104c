package domain

import "errors"

// Common domain errors
var (
	ErrStoreConflict  = errors.New("store transaction conflict")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternalServer = errors.New("internal server error")
)

// BookErrors
var (
	ErrBookNotFound      = errors.New("book not found")
	ErrDuplicateISBN     = errors.New("book with this ISBN already exists")
	ErrNoCopiesAvailable = errors.New("no available copies")
	ErrCopiesCheckedOut  = errors.New("total copies cannot drop below checked-out count")
)

// MemberErrors
var (
	ErrMemberNotFound = errors.New("member not found")
	ErrMemberInactive = errors.New("member account is not active")
	ErrDuplicateEmail = errors.New("member with this email already exists")
	ErrInvalidEmail   = errors.New("invalid email address")
)

// LoanErrors
var (
	ErrDuplicateActiveLoan = errors.New("member already has an active loan for this book")
	ErrNoActiveLoan        = errors.New("no active loan found for this book and member")
)

// Guard errors
var (
	ErrHasActiveLoans = errors.New("entity has active loans")
	ErrHasUnpaidFines = errors.New("member has unpaid fines")
)
