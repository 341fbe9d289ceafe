package service

import (
	"errors"
	"fmt"
)

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")

	// ErrQuotationNotFound is returned when a quotation is not found
	ErrQuotationNotFound = errors.New("quotation not found")

	// ErrPksNotFound is returned when a contract is not found
	ErrPksNotFound = errors.New("contract not found")

	// ErrSpkNotFound is returned when a work order is not found
	ErrSpkNotFound = errors.New("work order not found")

	// ErrCustomerNotFound is returned when a customer is not found
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrSiteNotFound is returned when a site is not found
	ErrSiteNotFound = errors.New("site not found")

	// ErrEntityNotFound is returned when a legal entity code is unknown
	ErrEntityNotFound = errors.New("entity not found")

	// ErrInvalidStatus is returned for a status value outside the allowed set
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidNeedCategory is returned for an unknown need category
	ErrInvalidNeedCategory = errors.New("invalid need category")

	// ErrQuotationNotApprovable is returned when approving a quotation that
	// is not in a phase that allows it
	ErrQuotationNotApprovable = errors.New("quotation cannot be approved in its current status")

	// ErrPksNotApprovable is returned when approving a contract that is not
	// awaiting approval
	ErrPksNotApprovable = errors.New("contract cannot be approved in its current status")

	// ErrPksNotActivatable is returned when activating a contract that has
	// not passed all approval levels
	ErrPksNotActivatable = errors.New("contract has not completed approval")

	// ErrContractDates is returned when the contract end date is not after
	// the start date
	ErrContractDates = errors.New("contract end date must be after start date")
)

// DuplicateNameError is returned when a lead's company name is too close to
// an existing one. It carries the offending match so callers can show it.
type DuplicateNameError struct {
	Name    string
	Match   string
	Percent float64
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("company name %q is too similar to existing lead %q (%.1f%%)", e.Name, e.Match, e.Percent)
}
