package intervention

import "errors"

var (
	ErrInvalidID             = errors.New("invalid intervention id")
	ErrNotFound              = errors.New("intervention not found")
	ErrValidation            = errors.New("validation error")
	ErrTechnicianUnavailable = errors.New("technician not available")
	ErrStockDecrement        = errors.New("stock decrement failed")
)
