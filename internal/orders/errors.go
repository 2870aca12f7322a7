package orders

import (
	"fmt"

	pkgerrors "github.com/casamichael/shopping-backend/pkg/errors"
)

// Placement and lifecycle failures are user-facing; each carries a
// machine-readable reason in the details payload.
func errProductUnavailable(name string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeConflict,
		fmt.Sprintf("product %s is no longer available", name)).
		WithDetails(map[string]any{"reason": ReasonProductUnavailable, "product": name})
}

func errInsufficientStock(name string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeConflict,
		fmt.Sprintf("insufficient stock of product %s to take the order; reduce the quantity or substitute it", name)).
		WithDetails(map[string]any{"reason": ReasonInsufficientStock, "product": name})
}

func errOrderNotFound() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func errAlreadyCancelled() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already cancelled").
		WithDetails(map[string]any{"reason": ReasonAlreadyCancelled})
}

func errInvalidTransition(current, required, target string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("only %s orders can move to %s; order is %s", required, target, current)).
		WithDetails(map[string]any{
			"reason":   ReasonInvalidTransition,
			"current":  current,
			"required": required,
			"target":   target,
		})
}

// Reason values surfaced in error details.
const (
	ReasonProductUnavailable = "product_unavailable"
	ReasonInsufficientStock  = "insufficient_stock"
	ReasonAlreadyCancelled   = "already_cancelled"
	ReasonInvalidTransition  = "invalid_state_transition"
)
