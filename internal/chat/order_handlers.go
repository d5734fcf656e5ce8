// internal/chat/order_handlers.go
package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/agrifresh/agrifresh-backend/internal/auth"
	"github.com/agrifresh/agrifresh-backend/internal/nlu"
	"github.com/agrifresh/agrifresh-backend/internal/repository"
)

// placeOrder looks the product up globally (the buyer does not own it) and
// delegates the stock check, decrement and order insert to one repository
// transaction. The buyer is always the scope user, never an entity field.
func (d *Dispatcher) placeOrder(ctx context.Context, scope auth.Scope, c *nlu.Classification) (string, error) {
	name := normalizeName(c.Entity("product_name"))
	if name == "" {
		name = normalizeName(c.Entity("name"))
	}
	if name == "" {
		return "No order details provided.", fmt.Errorf("%w: missing product name", ErrValidation)
	}

	quantity, err := Normalize(c.Entity("quantity"), FieldQuantity)
	if err != nil {
		return "No order details provided.", err
	}

	order, err := d.orders.Place(ctx, name, quantity.Value, scope.UserID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			return fmt.Sprintf("'%s' not found.", name), err
		case errors.Is(err, repository.ErrInsufficientStock):
			return fmt.Sprintf("Not enough stock for '%s'.", name), err
		default:
			return replyTryAgain, err
		}
	}
	return fmt.Sprintf("Order placed: %s %s of '%s'.",
		order.Quantity.String(), quantity.Unit, order.ProductName), nil
}

// cancelOrder is seller-only; any ownership mismatch replies exactly like
// a missing order so existence is not leaked to other users.
func (d *Dispatcher) cancelOrder(ctx context.Context, scope auth.Scope, c *nlu.Classification) (string, error) {
	orderID, err := uuid.Parse(c.Entity("order_id"))
	if err != nil {
		return replyOrderNotFound, fmt.Errorf("%w: bad order id %q", ErrValidation, c.Entity("order_id"))
	}

	if err := d.orders.Cancel(ctx, orderID, scope.UserID); err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			return replyOrderNotFound, err
		case errors.Is(err, repository.ErrNotOrderSeller):
			return replyOrderNotFound, fmt.Errorf("%w: %v", ErrForbidden, err)
		case errors.Is(err, repository.ErrOrderNotCancellable):
			return fmt.Sprintf("Order '%s' can no longer be cancelled.", orderID), err
		default:
			return replyTryAgain, err
		}
	}
	return fmt.Sprintf("Order '%s' cancelled.", orderID), nil
}

// trackOrder is visible to the order's buyer and seller only.
func (d *Dispatcher) trackOrder(ctx context.Context, scope auth.Scope, c *nlu.Classification) (string, error) {
	orderID, err := uuid.Parse(c.Entity("order_id"))
	if err != nil {
		return replyOrderNotFound, fmt.Errorf("%w: bad order id %q", ErrValidation, c.Entity("order_id"))
	}

	order, err := d.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return replyOrderNotFound, err
		}
		return replyTryAgain, err
	}

	if order.BuyerID != scope.UserID && order.SellerID != scope.UserID {
		return replyOrderNotFound, fmt.Errorf("%w: requester is neither buyer nor seller", ErrForbidden)
	}
	return fmt.Sprintf("Order '%s' status: %s.", orderID, order.Status), nil
}
