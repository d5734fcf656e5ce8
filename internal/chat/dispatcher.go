// internal/chat/dispatcher.go
package chat

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/agrifresh/agrifresh-backend/internal/auth"
	"github.com/agrifresh/agrifresh-backend/internal/nlu"
	"github.com/agrifresh/agrifresh-backend/internal/repository"
)

// Canned replies. Tests pin their content, treat them as part of the
// chat contract.
const (
	replyFallback       = "I'm not sure how to help with that."
	replyMisunderstood  = "Sorry, I didn't understand that."
	replyGreeting       = "Hello! How can I assist you today?"
	replyGoodbye        = "Goodbye! Have a great day!"
	replyTryAgain       = "Something went wrong, please try again."
	replyInvalidProduct = "Invalid product details."
	replyOrderNotFound  = "Order not found."
)

type handlerFunc func(ctx context.Context, scope auth.Scope, c *nlu.Classification) (string, error)

// Dispatcher routes a classified intent to its handler and shapes the
// reply. It is stateless per call; the repositories are the only shared
// resource behind it.
type Dispatcher struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	handlers map[string]handlerFunc
	log      *logrus.Entry
}

func NewDispatcher(products repository.ProductRepository, orders repository.OrderRepository) *Dispatcher {
	d := &Dispatcher{
		products: products,
		orders:   orders,
		log:      logrus.WithField("component", "dispatcher"),
	}

	// Alias-normalized dispatch table. Aliases are listed explicitly;
	// no similarity matching.
	d.handlers = map[string]handlerFunc{
		"add_product":           d.upsertProduct,
		"update_product":        d.upsertProduct,
		"delete_product":        d.deleteProduct,
		"view_listings":         d.viewListings,
		"view_current_listings": d.viewListings,
		"check_availability":    d.checkAvailability,
		"search_products":       d.searchProducts,
		"place_order":           d.placeOrder,
		"cancel_order":          d.cancelOrder,
		"track_order":           d.trackOrder,
		"greet":                 d.greet,
		"goodbye":               d.goodbye,
	}
	return d
}

// Dispatch maps (intent, entities, scope) to a reply string. It never
// returns an error: handler failures are logged here and the caller gets
// a safe reply either way.
func (d *Dispatcher) Dispatch(ctx context.Context, scope auth.Scope, c *nlu.Classification) string {
	if c == nil {
		return replyFallback
	}
	if c.Intent == "fallback" {
		return replyMisunderstood
	}

	handler, ok := d.handlers[c.Intent]
	if !ok {
		d.log.WithFields(logrus.Fields{
			"intent":  c.Intent,
			"user_id": scope.UserID,
		}).Info("unknown intent")
		return replyFallback
	}

	reply, err := handler(ctx, scope, c)
	if err != nil {
		d.log.WithFields(logrus.Fields{
			"intent":  c.Intent,
			"user_id": scope.UserID,
		}).WithError(err).Warn("intent handler failed")
	}
	if reply == "" {
		reply = replyTryAgain
	}
	return reply
}

func (d *Dispatcher) greet(ctx context.Context, scope auth.Scope, c *nlu.Classification) (string, error) {
	return replyGreeting, nil
}

func (d *Dispatcher) goodbye(ctx context.Context, scope auth.Scope, c *nlu.Classification) (string, error) {
	return replyGoodbye, nil
}
