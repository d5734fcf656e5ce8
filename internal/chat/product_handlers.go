// internal/chat/product_handlers.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agrifresh/agrifresh-backend/internal/auth"
	"github.com/agrifresh/agrifresh-backend/internal/models"
	"github.com/agrifresh/agrifresh-backend/internal/nlu"
	"github.com/agrifresh/agrifresh-backend/internal/repository"
)

// upsertProduct serves both add_product and update_product: one atomic
// upsert keyed by (name, owner). Category and availability are recomputed
// on every write so an update can never leave them stale.
func (d *Dispatcher) upsertProduct(ctx context.Context, scope auth.Scope, c *nlu.Classification) (string, error) {
	name := normalizeName(c.Entity("name"))
	if name == "" {
		return replyInvalidProduct, fmt.Errorf("%w: missing product name", ErrValidation)
	}

	price, err := Normalize(c.Entity("price"), FieldPrice)
	if err != nil {
		return replyInvalidProduct, err
	}
	quantity, err := Normalize(c.Entity("quantity"), FieldQuantity)
	if err != nil {
		return replyInvalidProduct, err
	}

	// The unit usually rides on the price ("50/kg"); fall back to the
	// quantity's when only that one is explicit.
	unit := price.Unit
	if unit == defaultUnit && quantity.Unit != defaultUnit {
		unit = quantity.Unit
	}

	product := &models.Product{
		Name:         name,
		Price:        price.Value,
		Quantity:     quantity.Value,
		Unit:         unit,
		Category:     ClassifyCategory(name),
		Availability: models.AvailabilityFor(quantity.Value),
		OwnerID:      scope.UserID,
		HarvestDate:  time.Now(),
	}

	if err := d.products.Upsert(ctx, product); err != nil {
		return replyTryAgain, err
	}

	if c.Intent == "update_product" {
		return fmt.Sprintf("Updated '%s' successfully.", name), nil
	}
	return fmt.Sprintf("Product '%s' added successfully.", name), nil
}

func (d *Dispatcher) deleteProduct(ctx context.Context, scope auth.Scope, c *nlu.Classification) (string, error) {
	name := normalizeName(c.Entity("name"))
	if name == "" {
		return "No product specified.", fmt.Errorf("%w: missing product name", ErrValidation)
	}

	if err := d.products.DeleteByNameAndOwner(ctx, name, scope.UserID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return fmt.Sprintf("'%s' not found.", name), err
		}
		return replyTryAgain, err
	}
	return fmt.Sprintf("Product '%s' deleted.", name), nil
}

func (d *Dispatcher) viewListings(ctx context.Context, scope auth.Scope, c *nlu.Classification) (string, error) {
	products, err := d.products.ListByOwner(ctx, scope.UserID)
	if err != nil {
		return replyTryAgain, err
	}
	if len(products) == 0 {
		return "No products listed.", nil
	}

	lines := make([]string, 0, len(products))
	for _, p := range products {
		lines = append(lines, fmt.Sprintf("%s: %s %s at %s/%s",
			p.Name, p.Quantity.String(), p.Unit, p.Price.String(), p.Unit))
	}
	return strings.Join(lines, "\n"), nil
}

func (d *Dispatcher) checkAvailability(ctx context.Context, scope auth.Scope, c *nlu.Classification) (string, error) {
	name := normalizeName(c.Entity("name"))
	if name == "" {
		return "No product specified.", fmt.Errorf("%w: missing product name", ErrValidation)
	}

	product, err := d.products.FindByNameAndOwner(ctx, name, scope.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return fmt.Sprintf("'%s' not found.", name), err
		}
		return replyTryAgain, err
	}
	return fmt.Sprintf("'%s' available: %s %s at %s/%s.",
		product.Name, product.Quantity.String(), product.Unit,
		product.Price.String(), product.Unit), nil
}

// searchProducts only formats: the result set was already computed by the
// classifier service.
func (d *Dispatcher) searchProducts(ctx context.Context, scope auth.Scope, c *nlu.Classification) (string, error) {
	if len(c.Results) == 0 {
		return "No matching products found.", nil
	}

	lines := make([]string, 0, len(c.Results))
	for _, hit := range c.Results {
		lines = append(lines, fmt.Sprintf("%s: %s at %s", hit.Name, hit.Quantity, hit.Price))
	}
	return strings.Join(lines, "\n"), nil
}

func normalizeName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
