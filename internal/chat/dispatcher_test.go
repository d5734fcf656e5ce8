package chat

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agrifresh/agrifresh-backend/internal/auth"
	"github.com/agrifresh/agrifresh-backend/internal/models"
	"github.com/agrifresh/agrifresh-backend/internal/nlu"
	"github.com/agrifresh/agrifresh-backend/internal/repository"
	"github.com/agrifresh/agrifresh-backend/internal/repository/mocks"
)

func farmerScope() auth.Scope {
	return auth.Scope{UserID: uuid.New(), Role: models.UserRoleFarmer}
}

func customerScope() auth.Scope {
	return auth.Scope{UserID: uuid.New(), Role: models.UserRoleCustomer}
}

func classification(intent string, entities map[string]string) *nlu.Classification {
	return &nlu.Classification{Intent: intent, Entities: entities}
}

func TestDispatchAddProduct(t *testing.T) {
	productRepo := new(mocks.MockProductRepository)
	orderRepo := new(mocks.MockOrderRepository)
	d := NewDispatcher(productRepo, orderRepo)

	scope := farmerScope()
	var stored *models.Product
	productRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*models.Product")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*models.Product)
		}).Return(nil).Once()

	reply := d.Dispatch(context.Background(), scope, classification("add_product", map[string]string{
		"name":     "Tomato",
		"price":    "50/kg",
		"quantity": "100",
	}))

	assert.Contains(t, reply, "added")
	assert.Contains(t, reply, "tomato")
	require.NotNil(t, stored)
	assert.Equal(t, "tomato", stored.Name)
	assert.True(t, stored.Price.Equal(decimal.NewFromInt(50)))
	assert.True(t, stored.Quantity.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "kg", stored.Unit)
	assert.Equal(t, "vegetables", stored.Category)
	assert.Equal(t, models.AvailabilityInStock, stored.Availability)
	assert.Equal(t, scope.UserID, stored.OwnerID)
	productRepo.AssertExpectations(t)
}

func TestDispatchUpdateProductZeroQuantityGoesOutOfStock(t *testing.T) {
	productRepo := new(mocks.MockProductRepository)
	orderRepo := new(mocks.MockOrderRepository)
	d := NewDispatcher(productRepo, orderRepo)

	var stored *models.Product
	productRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*models.Product")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*models.Product)
		}).Return(nil).Once()

	reply := d.Dispatch(context.Background(), farmerScope(), classification("update_product", map[string]string{
		"name":     "Mango",
		"price":    "80",
		"quantity": "0",
	}))

	assert.Contains(t, reply, "Updated")
	require.NotNil(t, stored)
	assert.Equal(t, models.AvailabilityOutOfStock, stored.Availability)
	assert.Equal(t, "fruits", stored.Category)
	productRepo.AssertExpectations(t)
}

func TestDispatchAddProductInvalidDetails(t *testing.T) {
	productRepo := new(mocks.MockProductRepository)
	orderRepo := new(mocks.MockOrderRepository)
	d := NewDispatcher(productRepo, orderRepo)

	tests := map[string]map[string]string{
		"missing name":      {"price": "50", "quantity": "100"},
		"missing price":     {"name": "tomato", "quantity": "100"},
		"unparsable price":  {"name": "tomato", "price": "cheap", "quantity": "100"},
		"missing quantity":  {"name": "tomato", "price": "50"},
		"negative quantity": {"name": "tomato", "price": "50", "quantity": "-4"},
	}

	for name, entities := range tests {
		t.Run(name, func(t *testing.T) {
			reply := d.Dispatch(context.Background(), farmerScope(), classification("add_product", entities))
			assert.Contains(t, reply, "Invalid product details")
		})
	}
	// No write ever reached the store.
	productRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestDispatchDeleteProduct(t *testing.T) {
	productRepo := new(mocks.MockProductRepository)
	orderRepo := new(mocks.MockOrderRepository)
	d := NewDispatcher(productRepo, orderRepo)
	scope := farmerScope()

	productRepo.On("DeleteByNameAndOwner", mock.Anything, "tomato", scope.UserID).
		Return(nil).Once()
	reply := d.Dispatch(context.Background(), scope, classification("delete_product", map[string]string{"name": "Tomato"}))
	assert.Contains(t, reply, "deleted")

	productRepo.On("DeleteByNameAndOwner", mock.Anything, "okra", scope.UserID).
		Return(repository.ErrProductNotFound).Once()
	reply = d.Dispatch(context.Background(), scope, classification("delete_product", map[string]string{"name": "okra"}))
	assert.Contains(t, reply, "not found")
	productRepo.AssertExpectations(t)
}

func TestDispatchViewListingsAlias(t *testing.T) {
	productRepo := new(mocks.MockProductRepository)
	orderRepo := new(mocks.MockOrderRepository)
	d := NewDispatcher(productRepo, orderRepo)
	scope := farmerScope()

	listings := []models.Product{
		{
			Name:     "tomato",
			Price:    decimal.NewFromInt(50),
			Quantity: decimal.NewFromInt(100),
			Unit:     "kg",
		},
	}
	productRepo.On("ListByOwner", mock.Anything, scope.UserID).Return(listings, nil).Twice()

	for _, intent := range []string{"view_listings", "view_current_listings"} {
		reply := d.Dispatch(context.Background(), scope, classification(intent, nil))
		assert.Contains(t, reply, "tomato")
		assert.Contains(t, reply, "100 kg")
	}
	productRepo.AssertExpectations(t)
}

func TestDispatchViewListingsEmptyIsInformational(t *testing.T) {
	productRepo := new(mocks.MockProductRepository)
	orderRepo := new(mocks.MockOrderRepository)
	d := NewDispatcher(productRepo, orderRepo)
	scope := farmerScope()

	productRepo.On("ListByOwner", mock.Anything, scope.UserID).Return([]models.Product{}, nil).Once()
	reply := d.Dispatch(context.Background(), scope, classification("view_listings", nil))
	assert.Equal(t, "No products listed.", reply)
}

func TestDispatchCheckAvailabilityNotFound(t *testing.T) {
	productRepo := new(mocks.MockProductRepository)
	orderRepo := new(mocks.MockOrderRepository)
	d := NewDispatcher(productRepo, orderRepo)
	scope := farmerScope()

	productRepo.On("FindByNameAndOwner", mock.Anything, "durian", scope.UserID).
		Return(nil, repository.ErrProductNotFound).Once()

	reply := d.Dispatch(context.Background(), scope, classification("check_availability", map[string]string{"name": "durian"}))
	assert.Contains(t, reply, "'durian' not found")
	productRepo.AssertExpectations(t)
}

func TestDispatchPlaceOrder(t *testing.T) {
	productRepo := new(mocks.MockProductRepository)
	orderRepo := new(mocks.MockOrderRepository)
	d := NewDispatcher(productRepo, orderRepo)
	scope := customerScope()

	placed := &models.Order{
		ProductName: "tomato",
		Quantity:    decimal.NewFromInt(30),
		BuyerID:     scope.UserID,
		Status:      models.OrderStatusPlaced,
	}
	orderRepo.On("Place", mock.Anything, "tomato", mock.Anything, scope.UserID).
		Return(placed, nil).Once()

	reply := d.Dispatch(context.Background(), scope, classification("place_order", map[string]string{
		"product_name": "Tomato",
		"quantity":     "30",
	}))

	assert.Contains(t, reply, "Order placed")
	assert.Contains(t, reply, "30 kg")
	assert.Contains(t, reply, "tomato")
	orderRepo.AssertExpectations(t)
}

func TestDispatchPlaceOrderInsufficientStock(t *testing.T) {
	productRepo := new(mocks.MockProductRepository)
	orderRepo := new(mocks.MockOrderRepository)
	d := NewDispatcher(productRepo, orderRepo)
	scope := customerScope()

	orderRepo.On("Place", mock.Anything, "tomato", mock.Anything, scope.UserID).
		Return(nil, repository.ErrInsufficientStock).Once()

	reply := d.Dispatch(context.Background(), scope, classification("place_order", map[string]string{
		"product_name": "tomato",
		"quantity":     "200",
	}))

	// The conflict stays in the logs; the user only sees a stock message
	// naming the product.
	assert.Equal(t, "Not enough stock for 'tomato'.", reply)
	orderRepo.AssertExpectations(t)
}

func TestDispatchCancelOrderOwnership(t *testing.T) {
	productRepo := new(mocks.MockProductRepository)
	orderRepo := new(mocks.MockOrderRepository)
	d := NewDispatcher(productRepo, orderRepo)
	scope := farmerScope()
	orderID := uuid.New()

	// Not the seller: reply must be indistinguishable from a missing
	// order.
	orderRepo.On("Cancel", mock.Anything, orderID, scope.UserID).
		Return(repository.ErrNotOrderSeller).Once()
	reply := d.Dispatch(context.Background(), scope, classification("cancel_order", map[string]string{
		"order_id": orderID.String(),
	}))
	assert.Equal(t, "Order not found.", reply)

	// Garbage order id gets the same reply without touching the store.
	reply = d.Dispatch(context.Background(), scope, classification("cancel_order", map[string]string{
		"order_id": "not-a-uuid",
	}))
	assert.Equal(t, "Order not found.", reply)

	orderRepo.On("Cancel", mock.Anything, orderID, scope.UserID).
		Return(nil).Once()
	reply = d.Dispatch(context.Background(), scope, classification("cancel_order", map[string]string{
		"order_id": orderID.String(),
	}))
	assert.Contains(t, reply, "cancelled")
	orderRepo.AssertExpectations(t)
}

func TestDispatchTrackOrder(t *testing.T) {
	productRepo := new(mocks.MockProductRepository)
	orderRepo := new(mocks.MockOrderRepository)
	d := NewDispatcher(productRepo, orderRepo)
	buyer := customerScope()
	orderID := uuid.New()

	order := &models.Order{
		ProductName: "tomato",
		BuyerID:     buyer.UserID,
		SellerID:    uuid.New(),
		Status:      models.OrderStatusPlaced,
	}
	orderRepo.On("FindByID", mock.Anything, orderID).Return(order, nil).Twice()

	reply := d.Dispatch(context.Background(), buyer, classification("track_order", map[string]string{
		"order_id": orderID.String(),
	}))
	assert.Contains(t, reply, "placed")

	// A third party sees nothing.
	stranger := customerScope()
	reply = d.Dispatch(context.Background(), stranger, classification("track_order", map[string]string{
		"order_id": orderID.String(),
	}))
	assert.Equal(t, "Order not found.", reply)
	orderRepo.AssertExpectations(t)
}

func TestDispatchSearchProductsFormatsPrecomputedResults(t *testing.T) {
	productRepo := new(mocks.MockProductRepository)
	orderRepo := new(mocks.MockOrderRepository)
	d := NewDispatcher(productRepo, orderRepo)

	c := &nlu.Classification{
		Intent: "search_products",
		Results: []nlu.SearchResult{
			{Name: "tomato", Price: "45", Quantity: "20"},
			{Name: "onion", Price: "30", Quantity: "50"},
		},
	}
	reply := d.Dispatch(context.Background(), customerScope(), c)
	assert.Contains(t, reply, "tomato")
	assert.Contains(t, reply, "onion")

	reply = d.Dispatch(context.Background(), customerScope(), classification("search_products", nil))
	assert.Equal(t, "No matching products found.", reply)
}

func TestDispatchUnknownIntent(t *testing.T) {
	productRepo := new(mocks.MockProductRepository)
	orderRepo := new(mocks.MockOrderRepository)
	d := NewDispatcher(productRepo, orderRepo)

	reply := d.Dispatch(context.Background(), farmerScope(), classification("weather", map[string]string{"city": "pune"}))
	assert.Equal(t, replyFallback, reply)

	// No store access for unknown intents.
	productRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	productRepo.AssertNotCalled(t, "ListByOwner", mock.Anything, mock.Anything)
	orderRepo.AssertNotCalled(t, "Place", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatchConversationalIntents(t *testing.T) {
	d := NewDispatcher(new(mocks.MockProductRepository), new(mocks.MockOrderRepository))

	assert.Equal(t, replyGreeting, d.Dispatch(context.Background(), farmerScope(), classification("greet", nil)))
	assert.Equal(t, replyGoodbye, d.Dispatch(context.Background(), farmerScope(), classification("goodbye", nil)))
	assert.Equal(t, replyMisunderstood, d.Dispatch(context.Background(), farmerScope(), classification("fallback", nil)))
	assert.Equal(t, replyFallback, d.Dispatch(context.Background(), farmerScope(), nil))
}
