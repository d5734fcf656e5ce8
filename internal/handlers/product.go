// internal/handlers/product.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agrifresh/agrifresh-backend/internal/repository"
	"github.com/agrifresh/agrifresh-backend/internal/utils"
)

type ProductHandler struct {
	products repository.ProductRepository
}

func NewProductHandler(products repository.ProductRepository) *ProductHandler {
	return &ProductHandler{
		products: products,
	}
}

// GET /products
// Public browse surface for the storefront; optional ?category= filter.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch products")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GET /products/mine
// The authenticated farmer's own listings.
func (h *ProductHandler) GetMyListings(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	products, err := h.products.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch listings")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"products": products,
		"count":    len(products),
	})
}
