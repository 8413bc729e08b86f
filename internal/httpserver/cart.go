package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"shopfront/internal/domain"
	cartsvc "shopfront/internal/service/cart"

	"github.com/gin-gonic/gin"
)

type addToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type orderResponse struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	TotalAmount json.Number `json:"totalAmount"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type checkoutResponse struct {
	Message     string      `json:"message"`
	TotalAmount json.Number `json:"totalAmount"`
	OrderID     string      `json:"orderId"`
}

func (h *handlers) addToCart(c *gin.Context) {
	id, _ := identityFrom(c)
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	item, err := h.deps.CartSvc.Add(c.Request.Context(), id.UserID, cartsvc.AddInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.fail(c, "add to cart", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *handlers) listCart(c *gin.Context) {
	id, _ := identityFrom(c)
	items, err := h.deps.CartSvc.List(c.Request.Context(), id.UserID)
	if err != nil {
		h.fail(c, "list cart", err)
		return
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *handlers) checkout(c *gin.Context) {
	id, _ := identityFrom(c)
	res, err := h.deps.CheckoutSvc.Checkout(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "checkout", err)
		return
	}
	c.JSON(http.StatusOK, checkoutResponse{
		Message:     "Order placed successfully",
		TotalAmount: money(res.Order.TotalAmount),
		OrderID:     res.Order.ID,
	})
}

func (h *handlers) listOrders(c *gin.Context) {
	id, _ := identityFrom(c)
	orders, err := h.deps.CheckoutSvc.ListOrders(c.Request.Context(), id.UserID)
	if err != nil {
		h.fail(c, "list orders", err)
		return
	}
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderResponse{
			ID:          o.ID,
			UserID:      o.UserID,
			TotalAmount: money(o.TotalAmount),
			Status:      string(o.Status),
			CreatedAt:   o.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}
