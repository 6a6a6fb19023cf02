package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shopy/internal/app"
	"shopy/internal/transport/http/response"
)

type OrderHandler struct {
	orderService *app.OrderService
}

type CheckoutRequest struct {
	Items         []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string                `json:"payment_method" binding:"required,max=64"`
	PaymentRef    string                `json:"payment_ref" binding:"max=128"`
	ShippingName  string                `json:"shipping_name" binding:"max=128"`
	ShippingAddr  string                `json:"shipping_address" binding:"max=512"`
}

type CheckoutItemRequest struct {
	ProductID uint `json:"product_id" binding:"required,gt=0"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,max=32"`
}

func NewOrderHandler(orderService *app.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	items := make([]app.CheckoutItem, len(req.Items))
	for i, line := range req.Items {
		items[i] = app.CheckoutItem{ProductID: line.ProductID, Quantity: line.Quantity}
	}

	order, err := h.orderService.Checkout(app.CheckoutInput{
		UserID:        userID,
		Items:         items,
		PaymentMethod: req.PaymentMethod,
		PaymentRef:    req.PaymentRef,
		ShippingName:  req.ShippingName,
		ShippingAddr:  req.ShippingAddr,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrEmptyOrder):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrProductUnordered):
			response.Error(c, http.StatusBadRequest, response.CodeProductNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "checkout failed")
		}
		return
	}
	response.OK(c, order)
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	orders, err := h.orderService.ListUserOrders(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list orders failed")
		return
	}
	response.OK(c, orders)
}

func (h *OrderHandler) GetMine(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetUserOrder(userID, orderID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, response.CodeOrderNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get order failed")
		}
		return
	}
	response.OK(c, order)
}

func (h *OrderHandler) ListAll(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	orders, err := h.orderService.ListRecentOrders(limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list orders failed")
		return
	}
	response.OK(c, orders)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	order, err := h.orderService.UpdateStatus(orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrUnknownStatus):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, response.CodeOrderNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update order status failed")
		}
		return
	}
	response.OK(c, order)
}
