package controllers

import (
	"strings"

	"github.com/Govind-619/ShopSphere/models"
	"github.com/Govind-619/ShopSphere/utils"
	"github.com/gin-gonic/gin"
)

var adminStatuses = []models.OrderStatus{
	models.OrderStatusConfirmed,
	models.OrderStatusProcessing,
	models.OrderStatusShipped,
	models.OrderStatusDelivered,
	models.OrderStatusCancelled,
	models.OrderStatusRefunded,
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// ListOrders returns one page of the caller's orders, newest first
func (ctl *Controller) ListOrders(c *gin.Context) {
	utils.LogInfo("ListOrders called")

	p, ok := principal(c)
	if !ok {
		return
	}

	orders, err := ctl.orders.ListOrders(c.Request.Context(), p)
	if err != nil {
		utils.LogError("Failed to list orders for user %s: %v", p.UserID, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogDebug("Found %d orders for user %s", len(orders), p.UserID)
	if orders == nil {
		orders = []models.Order{}
	}
	pagination := utils.NewPagination(c)
	start, end := pagination.Window(len(orders))
	utils.Success(c, "Orders retrieved successfully", gin.H{
		"orders":     orders[start:end],
		"count":      len(orders),
		"pagination": pagination,
	})
}

// GetOrder returns one order visible to the caller
func (ctl *Controller) GetOrder(c *gin.Context) {
	utils.LogInfo("GetOrder called")

	p, ok := principal(c)
	if !ok {
		return
	}

	order, err := ctl.orders.GetOrder(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		utils.LogError("Failed to get order %s: %v", c.Param("id"), err)
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Order retrieved successfully", gin.H{
		"order": order,
	})
}

// CancelOrder cancels an order on behalf of the caller. Admin callers use the
// same handler on the admin route and get the admin cancellation rules.
func (ctl *Controller) CancelOrder(c *gin.Context) {
	utils.LogInfo("CancelOrder called")

	p, ok := principal(c)
	if !ok {
		return
	}

	var req cancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.LogError("Invalid cancel request: %v", err)
			utils.BadRequest(c, "Invalid request format", err.Error())
			return
		}
	}

	order, err := ctl.orders.CancelOrder(c.Request.Context(), p, c.Param("id"), strings.TrimSpace(req.Reason))
	if err != nil {
		utils.LogError("Failed to cancel order %s: %v", c.Param("id"), err)
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, utils.MsgOrderCancelled, gin.H{
		"order": order,
	})
}

// UpdateOrderStatus moves an order through the admin lifecycle
func (ctl *Controller) UpdateOrderStatus(c *gin.Context) {
	utils.LogInfo("UpdateOrderStatus called")

	p, ok := principal(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid status in request: %v", err)
		utils.BadRequest(c, "Status is required", nil)
		return
	}

	status := models.OrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !status.IsValid() || status == models.OrderStatusPending {
		utils.LogError("Invalid status requested: %s", req.Status)
		utils.BadRequest(c, "Invalid status", gin.H{
			"valid_statuses": adminStatuses,
		})
		return
	}
	utils.LogDebug("Requested status update of order %s to %s", c.Param("id"), status)

	order, err := ctl.orders.UpdateStatus(c.Request.Context(), p, c.Param("id"), status, strings.TrimSpace(req.Reason))
	if err != nil {
		utils.LogError("Failed to update order %s to %s: %v", c.Param("id"), status, err)
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, utils.MsgOrderStatusUpdate, gin.H{
		"order": order,
	})
}
