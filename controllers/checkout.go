package controllers

import (
	"github.com/Govind-619/ShopSphere/services"
	"github.com/Govind-619/ShopSphere/utils"
	"github.com/gin-gonic/gin"
)

// Quote prices a cart without persisting anything
func (ctl *Controller) Quote(c *gin.Context) {
	utils.LogInfo("Quote called")

	p, ok := principal(c)
	if !ok {
		return
	}
	in, ok := bindCheckout(c, p)
	if !ok {
		return
	}

	calc, err := ctl.orders.Quote(c.Request.Context(), p, in)
	if err != nil {
		utils.LogError("Quote failed for user %s: %v", p.UserID, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogDebug("Quote for user %s: total %.2f", p.UserID, calc.TotalAmount)
	utils.Success(c, utils.MsgQuoteReady, gin.H{
		"summary": calc,
	})
}

// ApplyCoupon previews a cart with a coupon. A use is only counted when an order is placed.
func (ctl *Controller) ApplyCoupon(c *gin.Context) {
	utils.LogInfo("ApplyCoupon called")

	p, ok := principal(c)
	if !ok {
		return
	}
	in, ok := bindCheckout(c, p)
	if !ok {
		return
	}
	if in.CouponCode == "" {
		utils.LogError("Coupon code missing")
		utils.BadRequest(c, "Coupon code is required", nil)
		return
	}

	calc, err := ctl.orders.Quote(c.Request.Context(), p, in)
	if err != nil {
		utils.LogError("Failed to apply coupon %s for user %s: %v", in.CouponCode, p.UserID, err)
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, utils.MsgCouponApplied, gin.H{
		"summary": calc,
		"coupon":  calc.Coupon,
	})
}

// PlaceCODOrder creates a cash-on-delivery order
func (ctl *Controller) PlaceCODOrder(c *gin.Context) {
	utils.LogInfo("PlaceCODOrder called")

	p, ok := principal(c)
	if !ok {
		return
	}
	in, ok := bindCheckout(c, p)
	if !ok {
		return
	}

	order, err := ctl.orders.PlaceCODOrder(c.Request.Context(), p, in)
	if err != nil {
		utils.LogError("COD order failed for user %s: %v", p.UserID, err)
		utils.RespondError(c, err)
		return
	}

	utils.Created(c, utils.MsgOrderPlaced, gin.H{
		"order": order,
	})
}

type initiatePaymentRequest struct {
	services.CheckoutInput
	PersistPlaceholder bool `json:"persist_placeholder"`
}

// InitiatePayment creates a gateway intent for an online checkout
func (ctl *Controller) InitiatePayment(c *gin.Context) {
	utils.LogInfo("InitiatePayment called")

	p, ok := principal(c)
	if !ok {
		return
	}

	var req initiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid payment request: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}
	req.UserID = p.UserID

	res, err := ctl.orders.InitiateOnlinePayment(c.Request.Context(), p, req.CheckoutInput, req.PersistPlaceholder)
	if err != nil {
		utils.LogError("Payment initiation failed for user %s: %v", p.UserID, err)
		utils.RespondError(c, err)
		return
	}

	data := gin.H{
		"gateway_order_id": res.Intent.ID,
		"amount":           res.Intent.Amount,
		"currency":         res.Intent.Currency,
		"receipt":          res.Intent.Receipt,
		"summary":          res.Calculation,
	}
	if res.Order != nil {
		data["order"] = res.Order
	}
	utils.Success(c, utils.MsgPaymentInitiated, data)
}

// VerifyPayment confirms an online payment from the client callback
func (ctl *Controller) VerifyPayment(c *gin.Context) {
	utils.LogInfo("VerifyPayment called")

	p, ok := principal(c)
	if !ok {
		return
	}

	var req services.ConfirmInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid verification request: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}
	if req.Checkout != nil {
		req.Checkout.UserID = p.UserID
	}

	order, err := ctl.orders.ConfirmOnlinePayment(c.Request.Context(), p, req)
	if err != nil {
		utils.LogError("Payment verification failed for gateway order %s: %v", req.GatewayOrderID, err)
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, utils.MsgPaymentVerified, gin.H{
		"order": order,
	})
}

type webhookRequest struct {
	GatewayOrderID   string `json:"razorpay_order_id" binding:"required"`
	GatewayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature        string `json:"razorpay_signature" binding:"required"`
}

// PaymentWebhook reconciles a placeholder order from the gateway callback
func (ctl *Controller) PaymentWebhook(c *gin.Context) {
	utils.LogInfo("PaymentWebhook called")

	var req webhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid webhook payload: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	order, err := ctl.orders.ReconcileWebhook(c.Request.Context(), req.GatewayOrderID, req.GatewayPaymentID, req.Signature)
	if err != nil {
		utils.LogError("Webhook reconciliation failed for gateway order %s: %v", req.GatewayOrderID, err)
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Payment reconciled", gin.H{
		"order_id": order.ID,
		"status":   order.Status,
		"payment":  order.Payment.Status,
	})
}
