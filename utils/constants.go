package utils

// Application constants
const (
	// Application name
	AppName = "ShopSphere"

	// API version
	APIVersion = "v1"

	// Default port
	DefaultPort = "8080"

	// Default database host
	DefaultDBHost = "localhost"

	// Default database port
	DefaultDBPort = "5432"

	// Default database name
	DefaultDBName = "shopsphere"

	// Default database user
	DefaultDBUser = "postgres"

	// Default database password
	DefaultDBPassword = "postgres"

	// Currency used for gateway intents
	Currency = "INR"
)

// Error messages
const (
	ErrUnauthorized       = "Unauthorized access"
	ErrForbidden          = "Access forbidden"
	ErrInvalidRequest     = "Invalid request"
	ErrRecordNotFound     = "Record not found"
	ErrInternalServer     = "Internal server error"
	ErrServiceUnavailable = "Service unavailable"
)

// Success messages
const (
	MsgQuoteReady        = "Order quote calculated"
	MsgCouponApplied     = "Coupon applied successfully"
	MsgOrderPlaced       = "Order placed successfully"
	MsgPaymentInitiated  = "Payment initiated successfully"
	MsgPaymentVerified   = "Thank you for your payment! Your order has been placed."
	MsgOrderCancelled    = "Order cancelled"
	MsgOrderStatusUpdate = "Order status updated successfully"
	MsgUpdateSuccess     = "Updated successfully"
	MsgCreateSuccess     = "Created successfully"
)
