package enum

// ── Order lifecycle (stored as text; legacy rows carry ad hoc casing,
// so comparisons go through internal/status, never raw equality) ──

const (
	OrderStatusPending           = "Pending"
	OrderStatusCooking           = "Cooking"
	OrderStatusServed            = "Served"
	OrderStatusWaitingForPayment = "WaitingForPayment"
	OrderStatusPaid              = "Paid"
	OrderStatusCompleted         = "Completed"
	OrderStatusCancelled         = "Cancelled"
)

// Order items mirror a subset of the order lifecycle.
const (
	ItemStatusPending   = "Pending"
	ItemStatusCooking   = "Cooking"
	ItemStatusServed    = "Served"
	ItemStatusCancelled = "Cancelled"
)

// ── Channels ──

const (
	OrderTypeDineIn   = "DineIn"
	OrderTypeTakeAway = "TakeAway"
	OrderTypeDelivery = "Delivery"
)

// ── Configurable labels (no DB constraint) ──

const (
	DiscountTypeFixed      = "Fixed"
	DiscountTypePercentage = "Percentage"
)

const (
	PaymentMethodCash      = "Cash"
	PaymentMethodPromptPay = "PromptPay"
	PaymentMethodTransfer  = "Transfer"
)

const (
	UserRoleOwner   = "Owner"
	UserRoleManager = "Manager"
	UserRoleCashier = "Cashier"
	UserRoleKitchen = "Kitchen"
)
