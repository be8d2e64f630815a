package response

// Business status codes, grouped by domain.
const (
	CodeSuccess = 0
	CodeError   = 1

	// customer 100xx
	ErrCustomerExists   = 10001
	ErrCustomerNotFound = 10002
	ErrAuthFailed       = 10003
	ErrTokenInvalid     = 10004
	ErrNoPermission     = 10005

	// coupon 200xx
	ErrCouponNotFound     = 20001
	ErrCouponInactive     = 20002
	ErrCouponNotStarted   = 20003
	ErrCouponExpired      = 20004
	ErrCouponUsageLimit   = 20005
	ErrCouponMinCartValue = 20006

	// catalog 300xx
	ErrProductNotFound  = 30001
	ErrCategoryNotFound = 30002
	ErrOutOfStock       = 30003

	// order 400xx
	ErrOrderNotFound     = 40001
	ErrEmptyCart         = 40002
	ErrInvalidTransition = 40003

	// payment 600xx
	ErrGatewayNotConfigured = 60001
	ErrGatewayUpstream      = 60002
	ErrUnknownProvider      = 60003

	// bling 700xx
	ErrBlingNotConnected = 70001
	ErrBlingUpstream     = 70002

	// system 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
