package log

const (
	KeyAppName            = "app"
	KeyRequestID          = "requestId"
	KeyProcess            = "process"
	KeyTag                = "tag"
	KeyTraceID            = "traceId"
	KeySpanID             = "spanId"
	KeyRequest            = "request"
	KeyRequestBody        = "requestBody"
	KeyRequestHeader      = "requestHeader"
	KeyRequestHost        = "host"
	KeyRequestIp          = "requesterIP"
	KeyRequestMethod      = "requestMethod"
	KeyRequestURI         = "requestURI"
	KeyRequestURL         = "requestURL"
	KeyResponseStatusCode = "responseStatusCode"
	KeyConfig             = "config"
	KeyPathValues         = "pathValues"
	KeyCacheKey           = "cacheKey"
	KeyCacheKeys          = "cacheKeys"
	KeyTableID            = "tableId"
	KeyOrderID            = "orderId"
	KeyMenuItemID         = "menuItemId"
	KeyPaymentID          = "paymentId"
	KeySessionState       = "sessionState"
	KeyCartItems          = "cartItems"
	KeyCartItemsCount     = "cartItemsCount"
	KeyCartTotalAmount    = "cartTotalAmount"
	KeyQuantityDelta      = "quantityDelta"
	KeyOrder              = "order"
	KeyOrders             = "orders"
	KeyTables             = "tables"
	KeyMenuItems          = "menuItems"
	KeyPayments           = "payments"
	KeyRevenue            = "revenue"
	KeyStartDate          = "startDate"
	KeyEndDate            = "endDate"
)
