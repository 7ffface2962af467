package http

const (
	KEY_HEADER_CONTENT_TYPE       = "Content-Type"
	KEY_HEADER_REQUEST_ID         = "X-Request-Id"
	VALUE_HEADER_APPLICATION_JSON = "application/json"
	VALUE_HEADER_TEXT_PLAIN_UTF8  = "text/plain; charset=utf-8"
	STATUS_SUCCESS                = "success"
	STATUS_FAILED                 = "failed"
)
