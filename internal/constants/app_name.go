package constants

const (
	APP_NAME          = "lairai"
	APP_GATEWAY       = "lairai-gateway"
	APP_CLI           = "lairai-cli"
	APP_DEFAULT_ENV   = "development"
	DEFAULT_LOG_PATH  = "/var/log/lairai.log"
	DEFAULT_BASE_URL  = "http://localhost:3000/api/v1"
	DEFAULT_TIME_ZONE = "Asia/Ho_Chi_Minh"
)
