package dto

// ErrorResponse 错误响应体，成功响应不做包装
type ErrorResponse struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}
