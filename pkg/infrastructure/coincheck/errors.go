package coincheck

import "fmt"

// ResponseError サーバーがエラーを返した（success: false）
type ResponseError struct {
	Message string
	URL     string
	Request string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("response is error, url: %s, request: %s, message: %s;", e.URL, e.Request, e.Message)
}

// ParseError レスポンスがどのスキーマとしても解釈できなかった
type ParseError struct {
	Body string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse response body, body: %s;", e.Body)
}
