package coincheck

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	maxRetryCount = 5
	retryInterval = 10 * time.Millisecond
)

// errorResponse サーバーが返すエラー形式
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// shouldRetry ノンス競合だけはリトライできる。サーバーの文言と完全一致で判定する
func (r *errorResponse) shouldRetry() bool {
	return r.Error == "Nonce must be incremented"
}

// createNonce 現在時刻（エポックからのミリ秒）をノンスとして生成
func createNonce() (uint64, error) {
	ms := time.Now().UnixMilli()
	if ms < 0 {
		return 0, fmt.Errorf("failed to create nonce, clock is before unix epoch: %d", ms)
	}
	return uint64(ms), nil
}

// computeHmac256 ノンス・URL・ボディの連結に対するHMAC-SHA256署名（16進小文字）
func computeHmac256(nonce uint64, url, payload, secret string) string {
	message := strconv.FormatUint(nonce, 10) + url + payload
	key := []byte(secret)
	h := hmac.New(sha256.New, key)
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Client) getWithAuth(ctx context.Context, u *url.URL, resJSON interface{}) error {
	return c.requestWithAuth(ctx, http.MethodGet, u, nil, resJSON)
}

func (c *Client) postWithAuth(ctx context.Context, u *url.URL, reqJSON, resJSON interface{}) error {
	return c.requestWithAuth(ctx, http.MethodPost, u, reqJSON, resJSON)
}

func (c *Client) deleteWithAuth(ctx context.Context, u *url.URL, resJSON interface{}) error {
	return c.requestWithAuth(ctx, http.MethodDelete, u, nil, resJSON)
}

// requestWithAuth 認証付きリクエストを送る。
// ノンスと署名は試行ごとに作り直す（リトライは古いノンスが原因のため）。
func (c *Client) requestWithAuth(ctx context.Context, method string, u *url.URL, reqJSON, resJSON interface{}) error {
	if c.accessKey == "" || c.secretKey == "" {
		return fmt.Errorf("failed to request with auth, API credentials are not set, url: %s", u.String())
	}

	for retryCount := 0; ; retryCount++ {
		nonce, err := createNonce()
		if err != nil {
			return err
		}

		reqBody := ""
		if reqJSON != nil {
			b, err := json.Marshal(reqJSON)
			if err != nil {
				return fmt.Errorf("failed to marshal request body, url: %s; error: %w", u.String(), err)
			}
			reqBody = string(b)
		}
		signature := computeHmac256(nonce, u.String(), reqBody, c.secretKey)

		req, err := c.createRequest(ctx, method, u.String(), nonce, signature, reqBody)
		if err != nil {
			return err
		}

		res, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		body, err := io.ReadAll(res.Body)
		res.Body.Close()
		if err != nil {
			return err
		}

		serverErr, err := decodeBody(body, resJSON)
		if err != nil {
			return err
		}
		if serverErr == nil {
			return nil
		}

		if serverErr.shouldRetry() && retryCount < maxRetryCount {
			c.logger.Warn("response is error, retry request retry_count:%d <= max:%d, error:%s", retryCount+1, maxRetryCount, serverErr.Error)
			select {
			case <-time.After(retryInterval):
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		return &ResponseError{Message: serverErr.Error, URL: u.String(), Request: reqBody}
	}
}

func (c *Client) createRequest(ctx context.Context, method, url string, nonce uint64, signature, body string) (req *http.Request, err error) {
	var r io.Reader
	if method == http.MethodPost {
		r = strings.NewReader(body)
	}
	if req, err = http.NewRequestWithContext(ctx, method, url, r); err != nil {
		return
	}

	req.Header.Set("ACCESS-KEY", c.accessKey)
	req.Header.Set("ACCESS-NONCE", strconv.FormatUint(nonce, 10))
	req.Header.Set("ACCESS-SIGNATURE", signature)
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}
	return
}

// decodeBody 成功スキーマ→エラースキーマの順で厳密にデコードする。
// 両方を満たすボディは成功として扱う。どちらでもなければParseError。
func decodeBody(body []byte, resJSON interface{}) (*errorResponse, error) {
	if err := decodeStrict(body, resJSON); err == nil {
		return nil, nil
	}

	var res errorResponse
	if err := decodeStrict(body, &res); err == nil {
		return &res, nil
	}

	return nil, &ParseError{Body: string(body)}
}

// decodeStrict 未知のフィールドや後続データを許さないデコード
func decodeStrict(body []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after JSON value")
	}
	return nil
}
