package coincheck

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"

	"coincheck-bot/pkg/domain/model"
)

// subscribeRequest 購読リクエスト
type subscribeRequest struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
}

// SubscribeTradeHistory 取引履歴の購読。handlerがエラーを返すかctxが終わるまでブロックする
func (c *Client) SubscribeTradeHistory(ctx context.Context, pair *model.CurrencyPair, handler func(h *model.TradeHistory) error) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.wsOrigin, nil)
	if err != nil {
		return fmt.Errorf("failed to dial websocket, url: %s; error: %w", c.wsOrigin, err)
	}
	defer conn.Close()

	req := subscribeRequest{
		Type:    "subscribe",
		Channel: fmt.Sprintf("%s-trades", pair.String()),
	}
	if err := conn.WriteJSON(req); err != nil {
		return fmt.Errorf("failed to subscribe trade history, channel: %s; error: %w", req.Channel, err)
	}

	// ReadMessageはctxを見ないため、ctx終了時は接続を閉じて読み取りを解除する
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		h, err := NewTradeHistory(message)
		if err != nil {
			c.logger.Debug("skipped trade message, %v", err)
			continue
		}
		if err := handler(h); err != nil {
			return err
		}
	}
}
