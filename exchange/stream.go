package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"cryptoai/model"
	"cryptoai/utils/log"
)

// miniTickerEvent : combined-stream payload for <symbol>@miniTicker
type miniTickerEvent struct {
	Stream string `json:"stream"`
	Data   struct {
		EventType string `json:"e"`
		EventTime int64  `json:"E"`
		Symbol    string `json:"s"`
		Close     string `json:"c"`
	} `json:"data"`
}

type tickerStream struct {
	conn   *websocket.Conn
	cancel context.CancelFunc
}

func (s *tickerStream) close() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.conn != nil {
		_ = s.conn.Close()
	}
}

// TickerSubscription opens a combined miniTicker stream for pairs and pushes
// every price event into the returned channel. The connection reconnects with
// backoff until ctx is done; callers should treat the error channel as
// advisory and keep reading prices.
func (b *Binance) TickerSubscription(ctx context.Context, pairs []string) (chan model.PriceUpdate, chan error) {
	updates := make(chan model.PriceUpdate, 64)
	errs := make(chan error, 8)

	streamCtx, cancel := context.WithCancel(ctx)
	b.ws = &tickerStream{cancel: cancel}

	streams := make([]string, len(pairs))
	for i, p := range pairs {
		streams[i] = strings.ToLower(p) + "@miniTicker"
	}
	url := binanceBaseWS + "/stream?streams=" + strings.Join(streams, "/")

	go func() {
		defer close(updates)
		defer close(errs)

		backoff := time.Second
		for {
			if streamCtx.Err() != nil {
				return
			}

			conn, _, err := websocket.DefaultDialer.DialContext(streamCtx, url, nil)
			if err != nil {
				select {
				case errs <- fmt.Errorf("binance ws dial: %w", err):
				default:
				}
				log.Warnf("binance ws dial failed, retrying in %s: %v", backoff, err)
				select {
				case <-streamCtx.Done():
					return
				case <-time.After(backoff):
				}
				if backoff < 30*time.Second {
					backoff *= 2
				}
				continue
			}

			b.ws.conn = conn
			backoff = time.Second
			log.Infof("binance ws connected: %d streams", len(streams))

			if err := b.readTickerLoop(streamCtx, conn, updates); err != nil {
				select {
				case errs <- err:
				default:
				}
				log.Warnf("binance ws read: %v", err)
			}
			_ = conn.Close()
		}
	}()

	return updates, errs
}

func (b *Binance) readTickerLoop(ctx context.Context, conn *websocket.Conn, updates chan model.PriceUpdate) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("binance ws read: %w", err)
		}

		var event miniTickerEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			log.Debugf("binance ws skip frame: %v", err)
			continue
		}
		if event.Data.EventType != "24hrMiniTicker" {
			continue
		}

		price, err := strconv.ParseFloat(event.Data.Close, 64)
		if err != nil {
			log.Debugf("binance ws bad price %q: %v", event.Data.Close, err)
			continue
		}

		update := model.PriceUpdate{
			Pair:  event.Data.Symbol,
			Price: price,
			Time:  time.UnixMilli(event.Data.EventTime).UTC(),
		}
		select {
		case updates <- update:
		case <-ctx.Done():
			return nil
		}
	}
}
