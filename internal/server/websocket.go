package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/jfoltran/colorserve/internal/colors"
	"github.com/jfoltran/colorserve/internal/metrics"
)

const wsWriteTimeout = 5 * time.Second

// colorsWatcher pushes the colors document to websocket clients. Each
// connection re-reads the backing file on its own ticker and only sends
// when the result differs from what that connection last received.
type colorsWatcher struct {
	source    *colors.Source
	collector *metrics.Collector
	interval  time.Duration
	logger    zerolog.Logger
}

func newColorsWatcher(source *colors.Source, collector *metrics.Collector, interval time.Duration, logger zerolog.Logger) *colorsWatcher {
	return &colorsWatcher{
		source:    source,
		collector: collector,
		interval:  interval,
		logger:    logger.With().Str("component", "ws-colors").Logger(),
	}
}

var errorFrame = mustMarshal(map[string]string{"error": MsgColorsUnavailable})

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func (cw *colorsWatcher) handleWS(w http.ResponseWriter, r *http.Request) {
	// The hijacked conn would otherwise inherit the server's read/write timeouts.
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow cross-origin for dev.
	})
	if err != nil {
		cw.logger.Err(err).Msg("ws accept")
		return
	}
	defer conn.CloseNow()

	cw.collector.ClientConnected()
	defer cw.collector.ClientDisconnected()
	cw.logger.Debug().Str("remote", r.RemoteAddr).Msg("ws client connected")

	// Clients never send data; CloseRead handles pings and cancels ctx on close.
	ctx := conn.CloseRead(r.Context())

	err = cw.watch(ctx, func(ctx context.Context, frame []byte) error {
		wctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
		defer cancel()
		return conn.Write(wctx, websocket.MessageText, frame)
	})
	if err != nil && !errors.Is(err, context.Canceled) && websocket.CloseStatus(err) == -1 {
		cw.logger.Debug().Err(err).Msg("ws client dropped")
		return
	}
	conn.Close(websocket.StatusNormalClosure, "")
}

// watch sends the first frame immediately and then one frame per change
// until ctx is done or send fails.
func (cw *colorsWatcher) watch(ctx context.Context, send func(context.Context, []byte) error) error {
	ticker := time.NewTicker(cw.interval)
	defer ticker.Stop()

	var last []byte
	for {
		frame, loadErr := cw.frame(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if last == nil || !bytes.Equal(frame, last) {
			if err := send(ctx, frame); err != nil {
				return err
			}
			last = frame
			if loadErr != nil {
				cw.collector.RecordFailure(loadErr)
				cw.logger.Warn().Err(loadErr).Msg("colors read failed")
			} else {
				cw.collector.RecordServed()
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (cw *colorsWatcher) frame(ctx context.Context) ([]byte, error) {
	doc, err := cw.source.Load(ctx)
	if err != nil {
		return errorFrame, err
	}
	return doc, nil
}
