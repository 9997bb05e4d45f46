package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/ericogr/chimera-arena/internal/constants"
	"github.com/ericogr/chimera-arena/internal/logging"
)

const (
	defaultRelayTries   = 4
	defaultRelayTimeout = 10 * time.Second
)

// relayMessage is the trigger body understood by the event relay: a channel
// per battle and the event name.
type relayMessage struct {
	Channel string `json:"channel"`
	Event   Kind   `json:"event"`
	Data    any    `json:"data"`
}

// Relay posts events to an external realtime relay (Pusher-style trigger
// endpoint). Transient failures are retried with exponential backoff.
type Relay struct {
	url      string
	key      string
	client   *http.Client
	maxTries uint
	initial  time.Duration
}

type RelayOption func(*Relay)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) RelayOption { return func(r *Relay) { r.client = c } }

// WithRetry sets the attempt budget and the first backoff interval.
func WithRetry(maxTries uint, initial time.Duration) RelayOption {
	return func(r *Relay) {
		r.maxTries = maxTries
		r.initial = initial
	}
}

func NewRelay(url, key string, opts ...RelayOption) *Relay {
	r := &Relay{
		url:      url,
		key:      key,
		client:   &http.Client{Timeout: defaultRelayTimeout},
		maxTries: defaultRelayTries,
		initial:  200 * time.Millisecond,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// ChannelName is the relay channel a battle's events go to.
func ChannelName(battleID string) string { return "battle-" + battleID }

func (r *Relay) Publish(ctx context.Context, battleID string, kind Kind, payload any) error {
	body, err := json.Marshal(relayMessage{Channel: ChannelName(battleID), Event: kind, Data: payload})
	if err != nil {
		return fmt.Errorf("encode relay message: %w", err)
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = r.initial
	eb.MaxInterval = 5 * time.Second

	attempt := 0
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		return struct{}{}, r.post(ctx, body)
	},
		backoff.WithBackOff(eb),
		backoff.WithMaxTries(r.maxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			logging.Warn("relay publish retry", logging.Fields{
				constants.LogFieldBattleID: battleID,
				constants.LogFieldKind:     string(kind),
				constants.LogFieldAttempt:  attempt,
				"error":                    err.Error(),
				"next":                     next.String(),
			})
		}),
	)
	if err != nil {
		return fmt.Errorf("relay publish %s for battle %s: %w", kind, battleID, err)
	}
	return nil
}

func (r *Relay) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	if r.key != "" {
		req.Header.Set(constants.HeaderRelayKey, r.key)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	err = fmt.Errorf("relay returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return err
	}
	return backoff.Permanent(err)
}
