// Package xrpl reads the active fee schedule from an XRP Ledger server over its
// WebSocket API.
//
// https://xrpl.org/docs/references/http-websocket-apis/public-api-methods/server-info-methods/server_info
package xrpl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/liamzebedee/feevote-go/core"
	"github.com/liamzebedee/feevote-go/core/feevote"
)

var ErrNoValidatedLedger = errors.New("server has no validated ledger")

type Config struct {
	// WebSocket URL of a rippled or clio server.
	URL     string
	Timeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		URL:     "wss://xrpl.ws",
		Timeout: 15 * time.Second,
	}
}

var _ feevote.LedgerSource = (*Client)(nil)

type Client struct {
	config Config
	dialer *websocket.Dialer
	log    *log.Logger
	nextID atomic.Uint64
}

func NewClient(config Config) *Client {
	return &Client{
		config: config,
		dialer: &websocket.Dialer{
			HandshakeTimeout: config.Timeout,
		},
		log: core.NewLogger("ledger", ""),
	}
}

type request struct {
	ID      uint64 `json:"id"`
	Command string `json:"command"`
}

type response struct {
	ID           uint64          `json:"id"`
	Type         string          `json:"type"`
	Status       string          `json:"status"`
	Result       json.RawMessage `json:"result"`
	Error        string          `json:"error"`
	ErrorMessage string          `json:"error_message"`
}

// ValidatedLedger is the validated_ledger object of server_info. Fee fields are XRP decimals.
type ValidatedLedger struct {
	Age            uint64      `json:"age"`
	BaseFeeXRP     json.Number `json:"base_fee_xrp"`
	Hash           string      `json:"hash"`
	ReserveBaseXRP json.Number `json:"reserve_base_xrp"`
	ReserveIncXRP  json.Number `json:"reserve_inc_xrp"`
	Seq            uint64      `json:"seq"`
}

type ServerInfo struct {
	Info struct {
		BuildVersion    string           `json:"build_version"`
		ServerState     string           `json:"server_state"`
		ValidatedLedger *ValidatedLedger `json:"validated_ledger"`
	} `json:"info"`
}

// Request sends one command and decodes the result of the matching response.
func (c *Client) Request(ctx context.Context, command string, result any) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	conn, _, err := c.dialer.DialContext(ctx, c.config.URL, nil)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", c.config.URL, err)
	}
	defer conn.Close()

	// Unblock reads if the context ends first.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(deadline)
		conn.SetWriteDeadline(deadline)
	}

	id := c.nextID.Add(1)
	if err := conn.WriteJSON(request{ID: id, Command: command}); err != nil {
		return fmt.Errorf("sending %s: %w", command, err)
	}

	for {
		var res response
		if err := conn.ReadJSON(&res); err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("reading %s response: %w", command, ctx.Err())
			}
			return fmt.Errorf("reading %s response: %w", command, err)
		}
		// Skip stream messages that are not the answer to our request.
		if res.ID != id || (res.Type != "" && res.Type != "response") {
			continue
		}

		if res.Status != "success" {
			return fmt.Errorf("%s failed: %s: %s", command, res.Error, res.ErrorMessage)
		}
		if err := json.Unmarshal(res.Result, result); err != nil {
			return fmt.Errorf("decoding %s result: %w", command, err)
		}
		break
	}

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return nil
}

func (c *Client) ServerInfo(ctx context.Context) (*ServerInfo, error) {
	var info ServerInfo
	if err := c.Request(ctx, "server_info", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// FetchLiveParameters implements feevote.LedgerSource using the latest validated ledger.
func (c *Client) FetchLiveParameters(ctx context.Context) (feevote.LiveParameterSet, error) {
	info, err := c.ServerInfo(ctx)
	if err != nil {
		return feevote.LiveParameterSet{}, err
	}

	vl := info.Info.ValidatedLedger
	if vl == nil {
		return feevote.LiveParameterSet{}, ErrNoValidatedLedger
	}

	raw := feevote.ParamSet[json.Number]{
		BaseFee:          vl.BaseFeeXRP,
		ReserveBase:      vl.ReserveBaseXRP,
		ReserveIncrement: vl.ReserveIncXRP,
	}
	live := feevote.LiveParameterSet{
		LedgerIndex: vl.Seq,
		FetchedAt:   time.Now().UTC(),
	}
	for _, p := range feevote.Parameters {
		drops, err := core.XRPToDrops(raw.Get(p).String())
		if err != nil {
			return feevote.LiveParameterSet{}, fmt.Errorf("ledger %d %s: %w", vl.Seq, p, err)
		}
		live.Values.Set(p, feevote.Drops(drops))
	}

	c.log.Printf("ledger=%d base_fee=%d reserve_base=%d reserve_inc=%d (drops)\n",
		live.LedgerIndex, live.Values.BaseFee, live.Values.ReserveBase, live.Values.ReserveIncrement)
	return live, nil
}
