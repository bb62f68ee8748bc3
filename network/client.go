package network

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	cfg "github.com/automoto/doomerang-arena/config"
	"github.com/automoto/doomerang-arena/session"
	"github.com/automoto/doomerang-arena/shared/messages"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
)

var (
	ErrNotConnected = errors.New("not connected")
	ErrDisconnected = errors.New("disconnected from relay")
	ErrJoinRejected = errors.New("join rejected")
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoining
	StateJoined
	StateError
)

func (s ClientState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateJoining:
		return "joining"
	case StateJoined:
		return "joined"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

type joinResult struct {
	accepted messages.JoinAccepted
	err      error
}

// dialAttempt is closed once the transport either connects or fails.
type dialAttempt struct {
	done chan struct{}
	err  error
}

// Client manages a WebSocket connection to the relay and implements
// session.Channel. All shared fields are protected by mu (router callbacks run
// on necs goroutines).
type Client struct {
	mu sync.RWMutex

	address   string
	token     string
	state     ClientState
	lastError error
	peerID    string
	roomKind  string
	roomID    string
	conn      *websocket.Conn
	dial      *dialAttempt
	routed    bool

	joinCh       chan joinResult
	snapshotCh   chan messages.PresenceSnapshot // size-1 buffered; latest wins
	topicCh      chan messages.TopicMessage
	disconnectCh chan error
}

var _ session.Channel = (*Client)(nil)

func NewClient(address string) *Client {
	return &Client{
		address:      address,
		state:        StateDisconnected,
		joinCh:       make(chan joinResult, 1),
		snapshotCh:   make(chan messages.PresenceSnapshot, 1),
		topicCh:      make(chan messages.TopicMessage, cfg.Client.TopicBuffer),
		disconnectCh: make(chan error, 1),
	}
}

// SetToken sets the opaque identity token sent with every join request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Join connects if needed, asks the relay for membership of kind/roomID and
// waits for the answer.
func (c *Client) Join(ctx context.Context, kind, roomID string, initial []byte) (session.Room, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, fmt.Errorf("join %s/%s: %w", kind, roomID, err)
	}

	drainChan(c.joinCh)
	c.dropPending()

	c.mu.Lock()
	c.state = StateJoining
	token := c.token
	c.mu.Unlock()

	err := c.SendMessage(messages.JoinRequest{
		RoomKind: kind,
		RoomID:   roomID,
		Token:    token,
		Presence: initial,
	})
	if err != nil {
		c.setError(err)
		return nil, fmt.Errorf("send join request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Client.JoinTimeout)
	defer cancel()

	select {
	case res := <-c.joinCh:
		if res.err != nil {
			c.setError(res.err)
			return nil, res.err
		}
		c.mu.Lock()
		c.state = StateJoined
		c.peerID = res.accepted.PeerID
		c.roomKind = res.accepted.RoomKind
		c.roomID = res.accepted.RoomID
		c.mu.Unlock()
		return newRoom(c, res.accepted), nil
	case <-ctx.Done():
		c.mu.Lock()
		if c.state == StateJoining {
			c.state = StateConnected
		}
		c.mu.Unlock()
		return nil, fmt.Errorf("join %s/%s: %w", kind, roomID, ctx.Err())
	}
}

func (c *Client) ensureConnected(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateConnected, StateJoining, StateJoined:
		c.mu.Unlock()
		return nil
	case StateDisconnected, StateError:
		c.connectLocked()
	}
	attempt := c.dial
	c.mu.Unlock()

	select {
	case <-attempt.done:
		return attempt.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// connectLocked dials the relay in a background goroutine. Caller holds mu.
func (c *Client) connectLocked() {
	c.state = StateConnecting
	c.lastError = nil
	c.dial = &dialAttempt{done: make(chan struct{})}

	if !c.routed {
		c.setupRouterCallbacks()
		c.routed = true
	}

	attempt := c.dial
	address := c.address
	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.readyLocked()
			c.mu.Unlock()
		})
		if err != nil {
			err = fmt.Errorf("connection failed: %w", err)
			c.setError(err)
			c.mu.Lock()
			c.finishDialLocked(attempt, err)
			c.mu.Unlock()
		}
	}()
}

func (c *Client) setupRouterCallbacks() {
	router.OnConnect(func(_ *router.NetworkClient) {
		log.Println("[network] connected to relay")
		c.mu.Lock()
		if c.state == StateConnecting {
			c.state = StateConnected
		}
		c.readyLocked()
		c.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinAccepted) {
		log.Printf("[network] join accepted: peer=%s room=%s/%s", msg.PeerID, msg.RoomKind, msg.RoomID)
		pushJoin(c.joinCh, joinResult{accepted: msg})
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinRejected) {
		log.Printf("[network] join rejected: %s", msg.Reason)
		pushJoin(c.joinCh, joinResult{err: fmt.Errorf("%w: %s", ErrJoinRejected, msg.Reason)})
	})

	router.On(func(_ *router.NetworkClient, snapshot messages.PresenceSnapshot) {
		select { // drain stale, push latest
		case <-c.snapshotCh:
		default:
		}
		c.snapshotCh <- snapshot
	})

	router.On(func(_ *router.NetworkClient, msg messages.TopicMessage) {
		select {
		case c.topicCh <- msg:
		default:
			if cfg.Debug.Verbose {
				log.Printf("[network] topic buffer full, dropped %q from %s", msg.Topic, msg.SenderID)
			}
		}
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		log.Printf("[network] disconnected: %v", err)
		c.mu.Lock()
		wasJoining := c.state == StateJoining
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		if c.dial != nil {
			c.finishDialLocked(c.dial, ErrDisconnected)
		}
		c.mu.Unlock()

		cause := ErrDisconnected
		if err != nil {
			cause = fmt.Errorf("%w: %v", ErrDisconnected, err)
		}
		if wasJoining {
			pushJoin(c.joinCh, joinResult{err: cause})
		}
		select {
		case c.disconnectCh <- cause:
		default:
		}
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		log.Printf("[network] error: %v", err)
	})
}

// readyLocked completes the pending dial once both the connection and the
// router handshake are in place.
func (c *Client) readyLocked() {
	if c.conn == nil || c.state != StateConnected || c.dial == nil {
		return
	}
	c.finishDialLocked(c.dial, nil)
}

func (c *Client) finishDialLocked(attempt *dialAttempt, err error) {
	select {
	case <-attempt.done:
	default:
		attempt.err = err
		close(attempt.done)
	}
}

// Close drops the connection and every router callback.
func (c *Client) Close() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.routed = false
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

func (c *Client) PeerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.peerID
}

// CurrentRoom returns the kind and id of the last joined room.
func (c *Client) CurrentRoom() (kind, id string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomKind, c.roomID
}

func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}

// latestSnapshot returns the most recent presence snapshot, or nil. Non-blocking.
func (c *Client) latestSnapshot() *messages.PresenceSnapshot {
	select {
	case snap := <-c.snapshotCh:
		return &snap
	default:
		return nil
	}
}

// dropPending discards everything queued for a previous room.
func (c *Client) dropPending() {
	c.latestSnapshot()
	drainChan(c.topicCh)
	drainChan(c.disconnectCh)
}

// leave sends a leave request and returns the client to the connected state.
func (c *Client) leave() error {
	c.mu.Lock()
	if c.state == StateJoined || c.state == StateJoining {
		c.state = StateConnected
	}
	c.peerID = ""
	c.mu.Unlock()

	c.dropPending()

	if err := c.SendMessage(messages.LeaveRequest{}); err != nil && !errors.Is(err, ErrNotConnected) {
		return fmt.Errorf("send leave request: %w", err)
	}
	return nil
}

func (c *Client) drainTopics() []messages.TopicMessage { return drainChan(c.topicCh) }
func (c *Client) drainDisconnects() []error            { return drainChan(c.disconnectCh) }

func pushJoin(ch chan joinResult, res joinResult) {
	select {
	case ch <- res:
	default:
	}
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
