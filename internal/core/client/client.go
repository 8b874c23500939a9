package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dcrodman/mirlauncher/internal/packets"
)

const (
	readBufferSize   = 4096
	firstSequenceNum = 1
	lastSequenceNum  = 9
)

var (
	ErrNotConnected   = errors.New("client: not connected to login server")
	ErrConnectAborted = errors.New("client: connect aborted by Disconnect")
)

// Session is a connection to the login server. It frames outgoing messages,
// answers the server's keep-alive signal and turns incoming frames into
// Events. A Session may be connected and disconnected any number of times.
type Session struct {
	// Identifies the session in log output.
	ID     string
	Logger *logrus.Logger
	// Log every frame sent and received at debug level.
	PacketLogging bool
	// Upper bound on establishing a connection. Zero means no limit beyond
	// the context passed to Connect.
	DialTimeout time.Duration

	// Replaces net.Dialer when set.
	dial func(ctx context.Context, address string) (net.Conn, error)

	connectMu sync.Mutex
	sendMu    sync.Mutex

	// Guards everything below.
	mu         sync.Mutex
	conn       net.Conn
	cancel     context.CancelFunc
	cancelDial context.CancelFunc
	generation uint64
	state      State
	sequence   byte
	frames     FrameBuffer
	// Events not yet handed to the dispatcher.
	queue []Event

	notify    chan struct{}
	events    chan Event
	closed    chan struct{}
	closeOnce sync.Once
}

// NewSession returns a disconnected Session. Close must be called to release
// the goroutine delivering its events.
func NewSession(logger *logrus.Logger) *Session {
	s := &Session{
		ID:       uuid.New().String(),
		Logger:   logger,
		sequence: firstSequenceNum,
		notify:   make(chan struct{}, 1),
		events:   make(chan Event),
		closed:   make(chan struct{}),
	}
	go s.dispatch()
	return s
}

// Events returns the channel on which connection changes and received
// messages are delivered, in the order they happened.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Done is closed once Close has been called.
func (s *Session) Done() <-chan struct{} {
	return s.closed
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) IsConnected() bool {
	return s.State() == StateConnected
}

// Generation identifies the current connection, or the last one if the
// session is disconnected. It increases with every successful Connect.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Connect tears down any existing connection and connects to address. Only
// one connection attempt runs at a time.
func (s *Session) Connect(ctx context.Context, address string) error {
	s.connectMu.Lock()
	defer s.connectMu.Unlock()

	s.Disconnect()

	if s.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.DialTimeout)
		defer cancel()
	}
	ctx, cancelDial := context.WithCancel(ctx)
	defer cancelDial()

	s.mu.Lock()
	s.state = StateConnecting
	s.cancelDial = cancelDial
	s.mu.Unlock()

	conn, err := s.dialContext(ctx, address)

	s.mu.Lock()
	// Disconnect clears cancelDial when it interrupts the attempt.
	aborted := s.cancelDial == nil
	s.cancelDial = nil
	if err != nil || aborted {
		s.state = StateDisconnected
		s.mu.Unlock()
		if err == nil {
			_ = conn.Close()
			return ErrConnectAborted
		}
		if aborted {
			return fmt.Errorf("%w: %v", ErrConnectAborted, err)
		}
		return fmt.Errorf("error connecting to %s: %w", address, err)
	}

	readCtx, cancel := context.WithCancel(context.Background())
	s.generation++
	generation := s.generation
	s.conn = conn
	s.cancel = cancel
	s.sequence = firstSequenceNum
	s.frames.Reset()
	s.state = StateConnected
	s.enqueue(Event{Type: EventConnected})
	s.mu.Unlock()

	s.log().Infof("connected to %s", address)
	go s.readLoop(readCtx, conn, generation)
	return nil
}

func (s *Session) dialContext(ctx context.Context, address string) (net.Conn, error) {
	if s.dial != nil {
		return s.dial(ctx, address)
	}
	var dialer net.Dialer
	return dialer.DialContext(ctx, "tcp", address)
}

// Disconnect closes the current connection, if any, or abandons a Connect
// that is still dialing. It never blocks on event delivery, so it is safe to
// call from any goroutine, including one consuming Events, and more than once.
func (s *Session) Disconnect() {
	s.mu.Lock()
	if s.cancelDial != nil {
		s.cancelDial()
		s.cancelDial = nil
	}
	s.mu.Unlock()

	if s.teardown(0, nil) {
		s.log().Info("disconnected")
	}
}

// Close stops event delivery and disconnects.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
	s.Disconnect()
}

// SendFramed wraps payload in a frame carrying the next sequence digit and
// writes it to the server.
func (s *Session) SendFramed(ctx context.Context, payload string) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	s.mu.Lock()
	conn := s.conn
	sequence := s.sequence
	if conn != nil {
		s.sequence++
		if s.sequence > lastSequenceNum {
			s.sequence = firstSequenceNum
		}
	}
	s.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	frame := make([]byte, 0, len(payload)+3)
	frame = append(frame, frameStart, '0'+sequence)
	frame = append(frame, payload...)
	frame = append(frame, frameEnd)

	if s.PacketLogging {
		s.log().Debugf("send %s", frame)
	}
	return s.write(ctx, conn, frame)
}

// SendKeepAliveAck answers the server's keep-alive signal.
func (s *Session) SendKeepAliveAck(ctx context.Context) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	return s.write(ctx, conn, []byte{keepAlive})
}

// write sends b as a single write. Callers hold sendMu.
func (s *Session) write(ctx context.Context, conn net.Conn, b []byte) error {
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
		defer func() { _ = conn.SetWriteDeadline(time.Time{}) }()
	}
	if _, err := conn.Write(b); err != nil {
		return fmt.Errorf("error writing to login server: %w", err)
	}
	return nil
}

func (s *Session) readLoop(ctx context.Context, conn net.Conn, generation uint64) {
	defer s.recoverReadLoop(generation)

	buffer := make([]byte, readBufferSize)
	for {
		n, err := conn.Read(buffer)
		if n > 0 {
			s.handleChunk(ctx, conn, generation, buffer[:n])
		}

		if err != nil {
			if ctx.Err() != nil {
				// Torn down locally; whoever did it reports the disconnect.
				return
			}
			var failure error
			if !errors.Is(err, io.EOF) {
				failure = err
			}
			if s.teardown(generation, failure) {
				if failure != nil {
					s.log().Warnf("error reading from login server: %s", err)
				} else {
					s.log().Info("connection closed by login server")
				}
			}
			return
		}
	}
}

// recoverReadLoop keeps a panic while handling server data from taking the
// whole launcher down and treats it like a transport failure.
func (s *Session) recoverReadLoop(generation uint64) {
	if err := recover(); err != nil {
		s.log().Errorf("error in login server communication: error=%s, trace: %s", err, debug.Stack())
		s.teardown(generation, fmt.Errorf("%v", err))
	}
}

func (s *Session) handleChunk(ctx context.Context, conn net.Conn, generation uint64, chunk []byte) {
	chunk, hadKeepAlive := StripKeepAlive(chunk)
	if hadKeepAlive {
		s.sendMu.Lock()
		err := s.write(ctx, conn, []byte{keepAlive})
		s.sendMu.Unlock()
		if err != nil {
			s.log().Warnf("failed to acknowledge keep-alive: %s", err)
		}
	}

	s.mu.Lock()
	if generation != s.generation || s.conn == nil {
		s.mu.Unlock()
		return
	}
	s.frames.Write(chunk)
	for {
		frame, ok := s.frames.Next()
		if !ok {
			break
		}
		if e, ok := s.decodeFrame(frame); ok {
			s.enqueue(e)
		}
	}
	s.mu.Unlock()
}

func (s *Session) decodeFrame(frame string) (Event, bool) {
	if s.PacketLogging {
		s.log().Debugf("recv #%s!", frame)
	}

	// '+' frames are the server's answers to in-game actions, which the
	// launcher never sends.
	if frame == "" || frame[0] == '+' || len(frame) < packets.DefBlockSize {
		return Event{}, false
	}

	msg, err := packets.DecodeMessage(frame[:packets.DefBlockSize])
	if err != nil {
		s.log().Warnf("dropping frame with undecodable header: %s", err)
		return Event{}, false
	}
	return Event{
		Type:    EventPacket,
		Message: msg,
		Body:    frame[packets.DefBlockSize:],
	}, true
}

// teardown closes the connection belonging to generation, or whichever
// connection is current when generation is 0, and queues EventError (when
// failure is set) followed by EventDisconnected. It reports whether there was
// a connection to close.
func (s *Session) teardown(generation uint64, failure error) bool {
	s.mu.Lock()
	if s.conn == nil || (generation != 0 && generation != s.generation) {
		s.mu.Unlock()
		return false
	}
	conn, cancel := s.conn, s.cancel
	s.conn = nil
	s.cancel = nil
	s.frames.Reset()
	s.sequence = firstSequenceNum
	s.state = StateDisconnected
	if failure != nil {
		s.enqueue(Event{Type: EventError, Err: failure})
	}
	s.enqueue(Event{Type: EventDisconnected})
	s.mu.Unlock()

	cancel()
	if err := conn.Close(); err != nil {
		s.log().Debugf("error closing connection: %s", err)
	}
	return true
}

// enqueue stamps e with the current generation and queues it for delivery.
// Callers hold mu.
func (s *Session) enqueue(e Event) {
	select {
	case <-s.closed:
		return
	default:
	}
	e.Generation = s.generation
	s.queue = append(s.queue, e)
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// dispatch feeds queued events to the events channel in order until Close.
func (s *Session) dispatch() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.notify:
				continue
			case <-s.closed:
				return
			}
		}
		e := s.queue[0]
		s.queue[0] = Event{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.events <- e:
		case <-s.closed:
			return
		}
	}
}

func (s *Session) log() *logrus.Entry {
	return s.Logger.WithField("session", s.ID)
}
