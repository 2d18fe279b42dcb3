package processor

import (
	"bufio"
	"bytes"
	"context"
	"crypto/subtle"
	"crypto/tls"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"partnerplane/internal/command"
	"partnerplane/pkg/logging"
)

// MsgBadCredentials is the reply to a request with wrong credentials.
const MsgBadCredentials = "Bad userid/password"

// DefaultSocketTimeout bounds how long a connection may take to send its
// request and receive the reply.
const DefaultSocketTimeout = 30 * time.Second

// maxRequestSize limits a single request line.
const maxRequestSize = 64 * 1024

// SocketConfig configures the socket processor.
type SocketConfig struct {
	// Address is the listen address, e.g. "127.0.0.1:4321".
	Address string

	// UserID and Password must match the request's id and password.
	UserID   string
	Password string

	// TLS enables TLS on the listener when non-nil.
	TLS *tls.Config

	// Timeout is the per-connection deadline; zero uses DefaultSocketTimeout.
	Timeout time.Duration
}

// commandRequest is the wire form of a request:
//
//	<command id="USER" password="PW">partnership list</command>
type commandRequest struct {
	XMLName  xml.Name `xml:"command"`
	ID       string   `xml:"id,attr"`
	Password string   `xml:"password,attr"`
	Text     string   `xml:",chardata"`
}

// commandResponse is the wire form of a reply:
//
//	<result type="OK">acme-to-globex</result>
type commandResponse struct {
	XMLName xml.Name `xml:"result"`
	Type    string   `xml:"type,attr"`
	Text    string   `xml:",chardata"`
}

// Socket serves one command per connection.
type Socket struct {
	cfg      SocketConfig
	registry *command.Registry

	mu       sync.Mutex
	listener net.Listener
	conns    sync.WaitGroup
}

// NewSocket creates a socket processor. Call Listen or Run to bind.
func NewSocket(cfg SocketConfig, registry *command.Registry) *Socket {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultSocketTimeout
	}
	return &Socket{cfg: cfg, registry: registry}
}

// Name implements Runner.
func (s *Socket) Name() string {
	return "socket"
}

// Listen binds the listen address. It is called by Run when needed.
func (s *Socket) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Address, err)
	}
	if s.cfg.TLS != nil {
		ln = tls.NewListener(ln, s.cfg.TLS)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Socket) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Run accepts connections until ctx is cancelled, then waits for open
// connections to finish.
func (s *Socket) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	logging.Info(subsystemSocket, "Listening for commands on %s (tls=%t)", ln.Addr(), s.cfg.TLS != nil)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.conns.Wait()
				logging.Info(subsystemSocket, "Socket processor stopped")
				return nil
			}
			logging.Error(subsystemSocket, err, "Accept failed")
			continue
		}

		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

func (s *Socket) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	connID := uuid.New().String()
	logging.Debug(subsystemSocket, "Connection %s from %s", connID, conn.RemoteAddr())

	if err := conn.SetDeadline(time.Now().Add(s.cfg.Timeout)); err != nil {
		logging.Error(subsystemSocket, err, "Connection %s: failed to set deadline", connID)
		return
	}

	line, err := readRequest(conn)
	if err != nil {
		logging.Warn(subsystemSocket, "Connection %s: failed to read request: %v", connID, err)
		return
	}

	res := s.Handle(ctx, line)
	if err := writeResponse(conn, res); err != nil {
		logging.Warn(subsystemSocket, "Connection %s: failed to write reply: %v", connID, err)
	}
}

// Handle authenticates and executes one request line.
func (s *Socket) Handle(ctx context.Context, line string) command.Result {
	var req commandRequest
	if err := xml.Unmarshal([]byte(line), &req); err != nil {
		return command.Errorf("malformed command request: %v", err)
	}

	if !s.authorized(req.ID, req.Password) {
		logging.Warn(subsystemSocket, "Rejected command from user %q", req.ID)
		return command.Errorf(MsgBadCredentials)
	}

	text := strings.TrimSpace(req.Text)
	logging.Debug(subsystemSocket, "Executing %q for user %q", text, req.ID)
	return s.registry.ExecuteLine(ctx, text)
}

func (s *Socket) authorized(id, password string) bool {
	idOK := subtle.ConstantTimeCompare([]byte(id), []byte(s.cfg.UserID)) == 1
	pwOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password)) == 1
	return idOK && pwOK
}

// readRequest reads one line; a final line without newline is accepted.
func readRequest(r io.Reader) (string, error) {
	br := bufio.NewReaderSize(io.LimitReader(r, maxRequestSize), 4096)
	line, err := br.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func writeResponse(w io.Writer, res command.Result) error {
	data, err := xml.Marshal(commandResponse{Type: string(res.Type), Text: res.Text()})
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// EncodeRequest returns the wire form of a request.
func EncodeRequest(userID, password, line string) ([]byte, error) {
	data, err := xml.Marshal(commandRequest{ID: userID, Password: password, Text: line})
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// DecodeResponse parses a reply into a result.
func DecodeResponse(data []byte) (command.Result, error) {
	var resp commandResponse
	if err := xml.Unmarshal(bytes.TrimSpace(data), &resp); err != nil {
		return command.Result{}, fmt.Errorf("malformed reply: %w", err)
	}

	res := command.Result{Type: command.ResultType(resp.Type)}
	if resp.Text != "" {
		res.Lines = strings.Split(resp.Text, "\n")
	}
	return res, nil
}

// Send connects to a socket processor, sends one command line and returns
// the reply. tlsConfig enables TLS when non-nil.
func Send(ctx context.Context, address, userID, password, line string, tlsConfig *tls.Config) (command.Result, error) {
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	var (
		conn net.Conn
		err  error
	)
	if tlsConfig != nil {
		td := &tls.Dialer{NetDialer: dialer, Config: tlsConfig}
		conn, err = td.DialContext(ctx, "tcp", address)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", address)
	}
	if err != nil {
		return command.Result{}, fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(DefaultSocketTimeout))
	}

	req, err := EncodeRequest(userID, password, line)
	if err != nil {
		return command.Result{}, err
	}
	if _, err := conn.Write(req); err != nil {
		return command.Result{}, fmt.Errorf("failed to send command: %w", err)
	}

	reply, err := io.ReadAll(conn)
	if err != nil {
		return command.Result{}, fmt.Errorf("failed to read reply: %w", err)
	}
	return DecodeResponse(reply)
}
