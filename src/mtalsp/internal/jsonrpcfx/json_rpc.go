// Package jsonrpcfx serves LSP JSON-RPC connections over TCP and hands each connection to a Router.
package jsonrpcfx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/uber/mta-lsp/src/mtalsp/internal/serverinfofile"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_configKeyAddress = "jsonrpc.address"
	_outputKey        = "lsp-address"
)

// Module is an fx module to handle JSON-RPC requests.
var Module = fx.Provide(New)

// JSONRPCModule accepts JSON-RPC connections and routes their requests.
type JSONRPCModule interface {
	OnStart(ctx context.Context) error
	OnStop(ctx context.Context) error
	ServeStream(ctx context.Context, conn jsonrpc2.Conn) error
	RegisterConnectionManager(connectionManager ConnectionManager) error
}

// Router handles the requests of a single connection.
type Router interface {
	HandleReq(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error
	UUID() uuid.UUID
}

// ConnectionManager creates a Router for each new connection and cleans up after it closes.
type ConnectionManager interface {
	NewConnection(ctx context.Context, conn *jsonrpc2.Conn) (router Router, err error)
	RemoveConnection(ctx context.Context, id uuid.UUID)
}

type module struct {
	Address string `json:"address"`

	connectionMgr  ConnectionManager
	logger         *zap.SugaredLogger
	serverInfoFile serverinfofile.ServerInfoFile

	mu      sync.Mutex
	ln      net.Listener
	serving sync.WaitGroup
}

// Params define values to be used by the JSON-RPC module.
type Params struct {
	fx.In

	Config         config.Provider
	Lifecycle      fx.Lifecycle
	Logger         *zap.SugaredLogger
	ServerInfoFile serverinfofile.ServerInfoFile
}

// New creates a server that accepts JSON-RPC connections on the configured address once the application starts.
func New(p Params) (JSONRPCModule, error) {
	if p.Lifecycle == nil || p.Config == nil {
		return nil, errors.New("required parameters are missing")
	}

	m := &module{
		logger:         p.Logger,
		serverInfoFile: p.ServerInfoFile,
	}

	if err := m.processConfig(p.Config); err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: m.OnStart,
		OnStop:  m.OnStop,
	})

	return m, nil
}

// OnStart binds the listener, records its address and begins serving connections.
func (m *module) OnStart(ctx context.Context) error {
	if err := m.setup(); err != nil {
		return err
	}

	if err := m.serverInfoFile.UpdateField(_outputKey, m.listenAddr()); err != nil {
		m.closeListener()
		return err
	}

	m.serving.Add(1)
	go m.start()
	return nil
}

// OnStop closes the listener and waits for the accept loop to return.
func (m *module) OnStop(ctx context.Context) error {
	err := m.closeListener()
	m.serving.Wait()
	return err
}

// ServeStream handles one connection until it closes.
func (m *module) ServeStream(ctx context.Context, conn jsonrpc2.Conn) error {
	if m.connectionMgr == nil {
		m.logger.Errorf("cannot serve connection, no connection manager set")
		return errors.New("cannot serve connection, no connection manager set")
	}

	handler, err := m.connectionMgr.NewConnection(ctx, &conn)
	if err != nil {
		return err
	}
	m.logger.Infow("client connected", zap.Stringer("uuid", handler.UUID()))
	conn.Go(ctx, handler.HandleReq)

	<-conn.Done()

	m.connectionMgr.RemoveConnection(ctx, handler.UUID())
	m.logger.Infow("client disconnected", zap.Stringer("uuid", handler.UUID()))

	return conn.Err()
}

// RegisterConnectionManager sets the connection manager. Only one can be registered.
func (m *module) RegisterConnectionManager(connectionMgr ConnectionManager) error {
	if m.connectionMgr != nil {
		return errors.New("cannot register a duplicate connection manager")
	}
	m.connectionMgr = connectionMgr
	return nil
}

func (m *module) setup() error {
	if m.Address == "" {
		return errors.New("setup called before address is set")
	}

	ln, err := net.Listen("tcp", m.Address)
	if err != nil {
		return fmt.Errorf("listening on %q: %w", m.Address, err)
	}

	m.mu.Lock()
	m.ln = ln
	m.mu.Unlock()
	return nil
}

func (m *module) start() {
	defer m.serving.Done()

	m.mu.Lock()
	ln := m.ln
	m.mu.Unlock()

	m.logger.Infow("started JSON-RPC inbound", zap.String("address", ln.Addr().String()))
	if err := jsonrpc2.Serve(context.Background(), ln, m, 0); err != nil && !errors.Is(err, net.ErrClosed) {
		m.logger.Errorf("serving JSON-RPC: %v", err)
	}
}

func (m *module) listenAddr() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ln == nil {
		return m.Address
	}
	return m.ln.Addr().String()
}

func (m *module) closeListener() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ln == nil {
		return nil
	}
	err := m.ln.Close()
	m.ln = nil
	return err
}

func (m *module) processConfig(cfg config.Provider) error {
	if err := cfg.Get(_configKeyAddress).Populate(&m.Address); err != nil {
		return fmt.Errorf("getting config field %q: %w", _configKeyAddress, err)
	}

	if m.Address == "" {
		return fmt.Errorf("missing field %q in config", _configKeyAddress)
	}
	return nil
}
