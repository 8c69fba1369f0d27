// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/bradwindy/app-intents-mcp/lib/catalog"
	"github.com/bradwindy/app-intents-mcp/lib/execution"
	"github.com/bradwindy/app-intents-mcp/lib/framing"
	"github.com/bradwindy/app-intents-mcp/lib/jsonrpc"
	"github.com/bradwindy/app-intents-mcp/lib/value"
	"github.com/bradwindy/app-intents-mcp/lib/version"
)

// Catalog is the view of the action catalog the server needs.
// *catalog.Catalog implements it.
type Catalog interface {
	Refresh(ctx context.Context, force bool) ([]catalog.Action, error)
	Get(id string) (catalog.Action, bool)
	Actions() []catalog.Action
	Search(query string) []catalog.Action
	ForOwner(bundleID string) []catalog.Action
	ListOwners() []catalog.OwnerCount
	Stats() catalog.Stats
}

// Executor runs an action. *execution.Coordinator implements it.
type Executor interface {
	Execute(ctx context.Context, id string, arguments value.Value) execution.Outcome
}

// Server is an MCP server over the App Intents catalog.
type Server struct {
	catalog  Catalog
	executor Executor
	logger   *slog.Logger
	session  string

	// initialized records the client's lifecycle acknowledgement. It is
	// informational: no method is gated on it.
	initialized atomic.Bool

	handlers map[string]handler
	tools    map[string]*tool
}

// handler serves one JSON-RPC method. Exactly one of the results is
// non-nil.
type handler func(ctx context.Context, params value.Value) (any, *jsonrpc.ErrorInfo)

// ServerOption configures optional server behavior.
type ServerOption func(*Server)

// WithLogger sets the logger. The server adds a session attribute.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = logger }
}

// WithSessionID overrides the generated session correlation id.
func WithSessionID(id string) ServerOption {
	return func(s *Server) { s.session = id }
}

// NewServer returns a server answering from actions and running
// intents through executor.
func NewServer(actions Catalog, executor Executor, options ...ServerOption) *Server {
	s := &Server{
		catalog:  actions,
		executor: executor,
		logger:   slog.New(slog.DiscardHandler),
		session:  uuid.NewString(),
	}
	for _, option := range options {
		option(s)
	}
	s.logger = s.logger.With("session", s.session)

	s.handlers = map[string]handler{
		"initialize":     s.handleInitialize,
		"initialized":    s.handleInitialized,
		"ping":           s.handlePing,
		"tools/list":     s.handleToolsList,
		"tools/call":     s.handleToolsCall,
		"resources/list": s.handleResourcesList,
		"resources/read": s.handleResourcesRead,
		"prompts/list":   s.handlePromptsList,
		"prompts/get":    s.handlePromptsGet,
	}
	s.tools = s.buildTools()
	return s
}

// Session returns the session correlation id attached to every log
// record.
func (s *Server) Session() string { return s.session }

// Initialized reports whether the client has acknowledged
// initialization.
func (s *Server) Initialized() bool { return s.initialized.Load() }

// Run serves requests from framer until the input ends. A clean end of
// input, or a stream that ends inside a message, returns nil. Messages
// that cannot be framed are logged and skipped. A read error from the
// underlying stream or a failed write ends the loop with an error.
func (s *Server) Run(ctx context.Context, framer framing.Framer) error {
	s.logger.Info("server started")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		body, err := framer.ReadMessage()
		switch {
		case err == nil:
		case errors.Is(err, framing.ErrEndOfInput):
			s.logger.Info("client disconnected")
			return nil
		case errors.Is(err, framing.ErrTruncated):
			s.logger.Warn("input ended inside a message", "error", err)
			return nil
		case errors.Is(err, framing.ErrFraming):
			s.logger.Warn("skipping unframeable message", "error", err)
			continue
		default:
			return fmt.Errorf("reading message: %w", err)
		}

		response, ok := s.Handle(ctx, body)
		if !ok {
			continue
		}
		if err := s.send(framer, response); err != nil {
			return err
		}
	}
}

// send encodes and writes one response. A response that cannot be
// encoded, or that exceeds the framer's size limit, is replaced by an
// InternalError response carrying the same id.
func (s *Server) send(framer framing.Framer, response jsonrpc.Response) error {
	encoded, err := json.Marshal(response)
	if err == nil {
		err = framer.WriteMessage(encoded)
		if err == nil {
			return nil
		}
		if !errors.Is(err, framing.ErrBodyTooLarge) {
			return fmt.Errorf("writing response: %w", err)
		}
	}

	s.logger.Error("response could not be sent", "id", response.ID.String(), "error", err)
	fallback, marshalErr := json.Marshal(jsonrpc.NewErrorResponse(response.ID,
		jsonrpc.NewError(jsonrpc.CodeInternalError, "internal error: %v", err)))
	if marshalErr != nil {
		return fmt.Errorf("encoding fallback response: %w", marshalErr)
	}
	if err := framer.WriteMessage(fallback); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

// Handle processes one message body. It returns false when the message
// is a notification and gets no response.
func (s *Server) Handle(ctx context.Context, body []byte) (jsonrpc.Response, bool) {
	request, err := jsonrpc.DecodeRequest(body)
	if err != nil {
		var decodeErr *jsonrpc.DecodeError
		if !errors.As(err, &decodeErr) {
			decodeErr = &jsonrpc.DecodeError{Code: jsonrpc.CodeInternalError, Message: err.Error()}
		}
		s.logger.Warn("rejecting request", "code", decodeErr.Code, "error", decodeErr.Message)
		return jsonrpc.NewErrorResponse(decodeErr.ID, decodeErr.Info()), true
	}

	s.logger.Debug("request", "method", request.Method, "id", request.ID.String())

	if strings.HasPrefix(request.Method, "notifications/") {
		s.handleNotification(request)
		return jsonrpc.Response{}, false
	}
	return s.dispatch(ctx, request), true
}

func (s *Server) handleNotification(request jsonrpc.Request) {
	switch request.Method {
	case "notifications/initialized":
		s.initialized.Store(true)
		s.logger.Info("client initialized")
	default:
		s.logger.Debug("ignoring notification", "method", request.Method)
	}
}

// dispatch routes a request to its handler and wraps the outcome in a
// response. A handler panic becomes an InternalError response so one
// bad request cannot take the server down.
func (s *Server) dispatch(ctx context.Context, request jsonrpc.Request) (response jsonrpc.Response) {
	handle, ok := s.handlers[request.Method]
	if !ok {
		return jsonrpc.NewErrorResponse(request.ID,
			jsonrpc.NewError(jsonrpc.CodeMethodNotFound, "Method not found: %s", request.Method))
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			s.logger.Error("handler panicked", "method", request.Method, "panic", recovered)
			response = jsonrpc.NewErrorResponse(request.ID,
				jsonrpc.NewError(jsonrpc.CodeInternalError, "internal error handling %s", request.Method))
		}
	}()

	result, errInfo := handle(ctx, request.Params)
	if errInfo != nil {
		s.logger.Debug("request failed", "method", request.Method, "code", errInfo.Code, "error", errInfo.Message)
		return jsonrpc.NewErrorResponse(request.ID, errInfo)
	}
	encoded, err := value.Of(result)
	if err != nil {
		s.logger.Error("encoding result", "method", request.Method, "error", err)
		return jsonrpc.NewErrorResponse(request.ID,
			jsonrpc.NewError(jsonrpc.CodeInternalError, "internal error encoding %s result", request.Method))
	}
	return jsonrpc.NewResult(request.ID, encoded)
}

// refresh brings the catalog up to date before a read. A failed scan
// leaves the previous snapshot in place, so reads continue against it.
func (s *Server) refresh(ctx context.Context) {
	if _, err := s.catalog.Refresh(ctx, false); err != nil {
		s.logger.Warn("catalog refresh failed, serving previous snapshot", "error", err)
	}
}

func (s *Server) handleInitialize(_ context.Context, params value.Value) (any, *jsonrpc.ErrorInfo) {
	// Params are informational. A client that sends none, or a newer
	// shape, still gets this server's version and capabilities.
	client := readClientInfo(params)
	s.logger.Info("initialize",
		"client", client.Name,
		"client_version", client.Version,
		"protocol_version", protocolVersion,
	)
	return initializeResult{
		ProtocolVersion: protocolVersion,
		ServerInfo: serverInfo{
			Name:    serverName,
			Version: version.Short(),
		},
	}, nil
}

func readClientInfo(params value.Value) clientInfo {
	object, _ := value.AsObject(params)
	info, _ := value.AsObject(object["clientInfo"])
	name, _ := value.AsString(info["name"])
	clientVersion, _ := value.AsString(info["version"])
	return clientInfo{Name: name, Version: clientVersion}
}

func (s *Server) handleInitialized(context.Context, value.Value) (any, *jsonrpc.ErrorInfo) {
	s.initialized.Store(true)
	s.logger.Info("client initialized")
	return emptyResult, nil
}

func (s *Server) handlePing(context.Context, value.Value) (any, *jsonrpc.ErrorInfo) {
	return emptyResult, nil
}
