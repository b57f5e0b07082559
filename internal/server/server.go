package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/zyron/internal/config"
	"github.com/ironsheep/zyron/internal/imaging"
	"github.com/ironsheep/zyron/internal/logging"
	"github.com/ironsheep/zyron/internal/recognize"
	"github.com/ironsheep/zyron/internal/store"
)

// Server handles MCP protocol communication for one recognition session.
type Server struct {
	cfg     *config.Config
	engine  *recognize.Engine
	session *recognize.Session
	log     logrus.FieldLogger
	version string

	// outMu serializes writes so progress notifications emitted by matching
	// workers never interleave with responses.
	outMu sync.Mutex
	enc   *json.Encoder
}

// Options configures a Server.
type Options struct {
	// Config supplies engine and presentation settings. Nil means config.Default().
	Config *config.Config

	// Repository is the exemplar library and dictionary. Required.
	Repository store.Repository

	Logger  logrus.FieldLogger
	Version string
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// MCPNotification represents an outgoing notification (no ID)
type MCPNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// New creates a server with an idle session over opts.Repository.
func New(opts Options) *Server {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := logging.OrDiscard(opts.Logger)
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	engine := recognize.NewEngine(opts.Repository, recognize.Options{
		Dimension:        cfg.Image.Dimension,
		Threshold:        imaging.Threshold(cfg.Image.DarkThreshold),
		KeepUnterminated: cfg.Segment.KeepUnterminated,
		Workers:          cfg.WorkerCount(),
		MaxCandidates:    cfg.Scoring.MaxCandidates,
		CacheMasks:       cfg.Library.CacheMasks,
		Logger:           log,
	})

	return &Server{
		cfg:     cfg,
		engine:  engine,
		session: recognize.NewSession(engine),
		log:     log,
		version: version,
	}
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run() error {
	return s.RunIO(os.Stdin, os.Stdout)
}

// RunIO serves line-delimited JSON-RPC requests from in until EOF.
func (s *Server) RunIO(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	s.outMu.Lock()
	s.enc = json.NewEncoder(out)
	s.outMu.Unlock()

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.WithError(err).Warn("failed to parse request")
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := s.send(resp); err != nil {
				s.log.WithError(err).Error("failed to encode response")
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// send writes one message. Without an active RunIO the message is dropped.
func (s *Server) send(v interface{}) error {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	if s.enc == nil {
		return nil
	}
	return s.enc.Encode(v)
}

// notify sends a JSON-RPC notification, logging failures.
func (s *Server) notify(method string, params interface{}) {
	err := s.send(&MCPNotification{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
	})
	if err != nil {
		s.log.WithError(err).WithField("method", method).Warn("failed to send notification")
	}
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	s.log.WithField("method", req.Method).Debug("request")

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "zyron",
				"version": s.version,
			},
		},
	}
}
