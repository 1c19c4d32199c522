package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/svgflat"
	"github.com/aretw0/svgflat/internal/keylock"
	"github.com/aretw0/svgflat/internal/logging"
	"github.com/aretw0/svgflat/internal/metrics"
	"github.com/aretw0/svgflat/internal/presentation/graph"
	"github.com/aretw0/svgflat/pkg/domain"
	"github.com/aretw0/svgflat/pkg/resolve"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Service is the part of the Flattener exposed as MCP tools.
type Service interface {
	FlattenTo(ctx context.Context, input, output string) (*domain.Report, error)
	Convert(ctx context.Context, input, output string, opts svgflat.ConvertOptions) (*domain.Report, error)
	Graph(ctx context.Context, input string) (*domain.RefNode, error)
}

type FlattenArgs struct {
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`
}

type ConvertArgs struct {
	Input      string `json:"input"`
	Output     string `json:"output"`
	KeepTemp   bool   `json:"keep_temp,omitempty"`
	TextToPath bool   `json:"text_to_path,omitempty"`
}

type GraphArgs struct {
	Input  string `json:"input"`
	Format string `json:"format,omitempty"`
}

// ConversionResponse aligns with the HTTP API so both adapters answer alike.
type ConversionResponse struct {
	Output string                  `json:"output" jsonschema_description:"Path of the written file"`
	Counts map[domain.Outcome]int  `json:"counts" jsonschema_description:"Number of references per outcome"`
	Events []domain.ReferenceEvent `json:"events" jsonschema_description:"One entry per linked SVG reference"`
}

// Server exposes a Flattener as an MCP server.
type Server struct {
	svc       Service
	locks     *keylock.Manager
	metrics   *metrics.Metrics
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

func WithLocks(m *keylock.Manager) Option {
	return func(s *Server) {
		if m != nil {
			s.locks = m
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(svc Service, opts ...Option) *Server {
	s := &Server{
		svc:       svc,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("svgflat-mcp", strings.TrimSpace(svgflat.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.locks == nil {
		s.locks = keylock.New(keylock.WithLogger(s.logger))
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it
// when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	flattenTool := mcp.NewTool("flatten_svg",
		mcp.WithDescription("Inline every linked SVG of a document into one self-contained SVG file."),
		mcp.WithString("input", mcp.Required(), mcp.Description("Path of the top-level SVG on the server host")),
		mcp.WithString("output", mcp.Description("Where to write the flattened SVG (default: temp_inlined_<name> next to the input)")),
		mcp.WithOutputSchema[ConversionResponse](),
	)
	s.mcpServer.AddTool(flattenTool, mcp.NewStructuredToolHandler(s.handleFlatten))

	convertTool := mcp.NewTool("convert_svg_to_pdf",
		mcp.WithDescription("Flatten a linked SVG tree and export it to PDF."),
		mcp.WithString("input", mcp.Required(), mcp.Description("Path of the top-level SVG")),
		mcp.WithString("output", mcp.Required(), mcp.Description("Path of the PDF to write")),
		mcp.WithBoolean("keep_temp", mcp.Description("Keep the intermediate flattened SVG")),
		mcp.WithBoolean("text_to_path", mcp.Description("Convert text to outlines in the PDF")),
		mcp.WithOutputSchema[ConversionResponse](),
	)
	s.mcpServer.AddTool(convertTool, mcp.NewStructuredToolHandler(s.handleConvert))

	s.mcpServer.AddTool(mcp.NewTool("reference_graph",
		mcp.WithDescription("List the tree of SVG files linked from a document."),
		mcp.WithString("input", mcp.Required(), mcp.Description("Path of the top-level SVG")),
		mcp.WithString("format", mcp.Description("json (default) or mermaid"), mcp.Enum("json", "mermaid")),
	), s.handleGraph)
}

func (s *Server) handleFlatten(ctx context.Context, _ mcp.CallToolRequest, args FlattenArgs) (ConversionResponse, error) {
	if err := cleanPaths(&args.Input, &args.Output); err != nil {
		return ConversionResponse{}, err
	}
	var report *domain.Report
	err := s.run(ctx, "flatten", args.Input, func(ctx context.Context) error {
		var err error
		report, err = s.svc.FlattenTo(ctx, args.Input, args.Output)
		return err
	})
	if err != nil {
		s.logger.Warn("MCP flatten failed", "input", args.Input, "err", err)
		return ConversionResponse{}, fmt.Errorf("flatten failed: %w", err)
	}
	return newConversionResponse(report), nil
}

func (s *Server) handleConvert(ctx context.Context, _ mcp.CallToolRequest, args ConvertArgs) (ConversionResponse, error) {
	if args.Output == "" {
		return ConversionResponse{}, errors.New("output is required")
	}
	if err := cleanPaths(&args.Input, &args.Output); err != nil {
		return ConversionResponse{}, err
	}
	opts := svgflat.ConvertOptions{KeepTemp: args.KeepTemp, TextToPath: args.TextToPath}

	var report *domain.Report
	err := s.run(ctx, "convert", args.Input, func(ctx context.Context) error {
		var err error
		report, err = s.svc.Convert(ctx, args.Input, args.Output, opts)
		return err
	})
	if err != nil {
		s.logger.Warn("MCP convert failed", "input", args.Input, "err", err)
		return ConversionResponse{}, fmt.Errorf("convert failed: %w", err)
	}
	return newConversionResponse(report), nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args GraphArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if err := cleanPaths(&args.Input); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	root, err := s.svc.Graph(ctx, args.Input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("graph failed: %v", err)), nil
	}
	if args.Format == "mermaid" {
		return mcp.NewToolResultText(graph.GenerateMermaid(root)), nil
	}
	data, err := json.Marshal(root)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) run(ctx context.Context, kind, input string, fn func(context.Context) error) error {
	if input == "" {
		return errors.New("input is required")
	}
	key := input
	if abs, err := filepath.Abs(input); err == nil {
		key = abs
	}

	start := time.Now()
	err := s.locks.WithLock(ctx, key, fn)
	if s.metrics != nil {
		s.metrics.ObserveConversion(kind, err, time.Since(start))
	}
	return err
}

// cleanPaths validates the non-empty paths in place.
func cleanPaths(paths ...*string) error {
	for _, p := range paths {
		if *p == "" {
			continue
		}
		clean, err := resolve.SanitizePath(*p)
		if err != nil {
			return err
		}
		*p = clean
	}
	return nil
}

func newConversionResponse(r *domain.Report) ConversionResponse {
	return ConversionResponse{Output: r.Output, Counts: r.Counts(), Events: r.Events}
}
