package mcp

import (
	"fmt"

	"bitbucket-mcp/internal/bitbucket"
	"bitbucket-mcp/internal/config"
	"bitbucket-mcp/internal/logging"

	mcp "github.com/fredcamaral/gomcp-sdk"
	"github.com/fredcamaral/gomcp-sdk/server"
)

const (
	serverName    = "bitbucket-mcp"
	serverVersion = "1.0.0"
)

// Server exposes Bitbucket Cloud operations as MCP tools, resources
// and prompts on top of a gomcp-sdk server.
type Server struct {
	cfg       *config.Config
	client    *bitbucket.Client
	mcpServer *server.Server
	logger    logging.Logger
}

// Option customizes server construction, mainly for tests.
type Option func(*Server)

// WithClient substitutes the Bitbucket client.
func WithClient(c *bitbucket.Client) Option {
	return func(s *Server) { s.client = c }
}

// WithLogger substitutes the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New builds the Bitbucket MCP server from a validated config and
// registers every tool, resource and prompt.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	s := &Server{
		cfg:    cfg,
		logger: logging.NewLogger(logging.LevelInfo).WithComponent("mcp"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = bitbucket.NewClient(cfg, bitbucket.WithLogger(s.logger))
	}

	s.mcpServer = mcp.NewServer(serverName, serverVersion)
	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	s.logger.Info("MCP server initialized",
		"workspace", cfg.Workspace,
		"output_format", string(cfg.OutputFormat),
	)
	return s, nil
}

// GetMCPServer exposes the underlying SDK server for transports and
// request-level tests.
func (s *Server) GetMCPServer() *server.Server {
	return s.mcpServer
}

// compact reports whether list output should drop verbose fields.
func (s *Server) compact() bool {
	return s.cfg.OutputFormat == config.OutputCompact
}

func (s *Server) registerTools() {
	s.registerRepositoryTools()
	s.registerBranchTools()
	s.registerPullRequestTools()
	s.registerPipelineTools()
	s.registerCommitTools()
	s.registerTagTools()
	s.registerWebhookTools()
	s.registerDeploymentTools()
	s.registerRestrictionTools()
	s.registerSourceTools()
	s.registerPermissionTools()
}
