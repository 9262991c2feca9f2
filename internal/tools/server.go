package tools

import (
	"context"
	"encoding/json"

	mcpgo "github.com/felixgeelhaar/mcp-go"
	mcpserver "github.com/felixgeelhaar/mcp-go/server"
)

// asServerMiddleware converts a top-level mcp-go Middleware into the
// server package's Middleware type. The two HandlerFunc types have
// identical signatures, so this is a pure type adaptation.
func asServerMiddleware(m mcpgo.Middleware) mcpserver.Middleware {
	return func(next mcpserver.HandlerFunc) mcpserver.HandlerFunc {
		return mcpserver.HandlerFunc(m(mcpgo.MiddlewareHandlerFunc(next)))
	}
}

const serverInstructions = "Tools for the Brevo email platform: account details, contact lookup, " +
	"transactional sending, campaign management and engagement analytics. " +
	"Campaign identifiers are the numeric IDs shown by get_email_campaigns."

// Server exposes the tool catalogue over the Model Context Protocol.
type Server struct {
	srv *mcpgo.Server
}

// NewServer builds an MCP server with every catalogue tool registered
// against the dispatcher.
func NewServer(d *Dispatcher, version string) *Server {
	info := mcpgo.ServerInfo{
		Name:        "brevo-mcp",
		Version:     version,
		Description: "Brevo email marketing and transactional email adapter",
		Capabilities: mcpgo.Capabilities{
			Tools: true,
		},
	}

	srv := mcpgo.NewServer(info, mcpgo.WithInstructions(serverInstructions))
	srv.Use(asServerMiddleware(mcpgo.Recover()), asServerMiddleware(mcpgo.RequestID()))

	for _, def := range Catalogue() {
		name := def.Name
		srv.Tool(name).
			Description(def.Description).
			Handler(func(ctx context.Context, input json.RawMessage) (string, error) {
				return d.Dispatch(ctx, name, input)
			})
	}

	return &Server{srv: srv}
}

// ServeStdio runs the server over stdin/stdout until the context is
// canceled.
func (s *Server) ServeStdio(ctx context.Context, opts ...mcpgo.ServeOption) error {
	return mcpgo.ServeStdio(ctx, s.srv, opts...)
}
