package commands

import (
	"time"

	"github.com/noteship/noteship/internal/api"
	"github.com/noteship/noteship/internal/config"
	"github.com/noteship/noteship/internal/render"
	"github.com/noteship/noteship/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(client api.ChatClientInterface, endpoint string, opts ...tui.Option) error
	RunConfig(cfg config.Config, path string) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient creates the chat endpoint client for cfg.
	NewClient func(cfg config.Config) (api.ChatClientInterface, error)

	// TUI is the terminal user interface.
	TUI TUIInterface
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(client api.ChatClientInterface, endpoint string, opts ...tui.Option) error {
	return tui.RunChat(client, endpoint, opts...)
}

func (d *DefaultTUI) RunConfig(cfg config.Config, path string) error {
	return tui.RunConfig(cfg, path)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient: newEndpointClient,
		TUI:       &DefaultTUI{},
	}
}

func newEndpointClient(cfg config.Config) (api.ChatClientInterface, error) {
	client, err := api.NewClient(cfg.Endpoint, clientOptions(cfg)...)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func clientOptions(cfg config.Config) []api.ClientOption {
	return []api.ClientOption{
		api.WithTimeout(requestTimeout(cfg)),
		api.WithUserAgent(userAgent()),
		api.WithHTMLOptions(render.HTMLOptionsFromConfig(cfg)),
	}
}

// userAgent identifies this build to the backend
func userAgent() string {
	return api.DefaultUserAgent + "/" + Version
}

func requestTimeout(cfg config.Config) time.Duration {
	if cfg.RequestTimeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(cfg.RequestTimeout) * time.Second
}
