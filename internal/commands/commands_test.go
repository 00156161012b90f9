package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/noteship/noteship/internal/api"
	"github.com/noteship/noteship/internal/config"
	"github.com/noteship/noteship/internal/tui"
)

// fakeTUI records TUI launches instead of starting Bubble Tea
type fakeTUI struct {
	chatClient   api.ChatClientInterface
	chatEndpoint string
	chatOpts     int
	configCfg    *config.Config
	configPath   string
}

func (f *fakeTUI) RunChat(client api.ChatClientInterface, endpoint string, opts ...tui.Option) error {
	f.chatClient = client
	f.chatEndpoint = endpoint
	f.chatOpts = len(opts)
	return nil
}

func (f *fakeTUI) RunConfig(cfg config.Config, path string) error {
	f.configCfg = &cfg
	f.configPath = path
	return nil
}

// testDeps installs a mock client and fake TUI for the duration of the test
func testDeps(t *testing.T, client api.ChatClientInterface) (*fakeTUI, *config.Config) {
	t.Helper()
	ft := &fakeTUI{}
	var got config.Config
	old := deps
	deps = &Dependencies{
		NewClient: func(cfg config.Config) (api.ChatClientInterface, error) {
			got = cfg
			return client, nil
		},
		TUI: ft,
	}
	t.Cleanup(func() { deps = old })
	return ft, &got
}

func resetFlags() {
	endpointFlag, configFlag, logLevelFlag = "", "", ""
	fileFlag, outputFlag = "", ""
	htmlFlag, rawFlag, copyFlag = false, false, false
	renderFileFlag, listTagsFlag, terminalFlag = "", false, false
	hostFlag, portFlag = "", 0
	forceFlag = false
	_ = rootCmd.Flags().Set("version", "false")
}

// execute runs the root command with args and stdin, returning stdout and stderr
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// tempConfig returns a config path inside a fresh temp dir
func tempConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}
