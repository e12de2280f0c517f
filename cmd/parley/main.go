// ABOUTME: Entry point for the parley agent orchestrator
// ABOUTME: Wires config, store, model, and orchestrator behind a JSON-lines transport

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"

	"github.com/2389/parley/internal/chat"
	"github.com/2389/parley/internal/config"
	"github.com/2389/parley/internal/model"
	"github.com/2389/parley/internal/orchestrator"
	"github.com/2389/parley/internal/runtime"
	"github.com/2389/parley/internal/store"
)

// version is overridden at build time via -ldflags.
var version = "dev"

// getConfigPath returns the path to the parley config file.
// Priority: PARLEY_CONFIG env var > XDG_CONFIG_HOME/parley/parley.yaml > ~/.config/parley/parley.yaml
func getConfigPath() string {
	if envPath := os.Getenv("PARLEY_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "parley.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "parley", "parley.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: parley <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve     Run the orchestrator on stdin/stdout")
		fmt.Println("  init      Create a starter config file")
		fmt.Println("  version   Print the version")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "version":
		fmt.Println("parley", version)
	default:
		err = fmt.Errorf("unknown command: %s", os.Args[1])
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// runServe wires the core together and speaks the command/event vocabulary
// over stdin/stdout: one JSON command per input line, one JSON event per
// output line. Logs go to stderr so the event stream stays clean.
func runServe(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	tools := demoTools()

	mdl, err := newModel(ctx, cfg.Model, tools, logger)
	if err != nil {
		return err
	}

	settings := runtime.Settings{
		SystemPrompt: cfg.Runtime.SystemPrompt,
		MaxSteps:     cfg.Runtime.MaxSteps,
	}

	orch := orchestrator.New(st, mdl, settings, logger)
	for _, t := range tools {
		orch.RegisterTool(t)
	}
	if err := orch.RefreshIndex(ctx); err != nil {
		return err
	}

	logger.Info("parley started",
		"version", version,
		"model", cfg.Model.Name,
		"provider", cfg.Model.Provider,
		"database", cfg.Database.Path,
	)

	// Event writer: one JSON line per outbound event.
	done := make(chan struct{})
	go func() {
		defer close(done)
		enc := json.NewEncoder(os.Stdout)
		for ev := range orch.Events() {
			if err := enc.Encode(ev); err != nil {
				logger.Error("writing event failed", "error", err)
				return
			}
		}
	}()

	err = commandLoop(ctx, os.Stdin, orch, logger)

	orch.Close()
	<-done
	return err
}

// commandLoop reads one JSON command per input line and dispatches it. It
// returns when the input ends or the context is cancelled; a blocked read
// must not delay shutdown past the cancellation.
func commandLoop(ctx context.Context, in io.Reader, orch *orchestrator.Orchestrator, logger *slog.Logger) error {
	lines := make(chan string)
	var scanErr error
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr = scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return scanErr
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			cmd, err := orchestrator.DecodeCommand([]byte(line))
			if err != nil {
				logger.Warn("ignoring malformed command", "error", err)
				continue
			}
			if err := orch.HandleCommand(ctx, cmd); err != nil {
				logger.Error("command failed", "type", cmd.Type, "error", err)
			}
		}
	}
}

// runInit writes a starter config file at the default location.
func runInit() error {
	path := getConfigPath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	starter := `database:
  path: ${HOME}/.local/share/parley/history.db

model:
  provider: ollama
  host: http://localhost:11434
  name: llama3.1:latest

runtime:
  system_prompt: ""
  max_steps: 8

logging:
  level: info
  format: text
`
	if err := os.WriteFile(path, []byte(starter), 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Println("Created", path)
	return nil
}

// newModel builds the configured inference backend.
func newModel(ctx context.Context, cfg config.ModelConfig, tools []runtime.Tool, logger *slog.Logger) (runtime.Model, error) {
	switch cfg.Provider {
	case "scripted":
		// Offline demo: one canned tool round followed by a text turn.
		return model.NewScripted(
			runtime.Turn{ToolCalls: []chat.ToolCall{
				{ID: "call_0", Name: "add", Args: map[string]any{"a": 2.0, "b": 3.0}},
			}},
			runtime.Turn{Content: "The sum is 5."},
		), nil

	default:
		manifests := make([]runtime.Manifest, 0, len(tools))
		for _, t := range tools {
			manifests = append(manifests, runtime.ManifestFor(t))
		}
		mdl, err := model.NewOllama(cfg.Host, cfg.Name, manifests)
		if err != nil {
			return nil, err
		}
		if err := mdl.Ping(ctx); err != nil {
			logger.Warn("ollama server not reachable", "host", cfg.Host, "error", err)
		}
		return mdl, nil
	}
}

// demoTools returns the built-in demonstration tool set.
func demoTools() []runtime.Tool {
	addSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number", "description": "first addend"},
			"b": map[string]any{"type": "number", "description": "second addend"},
		},
		"required": []string{"a", "b"},
	}

	add := runtime.Func("add", "Add two numbers.", addSchema,
		func(_ context.Context, args map[string]any) (any, error) {
			a, _ := args["a"].(float64)
			b, _ := args["b"].(float64)
			return a + b, nil
		})

	return []runtime.Tool{add}
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = &colorHandler{
			level: level,
		}
	}

	return slog.New(handler)
}

// colorHandler provides colorized log output with thread-safe writes.
// It writes to stderr so stdout remains the event stream.
type colorHandler struct {
	mu     sync.Mutex
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	// Format timestamp
	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	// Colorize level
	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	// Print message
	buf.WriteString(r.Message)

	// Print handler-level attrs first (from WithAttrs)
	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}

	// Print record attrs
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Fprint(os.Stderr, buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &colorHandler{
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}
