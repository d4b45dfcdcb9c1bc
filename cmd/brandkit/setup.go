package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// mcpServerKey names brandkit inside an agent's server list.
const mcpServerKey = "brandkit"

type registration int

const (
	// viaCLI agents register servers through their own `mcp add` command.
	viaCLI registration = iota
	// viaFile agents read a JSON file listing their servers.
	viaFile
)

// agent describes one AI tool that can launch `brandkit mcp`.
type agent struct {
	id    string
	label string
	via   registration

	binary      string
	scoped      bool   // the CLI takes --scope project|user
	projectFile string // where the CLI records project-scoped servers

	marker string        // directory that shows the agent is used in this project
	file   func() string // the JSON file to edit
	key    string        // object holding the servers
	extra  map[string]any
}

var agents = []agent{
	{id: "claude-code", label: "Claude Code", via: viaCLI, binary: "claude", scoped: true, projectFile: ".mcp.json"},
	{id: "codex", label: "OpenAI Codex", via: viaCLI, binary: "codex"},
	{
		id: "vscode", label: "VS Code", via: viaFile, marker: ".vscode",
		file: func() string { return filepath.Join(".vscode", "mcp.json") },
		key:  "servers", extra: map[string]any{"type": "stdio"},
	},
	{
		id: "cursor", label: "Cursor", via: viaFile, marker: ".cursor",
		file: func() string { return filepath.Join(".cursor", "mcp.json") },
		key:  "mcpServers",
	},
	{id: "claude-desktop", label: "Claude Desktop", via: viaFile, file: claudeDesktopFile, key: "mcpServers"},
}

func claudeDesktopFile() string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Claude", "claude_desktop_config.json")
	}
	return filepath.Join(home, ".config", "Claude", "claude_desktop_config.json")
}

// host is the slice of the operating system setup touches.
type host struct {
	lookPath func(string) (string, error)
	stat     func(string) (os.FileInfo, error)
	run      func(name string, args ...string) error
}

func systemHost(stdout, stderr io.Writer) host {
	return host{
		lookPath: exec.LookPath,
		stat:     os.Stat,
		run: func(name string, args ...string) error {
			c := exec.Command(name, args...)
			c.Stdout, c.Stderr = stdout, stderr
			return c.Run()
		},
	}
}

// candidate is a detected agent.
type candidate struct {
	agent
	path       string // resolved JSON file, empty for CLI agents
	registered bool
}

// detect returns the agents present on this machine, restricted to ids in
// only when it is non-empty.
func (h host) detect(only []string) []candidate {
	var out []candidate
	for _, a := range agents {
		if len(only) > 0 && !slices.Contains(only, a.id) {
			continue
		}

		switch a.via {
		case viaCLI:
			if _, err := h.lookPath(a.binary); err != nil {
				continue
			}
			c := candidate{agent: a}
			if a.projectFile != "" {
				if doc, err := os.ReadFile(a.projectFile); err == nil {
					c.registered = hasServer(doc, "mcpServers")
				}
			}
			out = append(out, c)

		case viaFile:
			presence := a.marker
			if presence == "" {
				presence = filepath.Dir(a.file())
			}
			if _, err := h.stat(presence); err != nil {
				continue
			}
			c := candidate{agent: a, path: a.file()}
			if doc, err := os.ReadFile(c.path); err == nil {
				c.registered = hasServer(doc, a.key)
			}
			out = append(out, c)
		}
	}
	return out
}

// mcpEntry is the server object that launches brandkit with args.
func mcpEntry(args []string, extra map[string]any) map[string]any {
	entry := map[string]any{"command": mcpServerKey, "args": args}
	for k, v := range extra {
		entry[k] = v
	}
	return entry
}

func hasServer(doc []byte, key string) bool {
	var cfg map[string]any
	if json.Unmarshal(doc, &cfg) != nil {
		return false
	}
	servers, _ := cfg[key].(map[string]any)
	_, ok := servers[mcpServerKey]
	return ok
}

// addServer inserts entry under doc[key]["brandkit"], keeping every other
// field of doc. An existing brandkit entry is left alone and reported as
// unchanged.
func addServer(doc []byte, key string, entry map[string]any) ([]byte, bool, error) {
	cfg := map[string]any{}
	if len(strings.TrimSpace(string(doc))) > 0 {
		if err := json.Unmarshal(doc, &cfg); err != nil {
			return nil, false, fmt.Errorf("parse agent config: %w", err)
		}
	}

	servers, ok := cfg[key].(map[string]any)
	if !ok {
		servers = map[string]any{}
	}
	if _, exists := servers[mcpServerKey]; exists {
		return doc, false, nil
	}
	servers[mcpServerKey] = entry
	cfg[key] = servers

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, false, err
	}
	return append(out, '\n'), true, nil
}

// writeServerFile registers entry in the JSON file at path, creating it and
// its directory when missing.
func writeServerFile(path, key string, entry map[string]any) (bool, error) {
	doc, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}
	out, changed, err := addServer(doc, key, entry)
	if err != nil || !changed {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	return true, os.WriteFile(path, out, 0o644)
}

// prompter reads answers line by line from one buffered reader.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func (p prompter) answer(question string) (string, bool) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(line)), true
}

// confirm defaults to yes on an empty answer or end of input.
func (p prompter) confirm(question string) bool {
	a, ok := p.answer(question + " [Y/n] ")
	if !ok {
		return true
	}
	return a == "" || a == "y" || a == "yes"
}

// scope asks where a CLI agent should record the server. It returns
// "project", "user", or "" to skip.
func (p prompter) scope(label string) string {
	fmt.Fprintf(p.out, "\n%s scope: [1] this project  [2] all projects  [3] skip\n", label)
	a, ok := p.answer("> ")
	if !ok {
		return "project"
	}
	switch a {
	case "", "1", "project":
		return "project"
	case "2", "user":
		return "user"
	}
	return ""
}

type setupOptions struct {
	auto   bool
	dryRun bool
	only   []string
	args   []string // brandkit arguments the agent launches with
}

func newSetupCmd(a *app) *cobra.Command {
	var opts setupOptions

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the brandkit MCP server with installed AI agents",
		Long: "Detect AI agents (" + agentIDs() + ") and add `brandkit mcp`\n" +
			"to their server lists. Existing entries are never overwritten.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.args = []string{"mcp"}
			if cmd.Flags().Changed("config") {
				path, err := filepath.Abs(a.configPath)
				if err != nil {
					return err
				}
				opts.args = []string{"--config", path, "mcp"}
			}
			h := systemHost(cmd.OutOrStdout(), cmd.ErrOrStderr())
			return runSetup(h, cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.auto, "auto", false, "Configure every detected agent without prompting")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show what would be configured and change nothing")
	cmd.Flags().StringSliceVar(&opts.only, "agent", nil, "Only consider these agents (repeatable)")
	return cmd
}

func agentIDs() string {
	ids := make([]string, len(agents))
	for i, a := range agents {
		ids[i] = a.id
	}
	return strings.Join(ids, ", ")
}

// runSetup detects agents and registers brandkit with each one the user
// accepts. It fails when any registration failed.
func runSetup(h host, in io.Reader, out io.Writer, opts setupOptions) error {
	if len(opts.args) == 0 {
		opts.args = []string{"mcp"}
	}

	found := h.detect(opts.only)
	if len(found) == 0 {
		fmt.Fprintln(out, "No supported AI agents detected.")
		return nil
	}

	fmt.Fprintln(out, "Detected AI agents:")
	for _, c := range found {
		state := ""
		if c.registered {
			state = " (brandkit already registered)"
		}
		fmt.Fprintf(out, "  %-14s %s%s\n", c.id, c.label, state)
	}

	p := prompter{in: bufio.NewReader(in), out: out}
	if !opts.auto && !opts.dryRun && !p.confirm("\nRegister brandkit?") {
		return nil
	}

	failed := 0
	for _, c := range found {
		if c.registered {
			continue
		}
		if err := register(h, p, c, opts); err != nil {
			fmt.Fprintf(out, "  ! %s: %v\n", c.label, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d agent registration(s) failed", failed)
	}
	return nil
}

func register(h host, p prompter, c candidate, opts setupOptions) error {
	switch c.via {
	case viaCLI:
		args := []string{"mcp", "add"}
		scope := ""
		if c.scoped {
			scope = "project"
			if !opts.auto && !opts.dryRun {
				if scope = p.scope(c.label); scope == "" {
					fmt.Fprintf(p.out, "  - %s skipped\n", c.label)
					return nil
				}
			}
			args = append(args, "--scope", scope)
		}
		args = append(args, mcpServerKey, "--", mcpServerKey)
		args = append(args, opts.args...)

		if opts.dryRun {
			fmt.Fprintf(p.out, "  would run: %s %s\n", c.binary, strings.Join(args, " "))
			return nil
		}
		if err := h.run(c.binary, args...); err != nil {
			return err
		}
		if scope != "" {
			fmt.Fprintf(p.out, "  + %s (%s scope)\n", c.label, scope)
		} else {
			fmt.Fprintf(p.out, "  + %s\n", c.label)
		}

	case viaFile:
		if opts.dryRun {
			fmt.Fprintf(p.out, "  would edit: %s\n", c.path)
			return nil
		}
		if !opts.auto && !p.confirm(fmt.Sprintf("\n%s: edit %s?", c.label, c.path)) {
			fmt.Fprintf(p.out, "  - %s skipped\n", c.label)
			return nil
		}
		if _, err := writeServerFile(c.path, c.key, mcpEntry(opts.args, c.extra)); err != nil {
			return err
		}
		fmt.Fprintf(p.out, "  + %s (%s)\n", c.label, c.path)
	}
	return nil
}
