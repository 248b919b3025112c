// Package toolsets groups MCP tools and decides which of them a server registers.
package toolsets

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Toolset is a named group of read and write tools.
type Toolset struct {
	Name        string
	Description string
	Enabled     bool
	readOnly    bool
	readTools   []server.ServerTool
	writeTools  []server.ServerTool
}

// ToolsetInfo provides metadata about a toolset.
type ToolsetInfo struct {
	Name        string
	Description string
	Enabled     bool
	ToolCount   int
}

// ToolsetGroup manages a collection of Toolsets.
type ToolsetGroup struct {
	mu           sync.RWMutex
	Toolsets     map[string]*Toolset
	everythingOn bool
	readOnly     bool
}

// NewServerTool pairs a tool definition with its handler.
func NewServerTool(tool mcp.Tool, handler server.ToolHandlerFunc) server.ServerTool {
	return server.ServerTool{Tool: tool, Handler: handler}
}

// NewToolset creates a new, disabled Toolset instance.
func NewToolset(name, description string) *Toolset {
	return &Toolset{
		Name:        name,
		Description: description,
	}
}

func isReadOnly(tool mcp.Tool) bool {
	hint := tool.Annotations.ReadOnlyHint
	return hint != nil && *hint
}

// AddReadTools adds tools that never modify GitLab state. Each must carry ReadOnlyHint=true.
func (t *Toolset) AddReadTools(tools ...server.ServerTool) *Toolset {
	for _, tool := range tools {
		if !isReadOnly(tool.Tool) {
			panic(fmt.Sprintf("tool (%s) must be annotated as read-only", tool.Tool.Name))
		}
	}
	t.readTools = append(t.readTools, tools...)
	return t
}

// AddWriteTools adds tools that modify GitLab state. They are dropped in read-only mode.
func (t *Toolset) AddWriteTools(tools ...server.ServerTool) *Toolset {
	for _, tool := range tools {
		if isReadOnly(tool.Tool) {
			panic(fmt.Sprintf("tool (%s) is annotated as read-only but added as a write tool", tool.Tool.Name))
		}
	}
	t.writeTools = append(t.writeTools, tools...)
	return t
}

// GetActiveTools returns the tools to register given the Enabled and read-only flags.
func (t *Toolset) GetActiveTools() []server.ServerTool {
	if !t.Enabled {
		return nil
	}
	active := make([]server.ServerTool, 0, len(t.readTools)+len(t.writeTools))
	active = append(active, t.readTools...)
	if !t.readOnly {
		active = append(active, t.writeTools...)
	}
	return active
}

// RegisterTools adds the Toolset's active tools to s.
func (t *Toolset) RegisterTools(s *server.MCPServer) {
	s.AddTools(t.GetActiveTools()...)
}

// SetReadOnly forces the toolset into read-only mode.
func (t *Toolset) SetReadOnly() {
	t.readOnly = true
}

// Tools returns all tools (both read and write) in the toolset.
func (t *Toolset) Tools() []server.ServerTool {
	all := make([]server.ServerTool, 0, len(t.readTools)+len(t.writeTools))
	all = append(all, t.readTools...)
	all = append(all, t.writeTools...)
	return all
}

// NewToolsetGroup creates a new manager for multiple Toolsets.
// With readOnly set, every toolset added later runs in read-only mode.
func NewToolsetGroup(readOnly bool) *ToolsetGroup {
	return &ToolsetGroup{
		Toolsets: make(map[string]*Toolset),
		readOnly: readOnly,
	}
}

// AddToolset adds a toolset to the group.
func (tg *ToolsetGroup) AddToolset(ts *Toolset) {
	tg.mu.Lock()
	defer tg.mu.Unlock()

	if tg.readOnly {
		ts.SetReadOnly()
	}
	tg.Toolsets[ts.Name] = ts
}

// EnableToolset enables a single toolset by name.
func (tg *ToolsetGroup) EnableToolset(name string) error {
	tg.mu.Lock()
	defer tg.mu.Unlock()

	ts, ok := tg.Toolsets[name]
	if !ok {
		return fmt.Errorf("toolset '%s' not found", name)
	}
	ts.Enabled = true
	return nil
}

// EnableToolsets enables the named toolsets. The single name "all" enables every toolset.
func (tg *ToolsetGroup) EnableToolsets(names []string) error {
	if len(names) == 0 {
		return errors.New("no toolsets specified to enable")
	}

	if len(names) == 1 && names[0] == "all" {
		tg.mu.Lock()
		defer tg.mu.Unlock()
		tg.everythingOn = true
		for _, ts := range tg.Toolsets {
			ts.Enabled = true
		}
		return nil
	}

	for _, name := range names {
		if err := tg.EnableToolset(name); err != nil {
			return err
		}
	}
	return nil
}

// RegisterTools registers the active tools of every enabled toolset with s.
func (tg *ToolsetGroup) RegisterTools(s *server.MCPServer) {
	tg.mu.RLock()
	defer tg.mu.RUnlock()

	for _, ts := range tg.Toolsets {
		ts.RegisterTools(s)
	}
}

// ActiveToolNames returns the sorted names of every tool that RegisterTools would register.
func (tg *ToolsetGroup) ActiveToolNames() []string {
	tg.mu.RLock()
	defer tg.mu.RUnlock()

	var names []string
	for _, ts := range tg.Toolsets {
		for _, tool := range ts.GetActiveTools() {
			names = append(names, tool.Tool.Name)
		}
	}
	sort.Strings(names)
	return names
}

// ListToolsets returns information about all toolsets, sorted by name.
func (tg *ToolsetGroup) ListToolsets() []ToolsetInfo {
	tg.mu.RLock()
	defer tg.mu.RUnlock()

	infos := make([]ToolsetInfo, 0, len(tg.Toolsets))
	for name, ts := range tg.Toolsets {
		infos = append(infos, ToolsetInfo{
			Name:        name,
			Description: ts.Description,
			Enabled:     ts.Enabled,
			ToolCount:   len(ts.Tools()),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
