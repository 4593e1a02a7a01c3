package options

import (
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
)

// AgentOptions locates the tool-server executable and the skills directory
// handed to the agent backend.
type AgentOptions struct {
	// ServerCommand is the executable that serves the Atlassian tools over
	// stdio. Resolved relative to the CLI binary when empty.
	ServerCommand string   `json:"server-command" mapstructure:"server-command"`
	ServerArgs    []string `json:"server-args"    mapstructure:"server-args"`

	// SkillsDir holds static reference documents appended to the system
	// prompt. A missing directory is tolerated.
	SkillsDir string `json:"skills-dir" mapstructure:"skills-dir"`
}

func NewAgentOptions() *AgentOptions {
	return &AgentOptions{}
}

// Complete defaults the server command to an atlassian-mcp binary sitting
// next to the current executable.
func (o *AgentOptions) Complete() {
	if o.ServerCommand != "" {
		return
	}
	exe, err := os.Executable()
	if err != nil {
		o.ServerCommand = "atlassian-mcp"
		return
	}
	o.ServerCommand = filepath.Join(filepath.Dir(exe), "atlassian-mcp")
}

func (o *AgentOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.ServerCommand, "agent.server-command", o.ServerCommand, "Path to the atlassian-mcp tool server executable.")
	fs.StringVar(&o.SkillsDir, "agent.skills-dir", o.SkillsDir, "Directory of skill documents for the agent.")
}
