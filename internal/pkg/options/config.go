package options

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Zhuoli/leverage-agent/pkg/utils/json"
)

// Config is the resolved configuration handed to the tool server and the
// agent facade. Construct it with LoadFromEnv, then call Validate before
// building anything that touches the network.
type Config struct {
	Atlassian *AtlassianOptions `json:"atlassian" mapstructure:"atlassian"`
	Models    *ModelOptions     `json:"models"    mapstructure:"models"`
	Agent     *AgentOptions     `json:"agent"     mapstructure:"agent"`
}

func NewConfig() *Config {
	return &Config{
		Atlassian: NewAtlassianOptions(),
		Models:    NewModelOptions(),
		Agent:     NewAgentOptions(),
	}
}

// LoadFromEnv builds a Config from the process environment, reading an
// optional .env file first. Env names match the original deployment surface
// (JIRA_URL, ANTHROPIC_API_KEY, ...).
func LoadFromEnv() *Config {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	cfg := NewConfig()

	cfg.Atlassian.JiraURL = v.GetString("JIRA_URL")
	cfg.Atlassian.JiraUsername = v.GetString("JIRA_USERNAME")
	cfg.Atlassian.JiraAPIToken = v.GetString("JIRA_API_TOKEN")
	cfg.Atlassian.ConfluenceURL = v.GetString("CONFLUENCE_URL")
	cfg.Atlassian.ConfluenceUsername = v.GetString("CONFLUENCE_USERNAME")
	cfg.Atlassian.ConfluenceAPIToken = v.GetString("CONFLUENCE_API_TOKEN")
	cfg.Atlassian.ConfluenceSpaceKey = v.GetString("CONFLUENCE_SPACE_KEY")
	cfg.Atlassian.UserEmail = v.GetString("USER_EMAIL")
	cfg.Atlassian.UserDisplayName = v.GetString("USER_DISPLAY_NAME")

	if p := v.GetString("MODEL_PROVIDER"); p != "" {
		cfg.Models.Provider = p
	}
	cfg.Models.Model = v.GetString("MODEL_NAME")
	cfg.Models.AnthropicAPIKey = v.GetString("ANTHROPIC_API_KEY")
	cfg.Models.OpenAIAPIKey = v.GetString("OPENAI_API_KEY")

	cfg.Agent.ServerCommand = v.GetString("MCP_SERVER_COMMAND")
	cfg.Agent.SkillsDir = v.GetString("SKILLS_DIR")

	cfg.Atlassian.Complete()
	cfg.Agent.Complete()
	return cfg
}

// Validate aggregates the sub-option checks. Atlassian settings are always
// required; the model credential check is keyed to the selected provider.
func (c *Config) Validate() []error {
	var errs []error
	errs = append(errs, c.Atlassian.Validate()...)
	errs = append(errs, c.Models.Validate()...)
	return errs
}

func (c *Config) String() string {
	data, _ := json.Marshal(c)
	return string(data)
}
