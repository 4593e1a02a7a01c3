package options

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// AtlassianOptions carries the connection settings for the Jira and
// Confluence REST APIs.
type AtlassianOptions struct {
	JiraURL      string `json:"jira-url"       mapstructure:"jira-url"`
	JiraUsername string `json:"jira-username"  mapstructure:"jira-username"`
	JiraAPIToken string `json:"jira-api-token" mapstructure:"jira-api-token"`

	ConfluenceURL      string `json:"confluence-url"       mapstructure:"confluence-url"`
	ConfluenceUsername string `json:"confluence-username"  mapstructure:"confluence-username"`
	ConfluenceAPIToken string `json:"confluence-api-token" mapstructure:"confluence-api-token"`
	ConfluenceSpaceKey string `json:"confluence-space-key" mapstructure:"confluence-space-key"`

	UserEmail       string `json:"user-email"        mapstructure:"user-email"`
	UserDisplayName string `json:"user-display-name" mapstructure:"user-display-name"`
}

func NewAtlassianOptions() *AtlassianOptions {
	return &AtlassianOptions{}
}

// Validate checks that every field required to reach Jira and Confluence is
// set. The env var name is reported so the message is actionable.
func (o *AtlassianOptions) Validate() []error {
	var errs []error
	required := []struct {
		value  string
		envKey string
	}{
		{o.JiraURL, "JIRA_URL"},
		{o.JiraUsername, "JIRA_USERNAME"},
		{o.JiraAPIToken, "JIRA_API_TOKEN"},
		{o.ConfluenceURL, "CONFLUENCE_URL"},
		{o.ConfluenceUsername, "CONFLUENCE_USERNAME"},
		{o.ConfluenceAPIToken, "CONFLUENCE_API_TOKEN"},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.envKey))
		}
	}
	return errs
}

// Complete normalizes URLs so clients can append REST paths directly.
func (o *AtlassianOptions) Complete() {
	o.JiraURL = strings.TrimRight(o.JiraURL, "/")
	o.ConfluenceURL = strings.TrimRight(o.ConfluenceURL, "/")
	if o.UserEmail == "" {
		o.UserEmail = o.JiraUsername
	}
}

// Override applies set fields from fl on top of the receiver. Used to layer
// flag values over the environment.
func (o *AtlassianOptions) Override(fl *AtlassianOptions) {
	if fl.JiraURL != "" {
		o.JiraURL = fl.JiraURL
	}
	if fl.ConfluenceURL != "" {
		o.ConfluenceURL = fl.ConfluenceURL
	}
	if fl.ConfluenceSpaceKey != "" {
		o.ConfluenceSpaceKey = fl.ConfluenceSpaceKey
	}
	if fl.UserEmail != "" {
		o.UserEmail = fl.UserEmail
	}
}

func (o *AtlassianOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.JiraURL, "jira.url", o.JiraURL, "Base URL of the Jira instance.")
	fs.StringVar(&o.ConfluenceURL, "confluence.url", o.ConfluenceURL, "Base URL of the Confluence instance.")
	fs.StringVar(&o.ConfluenceSpaceKey, "confluence.space-key", o.ConfluenceSpaceKey, "Default Confluence space key.")
	fs.StringVar(&o.UserEmail, "user.email", o.UserEmail, "Email used for assignee-scoped JQL queries.")
}
