package main

import (
	"os"

	"github.com/Zhuoli/leverage-agent/internal/atlassianmcp"
)

func main() {
	command := atlassianmcp.NewApp("atlassian-mcp")
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
