// Package skills loads workflow knowledge documents that get folded into
// the agent's system prompt.
package skills

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Skill is one loaded knowledge document.
type Skill struct {
	// Name is the file name without the .md suffix.
	Name    string
	Content string
}

// Load reads every .md file directly under dir, sorted by file name. A
// missing directory is not an error: the agent simply runs without skills.
func Load(dir string) ([]Skill, error) {
	if dir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read skills directory %q: %w", dir, err)
	}

	var skills []Skill
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read skill %q: %w", entry.Name(), err)
		}
		skills = append(skills, Skill{
			Name:    strings.TrimSuffix(entry.Name(), ".md"),
			Content: strings.TrimSpace(string(data)),
		})
	}

	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })
	return skills, nil
}

// Render formats loaded skills as a prompt section. Empty input renders to
// an empty string.
func Render(skills []Skill) string {
	if len(skills) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("## Skills\n")
	for _, s := range skills {
		fmt.Fprintf(&b, "\n### %s\n\n%s\n", s.Name, s.Content)
	}
	return b.String()
}
