package agent

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Zhuoli/leverage-agent/internal/agent/skills"
)

type stubProvider struct {
	replies  map[string]string
	messages []string
	closed   int
}

func (s *stubProvider) Chat(ctx context.Context, message string) string {
	s.messages = append(s.messages, message)
	if reply, ok := s.replies[message]; ok {
		return reply
	}
	return "ok"
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Close() error {
	s.closed++
	return nil
}

func TestSystemPrompt(t *testing.T) {
	prompt := SystemPrompt(nil)
	if !strings.Contains(prompt, "Jira and Confluence") {
		t.Errorf("prompt missing base instructions: %q", prompt[:80])
	}
	if strings.Contains(prompt, "## Skills") {
		t.Error("prompt should have no skills section when none are loaded")
	}

	withSkills := SystemPrompt([]skills.Skill{
		{Name: "jira-workflow", Content: "Always set story points."},
	})
	if !strings.HasPrefix(withSkills, prompt) {
		t.Error("skills must append after the base prompt")
	}
	if !strings.Contains(withSkills, "## Skills") || !strings.Contains(withSkills, "### jira-workflow") {
		t.Errorf("skills section missing: %q", withSkills[len(prompt):])
	}
}

func TestConvenienceWorkflowsPhraseChatTurns(t *testing.T) {
	stub := &stubProvider{}
	a := newAgent(stub)
	ctx := context.Background()

	a.SprintTasks(ctx)
	a.SearchDocs(ctx, "deployment runbook")
	a.AnalyzeWorkload(ctx)
	a.HighPriorityTasks(ctx)
	a.SearchIssues(ctx, `project = PROJ`)

	want := []string{
		"Show me my current sprint tasks",
		"Search Confluence for: deployment runbook",
		"Analyze my current workload and suggest priorities",
		"Show me my high priority tasks",
		"Search Jira with this JQL: project = PROJ",
	}
	if len(stub.messages) != len(want) {
		t.Fatalf("messages = %d, want %d", len(stub.messages), len(want))
	}
	for i := range want {
		if stub.messages[i] != want[i] {
			t.Errorf("message[%d] = %q, want %q", i, stub.messages[i], want[i])
		}
	}
}

func TestCloseReleasesProvider(t *testing.T) {
	stub := &stubProvider{}
	a := newAgent(stub)
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if stub.closed != 1 {
		t.Errorf("closed = %d, want 1", stub.closed)
	}
}

func TestInteractiveQuitCommands(t *testing.T) {
	for _, cmd := range []string{"quit", "exit", "q", "Q", "QUIT"} {
		stub := &stubProvider{}
		a := newAgent(stub)
		var out bytes.Buffer
		a.in = strings.NewReader(cmd + "\n")
		a.out = &out

		if err := a.Interactive(context.Background()); err != nil {
			t.Fatalf("Interactive(%q): %v", cmd, err)
		}
		if len(stub.messages) != 0 {
			t.Errorf("%q should quit without a chat turn, got %v", cmd, stub.messages)
		}
		if !strings.Contains(out.String(), "Goodbye!") {
			t.Errorf("%q: missing goodbye", cmd)
		}
	}
}

func TestInteractiveSkipsEmptyAndHelp(t *testing.T) {
	stub := &stubProvider{replies: map[string]string{"hello": "hi there"}}
	a := newAgent(stub)
	var out bytes.Buffer
	a.in = strings.NewReader("\n   \nhelp\nhello\nquit\n")
	a.out = &out

	if err := a.Interactive(context.Background()); err != nil {
		t.Fatalf("Interactive: %v", err)
	}
	if len(stub.messages) != 1 || stub.messages[0] != "hello" {
		t.Errorf("messages = %v, want only the real turn", stub.messages)
	}
	if !strings.Contains(out.String(), "JIRA QUERIES") {
		t.Error("help output missing")
	}
	if !strings.Contains(out.String(), "hi there") {
		t.Error("reply not printed")
	}
}

func TestInteractiveStopsOnCanceledContext(t *testing.T) {
	stub := &stubProvider{}
	a := newAgent(stub)
	var out bytes.Buffer
	a.in = strings.NewReader("hello after interrupt\nquit\n")
	a.out = &out

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := a.Interactive(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Interactive = %v, want context.Canceled", err)
	}
	if len(stub.messages) != 0 {
		t.Errorf("dispatched %d turn(s) after cancellation: %v", len(stub.messages), stub.messages)
	}
	if !strings.Contains(out.String(), "Provider: stub") {
		t.Error("banner missing provider name")
	}
	if !strings.Contains(out.String(), "Goodbye!") {
		t.Error("missing goodbye on cancellation")
	}
}

func TestInteractiveEndsOnEOF(t *testing.T) {
	stub := &stubProvider{}
	a := newAgent(stub)
	var out bytes.Buffer
	a.in = strings.NewReader("")
	a.out = &out

	if err := a.Interactive(context.Background()); err != nil {
		t.Fatalf("Interactive: %v", err)
	}
	if !strings.Contains(out.String(), "Goodbye!") {
		t.Error("missing goodbye on EOF")
	}
}
