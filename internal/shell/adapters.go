package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/chzyer/readline"

	"github.com/cipherstudio/studio/internal/client"
)

// apiAdapter narrows the HTTP client to the editor's API surface.
type apiAdapter struct {
	c *client.Client
}

func (a apiAdapter) CreateProject(ctx context.Context, userID string) (string, error) {
	return a.c.CreateProject(ctx, userID)
}

func (a apiAdapter) GetProject(ctx context.Context, id string) (map[string]string, error) {
	p, err := a.c.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.Files, nil
}

func (a apiAdapter) SaveProject(ctx context.Context, id string, files map[string]string) error {
	return a.c.SaveProject(ctx, id, files)
}

// terminalSandbox stands in for the live preview: it prints the file tree
// and the active file whenever the controller re-renders.
type terminalSandbox struct{}

func (terminalSandbox) Render(files map[string]string, entry, active string) {
	fmt.Printf("(preview) %d files, entry %s, editing %s\n", len(files), entry, active)
}

type readlineConfirmer struct {
	rl *readline.Instance
}

func (c *readlineConfirmer) Confirm(question string) bool {
	prompt := c.rl.Config.Prompt
	c.rl.SetPrompt(question + " [y/N] ")
	defer c.rl.SetPrompt(prompt)

	line, err := c.rl.Readline()
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
