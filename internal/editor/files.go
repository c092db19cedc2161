package editor

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/cipherstudio/studio/internal/projects"
)

var (
	ErrNotReady    = errors.New("editor is not ready")
	ErrBadFileName = errors.New("file name must contain an extension and no whitespace")
	ErrFileExists  = errors.New("a file with this name already exists")
	ErrNoSuchFile  = errors.New("no such file")
)

// CreateFile adds an in-memory file with placeholder content and makes it
// active. Nothing is persisted until the next Save.
func (c *Controller) CreateFile(path string) error {
	name := strings.TrimPrefix(path, "/")
	if name == "" || !strings.Contains(name, ".") || containsSpace(name) {
		return ErrBadFileName
	}
	p := "/" + name

	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotReady
	}
	if _, ok := c.files[p]; ok {
		c.mu.Unlock()
		return ErrFileExists
	}
	c.files[p] = fmt.Sprintf("// %s\n\n", name)
	c.active = p
	c.mu.Unlock()

	c.render()
	return nil
}

// DeleteFile removes a file after the Confirmer approves. Deleting the
// active file makes the default file active again. Any path can be
// deleted here; the shell simply never offers deletion for scaffold files.
func (c *Controller) DeleteFile(path string) error {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotReady
	}
	if _, ok := c.files[path]; !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNoSuchFile, path)
	}
	c.mu.Unlock()

	if !c.confirm.Confirm(fmt.Sprintf("Are you sure you want to delete %s?", path)) {
		return nil
	}

	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotReady
	}
	delete(c.files, path)
	if c.active == path {
		c.active = projects.DefaultActiveFile
	}
	c.mu.Unlock()

	c.render()
	return nil
}

// SetFiles is the sandbox's onChange sink: it replaces the in-memory file
// set with the edited one. The copy is dirty until the next Save.
func (c *Controller) SetFiles(files map[string]string) error {
	c.mu.Lock()
	if c.state != StateReady && c.state != StateSaving {
		c.mu.Unlock()
		return ErrNotReady
	}
	c.files = copyFiles(files)
	if _, ok := c.files[c.active]; !ok {
		c.active = projects.DefaultActiveFile
	}
	c.mu.Unlock()
	return nil
}

// SetActiveFile switches the open file.
func (c *Controller) SetActiveFile(path string) error {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotReady
	}
	if _, ok := c.files[path]; !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNoSuchFile, path)
	}
	c.active = path
	c.mu.Unlock()

	c.render()
	return nil
}

// Files returns a copy of the current in-memory file set.
func (c *Controller) Files() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyFiles(c.files)
}

func (c *Controller) ActiveFile() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// FileTree lists paths with scaffold files first, then the rest sorted.
func (c *Controller) FileTree() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return projects.SortedPaths(c.files)
}

func containsSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}
