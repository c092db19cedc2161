package editor

// Sandbox is the capability interface for the live-preview widget the
// editor embeds. The controller hands it the full file set to render and
// receives edited file sets back through Controller.SetFiles.
type Sandbox interface {
	Render(files map[string]string, entry, active string)
}

// Confirmer asks the user a yes/no question before destructive actions.
type Confirmer interface {
	Confirm(question string) bool
}

type nopSandbox struct{}

func (nopSandbox) Render(map[string]string, string, string) {}

type acceptAll struct{}

func (acceptAll) Confirm(string) bool { return true }
