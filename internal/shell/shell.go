// Package shell is the terminal application shell: login, register, and
// editor views over a readline loop.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	"github.com/cipherstudio/studio/internal/client"
	"github.com/cipherstudio/studio/internal/editor"
	"github.com/cipherstudio/studio/internal/projects"
	"github.com/cipherstudio/studio/internal/session"
)

type view int

const (
	viewLogin view = iota
	viewRegister
	viewEditor
	viewQuit
)

type Shell struct {
	rl    *readline.Instance
	store *session.Store
	api   *client.Client
	log   *zap.Logger
}

func New(store *session.Store, api *client.Client, log *zap.Logger) (*Shell, error) {
	if log == nil {
		log = zap.NewNop()
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("init readline: %w", err)
	}
	return &Shell{rl: rl, store: store, api: api, log: log}, nil
}

func (s *Shell) Close() error {
	return s.rl.Close()
}

// Run drives the view loop. A stored current user skips straight to the
// editor, like the browser app resuming a session.
func (s *Shell) Run() error {
	fmt.Println("CipherStudio — your personal React sandbox")

	v := viewLogin
	if s.store.CurrentUser() != "" {
		v = viewEditor
	}

	for v != viewQuit {
		var err error
		switch v {
		case viewLogin:
			v, err = s.loginView()
		case viewRegister:
			v, err = s.registerView()
		case viewEditor:
			v, err = s.editorView()
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				break
			}
			return err
		}
	}

	fmt.Println("Goodbye!")
	return nil
}

func (s *Shell) loginView() (view, error) {
	fmt.Println("\nLog in ('register' for a new account, 'exit' to quit)")

	s.rl.SetPrompt("Email: ")
	email, err := s.rl.Readline()
	if err != nil {
		return viewQuit, err
	}
	switch strings.TrimSpace(email) {
	case "exit", "quit":
		return viewQuit, nil
	case "register":
		return viewRegister, nil
	case "":
		return viewLogin, nil
	}

	password, err := s.rl.ReadPassword("Password: ")
	if err != nil {
		return viewQuit, err
	}

	email = strings.TrimSpace(email)
	if !s.store.Authenticate(email, string(password)) {
		fmt.Println("Invalid credentials. Please try again or register.")
		return viewLogin, nil
	}
	if err := s.store.SetCurrentUser(email); err != nil {
		return viewQuit, err
	}
	return viewEditor, nil
}

func (s *Shell) registerView() (view, error) {
	fmt.Println("\nCreate account ('back' to return)")

	s.rl.SetPrompt("Email: ")
	email, err := s.rl.Readline()
	if err != nil {
		return viewQuit, err
	}
	email = strings.TrimSpace(email)
	if email == "back" || email == "" {
		return viewLogin, nil
	}

	password, err := s.rl.ReadPassword("Password: ")
	if err != nil {
		return viewQuit, err
	}

	if err := s.store.Register(email, string(password)); err != nil {
		fmt.Println(capitalizeError(err))
		return viewLogin, nil
	}

	// Like the browser app, a fresh registration logs straight in.
	fmt.Println("Registration successful! You are now logged in.")
	if err := s.store.SetCurrentUser(email); err != nil {
		return viewQuit, err
	}
	return viewEditor, nil
}

func (s *Shell) editorView() (view, error) {
	user := s.store.CurrentUser()
	fmt.Printf("\nWelcome, %s\n", user)

	ctrl := editor.New(editor.Config{
		User:     user,
		API:      apiAdapter{s.api},
		Sessions: s.store,
		Sandbox:  &terminalSandbox{},
		Confirm:  &readlineConfirmer{rl: s.rl},
		OnStatus: func(status string) { fmt.Printf("[%s]\n", status) },
		Log:      s.log,
	})

	ctx := context.Background()
	if err := ctrl.Init(ctx); err != nil {
		fmt.Println("Could not open a project. Fix the backend and run 'logout' or 'exit'.")
	} else {
		fmt.Printf("Project ID: %s — type 'help' for commands\n", ctrl.ProjectID())
	}

	s.rl.SetPrompt("studio> ")
	for {
		line, err := s.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			return viewQuit, err
		}

		cmd, arg := splitCommand(line)
		switch cmd {
		case "":
		case "help":
			printHelp()
		case "files", "ls":
			printTree(ctrl)
		case "open":
			if err := ctrl.SetActiveFile(normalizePath(arg)); err != nil {
				fmt.Println(capitalizeError(err))
			}
		case "cat":
			s.catFile(ctrl, arg)
		case "edit":
			s.editFile(ctrl, arg)
		case "new":
			if err := ctrl.CreateFile(arg); err != nil {
				fmt.Println("Please enter a valid file name (e.g., 'Component.js'):", err)
			}
		case "rm":
			s.removeFile(ctrl, arg)
		case "save":
			if err := ctrl.Save(context.Background()); err != nil {
				s.log.Warn("save failed", zap.Error(err))
			}
		case "status":
			fmt.Printf("Status: %s  Project ID: %s\n", ctrl.Status(), ctrl.ProjectID())
		case "logout":
			if err := s.store.ClearCurrentUser(); err != nil {
				return viewQuit, err
			}
			return viewLogin, nil
		case "exit", "quit":
			return viewQuit, nil
		default:
			fmt.Printf("Unknown command %q — type 'help'\n", cmd)
		}
	}
}

func (s *Shell) catFile(ctrl *editor.Controller, arg string) {
	path := normalizePath(arg)
	if path == "" {
		path = ctrl.ActiveFile()
	}
	files := ctrl.Files()
	content, ok := files[path]
	if !ok {
		fmt.Printf("No such file: %s\n", path)
		return
	}
	fmt.Printf("--- %s ---\n%s\n", path, content)
}

// editFile reads replacement content for one file, terminated by a lone
// "." line, and feeds the updated set back through the controller — the
// same path the sandbox widget's onChange callback takes.
func (s *Shell) editFile(ctrl *editor.Controller, arg string) {
	path := normalizePath(arg)
	if path == "" {
		path = ctrl.ActiveFile()
	}
	files := ctrl.Files()
	if _, ok := files[path]; !ok {
		fmt.Printf("No such file: %s\n", path)
		return
	}

	fmt.Printf("Enter new content for %s, end with a single '.' line:\n", path)
	var lines []string
	s.rl.SetPrompt("")
	for {
		line, err := s.rl.Readline()
		if err != nil {
			break
		}
		if line == "." {
			break
		}
		lines = append(lines, line)
	}
	s.rl.SetPrompt("studio> ")

	files[path] = strings.Join(lines, "\n")
	if err := ctrl.SetFiles(files); err != nil {
		fmt.Println(capitalizeError(err))
		return
	}
	fmt.Printf("%s updated (unsaved — run 'save')\n", path)
}

func (s *Shell) removeFile(ctrl *editor.Controller, arg string) {
	path := normalizePath(arg)
	if projects.IsScaffoldPath(path) {
		fmt.Println("Scaffold files cannot be deleted.")
		return
	}
	if err := ctrl.DeleteFile(path); err != nil {
		fmt.Println(capitalizeError(err))
	}
}

func printTree(ctrl *editor.Controller) {
	active := ctrl.ActiveFile()
	for _, p := range ctrl.FileTree() {
		marker := "  "
		if p == active {
			marker = "* "
		}
		fmt.Println(marker + p)
	}
}

func printHelp() {
	fmt.Print(`Commands:
  files            list files (* marks the active file)
  open <file>      switch the active file
  cat [file]       print a file
  edit [file]      replace a file's content (end with a '.' line)
  new <name>       create a file (e.g. Component.js)
  rm <file>        delete a file (asks for confirmation)
  save             save the project to the server
  status           show controller status and project id
  logout           log out and return to the login view
  exit             quit
`)
}

func splitCommand(line string) (cmd, arg string) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func normalizePath(arg string) string {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return ""
	}
	if !strings.HasPrefix(arg, "/") {
		arg = "/" + arg
	}
	return arg
}

func capitalizeError(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
