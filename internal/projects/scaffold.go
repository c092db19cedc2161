package projects

import "sort"

// The three scaffold files every project starts with. They are consulted
// uniformly by the seed logic, the delete guard in the shell, and the
// file tree ordering, so the set lives here and nowhere else.
const (
	AppFile    = "/App.js"
	EntryFile  = "/index.js"
	StylesFile = "/styles.css"

	// DefaultActiveFile is the file the editor opens on after a project load.
	DefaultActiveFile = AppFile
)

const appScaffold = `import React from "react";
import "./styles.css";

export default function App() {
  return (
    <div className="App">
      <h1>Hello, Welcome to CipherStudio!</h1>
      <h2>Your personal React sandbox.</h2>
    </div>
  );
}`

const entryScaffold = `import React from "react";
import { createRoot } from "react-dom/client";
import App from "./App";

const rootElement = document.getElementById("root");
const root = createRoot(rootElement);

root.render(
  <React.StrictMode>
    <App />
  </React.StrictMode>
);`

const stylesScaffold = `body {
  font-family: sans-serif;
}

.App {
  text-align: center;
  background-color: #f0f0f0;
  padding: 20px;
  border-radius: 8px;
}`

var scaffoldOrder = []string{AppFile, EntryFile, StylesFile}

// DefaultFiles returns a fresh copy of the scaffold file set.
func DefaultFiles() map[string]string {
	return map[string]string{
		AppFile:    appScaffold,
		EntryFile:  entryScaffold,
		StylesFile: stylesScaffold,
	}
}

// IsScaffoldPath reports whether p is one of the three default files.
func IsScaffoldPath(p string) bool {
	return p == AppFile || p == EntryFile || p == StylesFile
}

// SortedPaths lists the file set with scaffold files first (in their fixed
// order), then everything else sorted. Go maps carry no insertion order, so
// this is what keeps the file tree stable across renders.
func SortedPaths(files map[string]string) []string {
	out := make([]string, 0, len(files))
	for _, p := range scaffoldOrder {
		if _, ok := files[p]; ok {
			out = append(out, p)
		}
	}
	rest := make([]string, 0, len(files))
	for p := range files {
		if !IsScaffoldPath(p) {
			rest = append(rest, p)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
