package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/td0m/chorelist/pkg/persist"
)

var (
	filePath   = flag.String("file", "./chores.json", "Path to chore file")
	exportPath = flag.String("export", "", "Write a backup to the given path and exit")
	mergePath  = flag.String("merge", "", "Merge a backup into the chore file and exit")
	importPath = flag.String("import", "", "Replace the chore file with a backup and exit")
)

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	flag.Parse()

	repo, err := persist.Open(*filePath)
	check(err)
	defer repo.Close()

	switch {
	case *exportPath != "":
		check(repo.Export(*exportPath))
		return
	case *mergePath != "":
		if err := repo.ImportMerge(*mergePath); err != nil {
			fmt.Fprintln(os.Stderr, "merge failed:", err)
			os.Exit(1)
		}
		return
	case *importPath != "":
		if err := repo.ImportReplace(*importPath); err != nil {
			fmt.Fprintln(os.Stderr, "import failed:", err)
			os.Exit(1)
		}
		return
	}

	a := newApp(repo)
	p := tea.NewProgram(a)

	// enable full terminal mode
	p.EnterAltScreen()
	defer p.ExitAltScreen()

	// enable mouse (for scrolling)
	p.EnableMouseAllMotion()
	defer p.DisableMouseAllMotion()

	check(p.Start())
}
