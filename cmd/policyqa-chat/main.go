package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"policyqa/internal/client"
	"policyqa/internal/tui"
)

func main() {
	serverURL := flag.String("server", "http://localhost:5000", "Base URL of the policyqa server")
	flag.Parse()

	api := client.New(*serverURL)

	status := "Connected. Type a question to begin."
	if paths := flag.Args(); len(paths) > 0 {
		path := paths[0]
		chunks, err := api.Upload(path)
		if err != nil {
			log.Fatalf("upload failed: %v", err)
		}
		status = fmt.Sprintf("Indexed %s: %d chunks", filepath.Base(path), chunks)
	}

	m := tui.New(api, status)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
