package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/csheth/srcscout/internal/analysis"
	"github.com/csheth/srcscout/internal/tui"
)

func main() {
	apiURL := flag.String("api-url", "", "analysis service base URL (default $SRCSCOUT_API_URL or "+analysis.DefaultBaseURL+")")
	dir := flag.String("dir", "", "preselect every file under this directory")
	question := flag.String("question", "", "prefill the question composer")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	logPath := flag.String("log", "", "write debug logs to this file")
	flag.Parse()

	if *logPath != "" {
		logFile, err := tea.LogToFile(*logPath, "srcscout")
		if err != nil {
			fmt.Println("failed to open log file:", err)
			os.Exit(1)
		}
		defer logFile.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	if err := godotenv.Load(); err == nil {
		log.Println("[config] loaded .env file from current directory")
	} else {
		log.Printf("[config] .env file not loaded: %v", err)
	}

	analyzer, err := analysis.NewFromEnv(analysis.Config{BaseURL: *apiURL})
	if err != nil {
		fmt.Println("invalid analysis endpoint:", err)
		os.Exit(1)
	}
	log.Printf("[config] analysis endpoint %s", analyzer.Endpoint())

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Analyzer:    analyzer,
			InitialPath: *dir,
			Question:    *question,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}
