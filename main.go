package main

import (
	"flag"
	"fmt"
	"os"

	"ec2tui/pkg/aws"
	"ec2tui/pkg/cmd"
	"ec2tui/pkg/config"
	"ec2tui/pkg/history"
	"ec2tui/pkg/logging"
	"ec2tui/pkg/ui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	logging.LogDebug("Logger test: main started")

	// Parse command line arguments
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "history":
			cmd.HandleHistoryCommand()
			return
		case "help", "-h", "--help":
			cmd.ShowMainHelpAndExit()
		}
	}

	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	profile := flags.String("profile", aws.DefaultProfile, "AWS profile to use")
	region := flags.String("region", aws.DefaultRegion, "AWS region to use")
	portsConfig := flags.String("ports-config", config.DefaultPortsFilePath, "Path to the port presets YAML file")
	historyFile := flags.String("history-file", history.DefaultPath, "Path to the port-forward history database")
	flags.Usage = cmd.HandleHelpCommand
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Printf("Error parsing arguments: %v\n", err)
		os.Exit(1)
	}

	// Default behavior - start TUI
	model, err := ui.NewModel(ui.Options{
		Profile:     *profile,
		Region:      *region,
		PortsConfig: *portsConfig,
		HistoryFile: *historyFile,
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer model.Cleanup()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
