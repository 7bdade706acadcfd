package cmd

import (
	"fmt"
	"os"
)

// HandleHelpCommand displays help information for the application
func HandleHelpCommand() {
	showMainHelp()
}

// showMainHelp displays the main application help
func showMainHelp() {
	programName := os.Args[0]
	fmt.Printf(`ec2tui - EC2 Port Forward Manager

A terminal-based UI application for browsing EC2 instances and managing
SSM port-forwarding sessions with a durable session history.

Usage:
  %s [command] [options]

Available Commands:
  history  List recorded port-forward sessions
  help     Show help information

Options:
  -profile string       AWS profile to use (default "default")
  -region string        AWS region to use (default "us-west-1")
  -ports-config string  Path to the port presets YAML file
  -history-file string  Path to the port-forward history database
  -h, --help            Show help information

Interactive Mode:
  Run without any command to start the interactive TUI where you can:
  - Browse EC2 instances and press Enter for per-instance details
  - Press 'c' to open an interactive SSM shell session on an instance
  - Press 'p' (or 'a' in details) to start a new port forward
  - Press 'x' to stop an active forward, 's' to restart one from history
  - Press 'y' to copy the SSM session command for an instance
  - Use Ctrl+P in the add form to cycle through port presets

Examples:
  %s                                Start interactive TUI
  %s -profile prod -region eu-west-1
  %s history -instance i-0abc123    Show history for one instance

For more information about a specific command, use:
  %s <command> --help
`, programName, programName, programName, programName, programName)
}

// ShowMainHelpAndExit displays help and exits with code 0
func ShowMainHelpAndExit() {
	showMainHelp()
	os.Exit(0)
}
