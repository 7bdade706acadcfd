package cmd

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"ec2tui/pkg/history"
)

// HandleHistoryCommand handles the history subcommand logic
func HandleHistoryCommand() {
	// Check for help flag in history subcommand
	if len(os.Args) > 2 {
		for _, arg := range os.Args[2:] {
			if arg == "-h" || arg == "--help" {
				showHistoryHelp()
				os.Exit(0)
			}
		}
	}

	historyCmd := flag.NewFlagSet("history", flag.ExitOnError)
	historyFile := historyCmd.String("history-file", history.DefaultPath, "Path to the port-forward history database")
	instanceID := historyCmd.String("instance", "", "Only show records for this instance ID")
	activeOnly := historyCmd.Bool("active", false, "Only show records with a live status")
	showCommand := historyCmd.Bool("command", false, "Include the full session command per record")

	historyCmd.Usage = showHistoryHelp

	if err := historyCmd.Parse(os.Args[2:]); err != nil {
		fmt.Printf("Error parsing arguments: %v\n", err)
		os.Exit(1)
	}

	store, err := history.Open(*historyFile)
	if err != nil {
		fmt.Printf("Error opening history store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var records []history.Record
	if *instanceID != "" {
		records = store.ListForInstance(*instanceID)
	} else {
		records = store.ListAll()
	}
	if *activeOnly {
		filtered := records[:0]
		for _, rec := range records {
			if rec.Status.Active() {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	if len(records) == 0 {
		fmt.Println("No port-forward records found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FORWARD\tINSTANCE\tLOCAL\tREMOTE\tSTATUS\tSTARTED\tENDED\tNOTE")
	for _, rec := range records {
		ended := "-"
		if rec.EndedAt != nil {
			ended = rec.EndedAt.Format("2006-01-02 15:04:05")
		}
		instance := rec.InstanceID
		if rec.InstanceName != "" {
			instance = fmt.Sprintf("%s (%s)", rec.InstanceName, rec.InstanceID)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
			rec.ForwardName, instance, rec.LocalPort, rec.RemotePort,
			rec.Status, rec.StartedAt.Format("2006-01-02 15:04:05"), ended,
			strings.ReplaceAll(rec.Note, "\t", " "))
		if *showCommand && rec.Command != "" {
			fmt.Fprintf(w, "\t%s\t\t\t\t\t\t\n", rec.Command)
		}
	}
	w.Flush()
	fmt.Printf("\n%d record(s).\n", len(records))
}

// showHistoryHelp displays help for the history subcommand
func showHistoryHelp() {
	programName := os.Args[0]
	fmt.Fprintf(os.Stderr, "Usage: %s history [options]\n\n", programName)
	fmt.Fprintf(os.Stderr, "List recorded port-forward sessions from the history database.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	fmt.Fprintf(os.Stderr, "  -history-file string  Path to the history database (default %q)\n", history.DefaultPath)
	fmt.Fprintf(os.Stderr, "  -instance string      Only show records for this instance ID\n")
	fmt.Fprintf(os.Stderr, "  -active               Only show records with a live status\n")
	fmt.Fprintf(os.Stderr, "  -command              Include the full session command per record\n")
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  %s history\n", programName)
	fmt.Fprintf(os.Stderr, "  %s history -instance i-0abc123 -active\n", programName)
	fmt.Fprintf(os.Stderr, "  %s history -history-file ~/.ec2tui/history.db -command\n", programName)
}
