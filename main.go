package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/kobo2notion/internal/cli"
)

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: kobo2notion [command] [options]\n\n")
	fmt.Fprintf(os.Stderr, "Sync Kobo e-reader annotations to Notion.\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  sync      Run one sync pass (default)\n")
	fmt.Fprintf(os.Stderr, "  status    Show the outcome of the last sync\n")
	fmt.Fprintf(os.Stderr, "  schedule  Run syncs on a cron schedule\n\n")
	fmt.Fprintf(os.Stderr, "Run 'kobo2notion <command> -h' for command options.\n")
}

func main() {
	command := "sync"
	args := os.Args[1:]
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}

	var err error
	switch command {
	case "sync":
		cmd := &cli.SyncCommand{}
		if err = cmd.ParseFlags(args); err == nil {
			err = cmd.Run()
		}
	case "status":
		cmd := &cli.StatusCommand{}
		if err = cmd.ParseFlags(args); err == nil {
			err = cmd.Run()
		}
	case "schedule":
		cmd := &cli.ScheduleCommand{}
		if err = cmd.ParseFlags(args); err == nil {
			err = cmd.Run()
		}
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
