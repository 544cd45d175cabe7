// A small maintenance tool for inspecting the bot's storage without running
// the bot itself.
package main

import (
	"fmt"
	"os"

	"bottemplate/internal/config"
	"bottemplate/internal/storage"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: cli <command> [args]

Commands:
  keys                  list stored keys
  history <guild-id>    print a guild's command history
  wipe <guild-id>       clear a guild's command history
`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.New()
	if err != nil {
		fatal(err)
	}
	kv, err := storage.Open(cfg.StorageDriver, cfg.StoragePath)
	if err != nil {
		fatal(err)
	}
	defer kv.Close()
	store := storage.New(kv)

	switch os.Args[1] {
	case "keys":
		keys, err := kv.Keys()
		if err != nil {
			fatal(err)
		}
		for _, k := range keys {
			fmt.Println(k)
		}
	case "history":
		if len(os.Args) < 3 {
			usage()
		}
		records, err := store.CommandHistory(os.Args[2])
		if err != nil {
			fatal(err)
		}
		for _, r := range records {
			fmt.Printf("%s  /%s  %s (%s)  #%s\n",
				r.Datetime.Format("2006-01-02 15:04:05"), r.Command, r.Username, r.UserID, r.ChannelName)
		}
	case "wipe":
		if len(os.Args) < 3 {
			usage()
		}
		if err := store.ClearCommandHistory(os.Args[2]); err != nil {
			fatal(err)
		}
		fmt.Println("history cleared for guild", os.Args[2])
	default:
		usage()
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
