// ABOUTME: CLI tool to list active audio render endpoints with their ids.
// ABOUTME: Used to find device names for the sinkswitch "devices" config section.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/777genius/sinkswitch/internal/endpoint"
	"github.com/777genius/sinkswitch/internal/sink"
	"github.com/777genius/sinkswitch/internal/switcher"
)

type deviceEntry struct {
	sink.Sink
	Default bool `json:"default"`
}

func main() {
	jsonFlag := flag.Bool("json", false, "Print devices as JSON")
	flag.Parse()

	session, err := endpoint.Open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening audio endpoints: %v\n", err)
		os.Exit(1)
	}

	listing, def, err := switcher.New(session.Directory()).List()
	session.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing audio devices: %v\n", err)
		os.Exit(1)
	}

	entries := buildEntries(listing, def)
	if *jsonFlag {
		if err := writeJSON(os.Stdout, entries); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding devices: %v\n", err)
			os.Exit(1)
		}
		return
	}

	writeText(os.Stdout, entries)
}

func buildEntries(listing []sink.Sink, def sink.Sink) []deviceEntry {
	entries := make([]deviceEntry, 0, len(listing))
	for _, s := range listing {
		entries = append(entries, deviceEntry{Sink: s, Default: s.SameEndpoint(def)})
	}
	return entries
}

func writeJSON(w io.Writer, entries []deviceEntry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func writeText(w io.Writer, entries []deviceEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No active audio output devices found.")
		return
	}

	fmt.Fprintln(w, "Active audio output devices:")
	fmt.Fprintln(w)

	for i, dev := range entries {
		defaultMarker := ""
		if dev.Default {
			defaultMarker = " (default)"
		}
		fmt.Fprintf(w, "  %d: %s%s\n", i, dev.Name, defaultMarker)
		fmt.Fprintf(w, "     id: %s\n", dev.ID)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "To toggle between two of them, add to sinkswitch.json:")
	fmt.Fprintln(w, `  "devices": {"first": "NAME_PART_1", "second": "NAME_PART_2"}`)
}
