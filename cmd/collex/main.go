// Command collex is a small demo CLI: it reads a flat JSON array of
// records from stdin (or a sample dataset, with --sample), groups and sorts
// them per the flags given, and renders the resulting slot tree to stdout.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/starkandwayne/goutils/ansi"
	"github.com/voxelbrain/goptions"

	"github.com/wayneeseguin/collex"
	"github.com/wayneeseguin/collex/internal/config"
	"github.com/wayneeseguin/collex/internal/logging"
)

var exit = func(code int) { os.Exit(code) }

var getopts = func(o interface{}) {
	if err := goptions.Parse(o); err != nil {
		goptions.PrintHelp()
		exit(1)
	}
}

type options struct {
	ConfigPath    string `goptions:"--config, description='Path to a collex.yaml config file'"`
	GroupBy       string `goptions:"--group-by, description='Field to group records by (e.g. status)'"`
	SortBy        string `goptions:"--sort-by, description='Field to sort records by (e.g. name)'"`
	Sample        bool   `goptions:"--sample, description='Use a small built-in sample dataset instead of stdin'"`
	CollapseLevel int    `goptions:"--collapse-to-level, description='Collapse groups at or past this tree level (top-level groups are level 1)'"`
	NoColor       bool   `goptions:"--no-color, description='Disable ansi colored output'"`
	Help          bool   `goptions:"--help, -h"`
}

type record map[string]interface{}

func recordKey(r record) string {
	if id, ok := r["id"].(string); ok {
		return id
	}
	return fmt.Sprintf("%v", r["id"])
}

func sampleRecords() []record {
	return []record{
		{"id": "1", "name": "alpha", "status": "open"},
		{"id": "2", "name": "bravo", "status": "open"},
		{"id": "3", "name": "charlie", "status": "closed"},
		{"id": "4", "name": "delta", "status": "blocked"},
	}
}

func main() {
	opts := options{CollapseLevel: -1}
	getopts(&opts)
	if opts.Help {
		goptions.PrintHelp()
		return
	}

	cfg := config.DefaultConfig()
	if opts.ConfigPath != "" {
		mgr := config.NewManager()
		if err := mgr.Load(opts.ConfigPath); err != nil {
			fmt.Fprintln(os.Stderr, ansi.Sprintf("@R{failed to load config}: %s", err))
			exit(1)
		}
		cfg = mgr.Get()
	}

	useColor := !opts.NoColor && cfg.Logging.EnableColor && isatty.IsTerminal(os.Stdout.Fd())
	logger := logging.New(logging.ParseLevel(cfg.Logging.Level), useColor)

	records, err := loadRecords(opts)
	if err != nil {
		logger.Error("loading records: %s", err)
		exit(1)
	}

	controller := collex.NewCollectionController[record, string](recordKey)

	if opts.SortBy != "" {
		sm := collex.NewSortManager[record]()
		sm.Add(collex.AsSortOption(collex.NewSortOption[record, string]("sort", func(r record) (string, bool) {
			v, ok := r[opts.SortBy].(string)
			return v, ok
		}, func(a, b string) bool { return a < b })))
		controller.UseSort(sm)
	}

	if opts.GroupBy != "" {
		gm := collex.NewGroupManager[record]()
		gm.Add(collex.AsGroupOption(collex.NewSingleGroupOption[record, string]("group", 0, func(r record) (string, bool) {
			v, ok := r[opts.GroupBy].(string)
			if !ok || v == "" {
				return "", false
			}
			return v, true
		})), false)
		controller.UseGroup(gm)
	}

	if err := controller.AddAll(records); err != nil {
		logger.Error("building collection: %s", err)
		exit(1)
	}

	slots := collex.NewSlotManager(controller)
	if opts.CollapseLevel >= 0 {
		slots.CollapseToLevel(opts.CollapseLevel)
	}

	render(os.Stdout, slots, useColor)
	logger.Info("rendered %d slot(s) from %d record(s)", slots.TotalSlots(), len(records))
}

func loadRecords(opts options) ([]record, error) {
	if opts.Sample {
		return sampleRecords(), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, err
	}
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func render(w io.Writer, slots *collex.SlotManager[record, string], color bool) {
	for i := 0; i < slots.TotalSlots(); i++ {
		slot, ok := slots.GetSlot(i)
		if !ok {
			continue
		}
		indent := strings.Repeat("  ", slot.Depth)
		if slot.Kind == collex.SlotGroupHeader {
			line := fmt.Sprintf("%s%s (%d/%d)", indent, slot.Label, slot.ItemCount, slot.TotalCount)
			if color {
				line = ansi.Sprintf("%s@c{%s} @y{(%d/%d)}", indent, slot.Label, slot.ItemCount, slot.TotalCount)
			}
			fmt.Fprintln(w, line)
			continue
		}
		fmt.Fprintf(w, "%s- %s\n", indent, describeRecord(slot.Item))
	}
}

func describeRecord(r record) string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, r[k]))
	}
	return strings.Join(parts, " ")
}
