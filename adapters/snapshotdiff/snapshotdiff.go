// Package snapshotdiff renders a human-readable diff between two snapshot
// values (e.g. two PaginationSnapshot or GroupSnapshot captures taken at
// different times), reusing ytbx/dyff the same way a YAML diff subcommand
// compares two documents.
package snapshotdiff

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
	"gopkg.in/yaml.v3"
)

// Report pairs the rendered human report with whether any differences were
// found.
type Report struct {
	Text    string
	Changed bool
}

// Compare diffs before and after (any JSON-marshalable snapshot value) and
// returns a human-readable report.
func Compare(before, after interface{}) (Report, error) {
	beforeFile, err := writeTempYAML("before", before)
	if err != nil {
		return Report{}, err
	}
	defer os.Remove(beforeFile)

	afterFile, err := writeTempYAML("after", after)
	if err != nil {
		return Report{}, err
	}
	defer os.Remove(afterFile)

	from, to, err := ytbx.LoadFiles(beforeFile, afterFile)
	if err != nil {
		return Report{}, fmt.Errorf("snapshotdiff: loading snapshot documents: %s", err)
	}

	report, err := dyff.CompareInputFiles(from, to)
	if err != nil {
		return Report{}, fmt.Errorf("snapshotdiff: comparing snapshots: %s", err)
	}

	writer := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: false,
		NoTableStyle:      false,
		OmitHeader:        true,
	}

	var buf bytes.Buffer
	out := bufio.NewWriter(&buf)
	writer.WriteReport(out)
	out.Flush()

	return Report{Text: buf.String(), Changed: len(report.Diffs) > 0}, nil
}

func writeTempYAML(prefix string, v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("snapshotdiff: marshalling %s snapshot: %s", prefix, err)
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("snapshotdiff: unmarshalling %s snapshot: %s", prefix, err)
	}
	yamlBytes, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("snapshotdiff: rendering %s snapshot as YAML: %s", prefix, err)
	}

	f, err := os.CreateTemp("", "collex-"+prefix+"-*.yml")
	if err != nil {
		return "", fmt.Errorf("snapshotdiff: creating temp file: %s", err)
	}
	defer f.Close()
	if _, err := f.Write(yamlBytes); err != nil {
		return "", fmt.Errorf("snapshotdiff: writing temp file: %s", err)
	}
	return f.Name(), nil
}
