package report

import (
	"os"
	"path/filepath"
	"strings"
)

// Deliverer is the platform delivery primitive. The server ships a
// file-based implementation; the mobile clients substitute their native
// share sheet behind the same contract.
type Deliverer interface {
	Deliver(payload Payload, filename string) error
}

// FileDeliverer writes the CSV and its summary sidecar into Dir.
type FileDeliverer struct {
	Dir string
}

func (d FileDeliverer) Deliver(payload Payload, filename string) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return err
	}

	csvPath := filepath.Join(d.Dir, filepath.Base(filename))
	if err := os.WriteFile(csvPath, []byte(payload.CSV), 0o644); err != nil {
		return err
	}

	summaryPath := strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ".txt"
	return os.WriteFile(summaryPath, []byte(payload.Summary), 0o644)
}
