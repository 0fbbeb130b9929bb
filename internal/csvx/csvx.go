// Package csvx contains the file-level CSV helpers shared by the credential
// and ledger stores: tolerant reads, append-one-row writes, and whole-file
// rewrites that go through a uniquely named temp file plus rename so a crash
// mid-write cannot leave a half-written file behind.
package csvx

import (
	"encoding/csv"
	"os"

	"github.com/google/uuid"
)

// ReadFile returns every record of the CSV at path, header included.
// Ragged rows are tolerated (FieldsPerRecord is disabled); the stores decide
// what to make of short rows. A missing file yields (nil, nil).
func ReadFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// AppendRow appends a single record to the CSV at path, creating the file if
// needed. Callers are responsible for the header being in place first.
func AppendRow(path string, record []string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(record); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// WriteFile replaces the CSV at path with the given records. The write lands
// in a temp file named with a fresh UUID and is renamed over the target, so
// readers observe either the old content or the new, never a torn file.
func WriteFile(path string, records [][]string) error {
	tmp := path + ".tmp." + uuid.NewString()

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	err = w.WriteAll(records)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
