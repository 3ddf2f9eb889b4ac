// Package trace serialises field snapshots for post-mortem debugging
// of a compile (SPEC_FULL.md §4.6/§4.2 FULL additions): a cbor-encoded
// dump of every cell and state, named deterministically from the
// source bytes so repeated compiles of identical input produce
// identical trace filenames.
package trace

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/latticec/wfc/pkgs/field"
)

// Snapshot is one recorded moment of a field's propagation, tagged
// with the iteration it was taken after.
type Snapshot struct {
	Iteration int                  `cbor:"iteration"`
	Cells     []field.CellSnapshot `cbor:"cells"`
}

// Encode cbor-serialises a sequence of snapshots (a full propagation
// trace) into a single deterministic byte stream — the concrete home
// for fxamacker/cbor/v2, chosen over JSON for a compact, canonical,
// self-describing binary trace format.
func Encode(snapshots []Snapshot) ([]byte, error) {
	opts := cbor.CanonicalEncOptions()
	mode, err := opts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("trace: building cbor encode mode: %w", err)
	}
	data, err := mode.Marshal(snapshots)
	if err != nil {
		return nil, fmt.Errorf("trace: encoding snapshots: %w", err)
	}
	return data, nil
}

// Decode reverses Encode, for tooling that inspects a saved trace.
func Decode(data []byte) ([]Snapshot, error) {
	var snapshots []Snapshot
	if err := cbor.Unmarshal(data, &snapshots); err != nil {
		return nil, fmt.Errorf("trace: decoding snapshots: %w", err)
	}
	return snapshots, nil
}

// Fingerprint derives a deterministic, non-cryptographic-use hash of
// the exact source bytes compiled, for naming trace/snapshot files so
// repeated compiles of the same input land on the same filename. This
// never influences parsing or collapse order — golang.org/x/crypto's
// blake2b is used here purely as a fast, well-distributed hash, not
// for any security property.
func Fingerprint(source []byte) string {
	sum := blake2b.Sum256(source)
	return fmt.Sprintf("%x", sum[:8])
}

// FileName builds the trace filename for a given source fingerprint.
func FileName(fingerprint string) string {
	return fmt.Sprintf("trace-%s.cbor", fingerprint)
}
