// Package backup implements Backup/restore (spec.md section 6): a
// compact binary snapshot of the AgentStore, diffusion grids, step
// counter and RNG state, written atomically the way
// original_source/src/simulation_backup.h writes a temp file and
// renames it over the target so a crash mid-backup never corrupts the
// last good one.
package backup

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"simcore/agent"
	"simcore/diffusion"
	"simcore/logx"
	"simcore/rng"
	"simcore/store"
	"simcore/uid"
)

// Save msgpack-encodes snap and writes it to file via a temp-file-then-
// rename so a crash mid-write cannot corrupt an existing backup
// (original_source's SimulationBackup::Backup). It also writes a
// human-readable RuntimeVariables sidecar alongside the binary
// snapshot, at file + ".runtime.yaml".
func Save(file string, snap *Snapshot) error {
	if file == "" {
		return fmt.Errorf("backup: no backup file configured")
	}

	data, err := msgpack.Marshal(snap)
	if err != nil {
		return fmt.Errorf("backup: encode: %w", err)
	}

	dir := filepath.Dir(file)
	tmp := filepath.Join(dir, "tmp_"+filepath.Base(file))
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("backup: write temp file: %w", err)
	}
	if err := os.Rename(tmp, file); err != nil {
		return fmt.Errorf("backup: rename into place: %w", err)
	}

	rv, err := yaml.Marshal(snap.Runtime)
	if err == nil {
		_ = os.WriteFile(file+".runtime.yaml", rv, 0o644)
	}

	return nil
}

// Load reads and decodes a Snapshot previously written by Save.
func Load(file string) (*Snapshot, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("backup: read %s: %w", file, err)
	}
	var snap Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("backup: decode %s: %w", file, err)
	}
	return &snap, nil
}

// Apply replaces st's and diff's live state with snap's (spec.md
// section 4.4, "Restore"). RuntimeVariables mismatches are warnings,
// never fatal (spec.md section 7); a restore file with a different
// number of RNG streams than the running pool is accepted with a
// warning, restoring the streams in common and leaving the rest to be
// freshly seeded on first use.
func Apply(snap *Snapshot, st *store.Store, diff *diffusion.Manager, pool *rng.Pool) {
	current := CurrentRuntimeVariables()
	if !current.Matches(snap.Runtime) {
		logx.Recoverable("backup", "restoring a simulation backed up on a different system (was %s/%s, now %s/%s)",
			snap.Runtime.OS, snap.Runtime.Arch, current.OS, current.Arch)
	}

	st.Clear()
	for _, rec := range snap.Cells {
		c := agent.NewCell(rec.Position, rec.Diameter)
		c.Mass = rec.Mass
		c.Adherence = rec.Adherence
		c.Volume = rec.Volume
		c.TractorForce = rec.TractorForce
		c.RunDisplacement = rec.RunDisplacement
		st.PushCellWithUid(c, uid.Uid(rec.Uid))
	}

	if diff != nil {
		for _, rec := range snap.Grids {
			g := diff.Get(rec.ID)
			if g == nil {
				logx.LogicError("backup", "restore references unknown substance id %d (%s)", rec.ID, rec.Name)
				continue
			}
			g.RestoreLayout(rec.Edge, rec.Min, rec.Nx, rec.Ny, rec.Nz, rec.Concentration)
		}
	}

	if pool != nil {
		if got, want := len(snap.RNG), len(pool.Snapshot()); got != want && want != 0 {
			logx.Recoverable("backup", "restore file has %d RNG streams, running pool has %d; restoring streams in common", got, want)
		}
		pool.Restore(snap.RNG)
	}
}
