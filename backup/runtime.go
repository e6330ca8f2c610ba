package backup

import (
	"runtime"

	"github.com/google/uuid"
)

// RuntimeVariables summarizes the system a backup was taken on
// (original_source/src/io_util.h's RuntimeVariables), compared — not
// enforced — on restore (spec.md section 6, section 7).
type RuntimeVariables struct {
	RunID   uuid.UUID `msgpack:"run_id" yaml:"run_id"`
	OS      string    `msgpack:"os" yaml:"os"`
	Arch    string    `msgpack:"arch" yaml:"arch"`
	NumCPU  int       `msgpack:"num_cpu" yaml:"num_cpu"`
	Version string    `msgpack:"go_version" yaml:"go_version"`
}

// CurrentRuntimeVariables captures the running process's system summary,
// stamped with a fresh run id.
func CurrentRuntimeVariables() RuntimeVariables {
	return RuntimeVariables{
		RunID:   uuid.New(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
		NumCPU:  runtime.NumCPU(),
		Version: runtime.Version(),
	}
}

// Matches reports whether other describes the same OS/arch/CPU count,
// mirroring original_source's RuntimeVariables::operator==; RunID and
// Go toolchain version are identifying metadata, not part of the
// restore-compatibility check.
func (rv RuntimeVariables) Matches(other RuntimeVariables) bool {
	return rv.OS == other.OS && rv.Arch == other.Arch && rv.NumCPU == other.NumCPU
}
