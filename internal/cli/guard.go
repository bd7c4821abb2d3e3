package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ps "github.com/mitchellh/go-ps"
)

var (
	processesFunc  = ps.Processes
	getpidFunc     = os.Getpid
	executableFunc = os.Executable
)

// ensureSingleInstance refuses to open the session while another allocprep
// process is running. Storage providers do not support concurrent
// processes on one session path, so the long-lived commands (tui, watch)
// check the process table before touching the store.
func ensureSingleInstance() error {
	procs, err := processesFunc()
	if err != nil {
		// An unreadable process table must not block the tool.
		return nil
	}

	name := binaryName()
	self := getpidFunc()
	for _, p := range procs {
		if p.Pid() == self {
			continue
		}
		if strings.TrimSuffix(p.Executable(), ".exe") == name {
			return fmt.Errorf("another %s process is already running (PID %d); close it before opening the session", name, p.Pid())
		}
	}
	return nil
}

func binaryName() string {
	exe, err := executableFunc()
	if err != nil {
		return "allocprep"
	}
	return strings.TrimSuffix(filepath.Base(exe), ".exe")
}
