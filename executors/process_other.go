//go:build !unix

package executors

import "os/exec"

func setProcessGroup(cmd *exec.Cmd) {}
