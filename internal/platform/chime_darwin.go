package platform

import "os/exec"

func lookPlayer() []string {
	path, err := exec.LookPath("afplay")
	if err != nil {
		return nil
	}
	return []string{path}
}
