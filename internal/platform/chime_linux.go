package platform

import "os/exec"

func lookPlayer() []string {
	for _, candidate := range [][]string{
		{"paplay"},
		{"pw-play"},
		{"aplay", "-q"},
	} {
		if path, err := exec.LookPath(candidate[0]); err == nil {
			return append([]string{path}, candidate[1:]...)
		}
	}
	return nil
}
