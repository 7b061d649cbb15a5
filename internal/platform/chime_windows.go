package platform

import "os/exec"

func lookPlayer() []string {
	path, err := exec.LookPath("powershell")
	if err != nil {
		return nil
	}
	return []string{path, "-NoProfile", "-NonInteractive", "-Command",
		"(New-Object Media.SoundPlayer '" + chimeFilePlaceholder + "').PlaySync()"}
}
