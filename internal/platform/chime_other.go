//go:build !linux && !darwin && !windows

package platform

func lookPlayer() []string {
	return nil
}
