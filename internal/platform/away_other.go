//go:build !linux && !darwin && !windows

package platform

import "time"

type awayProvider struct{}

func newAwayProvider() AwayProvider {
	return awayProvider{}
}

func (awayProvider) IdleDuration() (time.Duration, error) {
	return 0, ErrAwayUnsupported
}
