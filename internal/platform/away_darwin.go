package platform

import "time"

type awayProvider struct{}

func newAwayProvider() AwayProvider {
	return &awayProvider{}
}

func (provider *awayProvider) IdleDuration() (time.Duration, error) {
	return 0, ErrAwayUnsupported
}
