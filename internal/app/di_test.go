package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-pman/pman/internal/config"
)

func TestContainerLazyInitCachesInstances(t *testing.T) {
	c := NewContainer(&config.Config{LogLevel: "debug"})

	assert.Same(t, c.Logger(), c.Logger())
	assert.Same(t, c.Locks(), c.Locks())
	assert.Same(t, c.Registry(), c.Registry())
}

func TestContainerConfigReturnsWhatWasPassedIn(t *testing.T) {
	cfg := &config.Config{LogLevel: "warn"}
	c := NewContainer(cfg)
	assert.Same(t, cfg, c.Config())
}
