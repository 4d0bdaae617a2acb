package loader

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
	loaded  int
}

func (s *stubFeature) Name() string    { return s.name }
func (s *stubFeature) IsEnabled() bool { return s.enabled }
func (s *stubFeature) Load(app fiber.Router) error {
	s.loaded++
	return s.err
}

func TestManager_LoadAll(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	mgr := NewManager(zap.New(core))

	products := &stubFeature{name: "products", enabled: true}
	records := &stubFeature{name: "records", enabled: false}
	mgr.Register(products)
	mgr.Register(records)

	require.NoError(t, mgr.LoadAll(fiber.New()))
	assert.Equal(t, 1, products.loaded)
	assert.Equal(t, 0, records.loaded)
	assert.Len(t, mgr.Features(), 2)
	assert.Equal(t, 1, logs.FilterMessage("Feature loaded").Len())
	assert.Equal(t, 1, logs.FilterMessage("Feature disabled").Len())
}

func TestManager_LoadAllFailure(t *testing.T) {
	mgr := NewManager(nil)
	broken := &stubFeature{name: "broken", enabled: true, err: errors.New("no routes")}
	after := &stubFeature{name: "after", enabled: true}
	mgr.Register(broken)
	mgr.Register(after)

	err := mgr.LoadAll(fiber.New())
	assert.ErrorContains(t, err, "failed to load feature broken")
	assert.Equal(t, 0, after.loaded)
}

func TestManager_DuplicateName(t *testing.T) {
	mgr := NewManager(nil)
	mgr.Register(&stubFeature{name: "products", enabled: true})
	mgr.Register(&stubFeature{name: "products", enabled: true})

	assert.ErrorContains(t, mgr.LoadAll(fiber.New()), "registered twice")
}
