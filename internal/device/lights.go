package device

import (
	"context"

	"github.com/oshokin/office-controller/internal/domain/office"
	"github.com/oshokin/office-controller/internal/logger"
)

var _ office.LightControl = (*Lights)(nil)

// Lights is a bank of independently switched lights.
type Lights struct {
	units *bank
}

// NewLights creates count lights, all off.
func NewLights(count int, faulty ...int) (*Lights, error) {
	units, err := newBank(office.SubsystemLights, count, faulty)
	if err != nil {
		return nil, err
	}

	return &Lights{units: units}, nil
}

func (l *Lights) Status() string {
	return l.units.status()
}

// SetAll switches every healthy light; false means at least one is faulty.
func (l *Lights) SetAll(ctx context.Context, on bool) bool {
	ok := l.units.setAll(on)
	logger.DebugKV(ctx, "Lights switched", "on", on, "all_ok", ok)

	return ok
}

// SetLight switches a single light.
func (l *Lights) SetLight(_ context.Context, on bool, id int) bool {
	return l.units.setOne(id, on)
}

func (l *Lights) IsOn(id int) bool {
	return l.units.isActive(id)
}

func (l *Lights) SetFault(id int, isFaulty bool) error {
	return l.units.setFault(id, isFaulty)
}

func (l *Lights) Len() int {
	return l.units.size()
}
