package device

import (
	"context"

	"github.com/oshokin/office-controller/internal/domain/office"
	"github.com/oshokin/office-controller/internal/logger"
)

var _ office.FireAlarmControl = (*FireAlarm)(nil)

// FireAlarm is a bank of alarm sounders activated together.
type FireAlarm struct {
	units *bank
}

// NewFireAlarm creates count silent sounders.
func NewFireAlarm(count int, faulty ...int) (*FireAlarm, error) {
	units, err := newBank(office.SubsystemFireAlarm, count, faulty)
	if err != nil {
		return nil, err
	}

	return &FireAlarm{units: units}, nil
}

func (f *FireAlarm) Status() string {
	return f.units.status()
}

// SetActive sounds or silences every healthy sounder.
func (f *FireAlarm) SetActive(ctx context.Context, on bool) bool {
	ok := f.units.setAll(on)
	logger.InfoKV(ctx, "Fire alarm switched", "active", on, "all_ok", ok)

	return ok
}

// Active reports whether any sounder is sounding.
func (f *FireAlarm) Active() bool {
	for id := range f.units.size() {
		if f.units.isActive(id) {
			return true
		}
	}

	return false
}

func (f *FireAlarm) SetFault(id int, isFaulty bool) error {
	return f.units.setFault(id, isFaulty)
}
