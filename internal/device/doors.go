package device

import (
	"context"

	"github.com/oshokin/office-controller/internal/domain/office"
	"github.com/oshokin/office-controller/internal/logger"
)

var _ office.DoorControl = (*Doors)(nil)

// Doors is a bank of doors. A door is either open or locked.
type Doors struct {
	units *bank
}

// NewDoors creates count locked doors with the given faulty units.
func NewDoors(count int, faulty ...int) (*Doors, error) {
	units, err := newBank(office.SubsystemDoors, count, faulty)
	if err != nil {
		return nil, err
	}

	return &Doors{units: units}, nil
}

// Status returns the door status text.
func (d *Doors) Status() string {
	return d.units.status()
}

// OpenAll opens every healthy door. It reports false when any door is faulty.
func (d *Doors) OpenAll(ctx context.Context) bool {
	ok := d.units.setAll(true)
	logger.DebugKV(ctx, "Doors opened", "all_ok", ok)

	return ok
}

// LockAll locks every healthy door. It reports false when any door is faulty.
func (d *Doors) LockAll(ctx context.Context) bool {
	ok := d.units.setAll(false)
	logger.DebugKV(ctx, "Doors locked", "all_ok", ok)

	return ok
}

// OpenDoor opens a single door.
func (d *Doors) OpenDoor(_ context.Context, id int) bool {
	return d.units.setOne(id, true)
}

// LockDoor locks a single door.
func (d *Doors) LockDoor(_ context.Context, id int) bool {
	return d.units.setOne(id, false)
}

// IsOpen reports whether door id is open.
func (d *Doors) IsOpen(id int) bool {
	return d.units.isActive(id)
}

// SetFault marks door id as faulty or repaired.
func (d *Doors) SetFault(id int, isFaulty bool) error {
	return d.units.setFault(id, isFaulty)
}

// Len returns the number of doors.
func (d *Doors) Len() int {
	return d.units.size()
}
