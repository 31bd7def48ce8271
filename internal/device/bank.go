package device

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/oshokin/office-controller/internal/domain/office"
)

const healthyToken = "OK"

// ErrUnitOutOfRange is returned when a unit index does not exist in a bank.
var ErrUnitOutOfRange = errors.New("unit out of range")

// bank is the shared unit bookkeeping of every device type.
type bank struct {
	// label starts the status text, e.g. "Doors".
	label string
	// faulty marks failed units by index.
	faulty []bool
	// active holds the per-unit on/open state.
	active []bool
	// mu guards faulty and active.
	mu sync.Mutex
}

func newBank(label string, count int, faulty []int) (*bank, error) {
	if count < 0 {
		return nil, fmt.Errorf("%s: negative unit count %d", label, count)
	}

	b := &bank{
		label:  label,
		faulty: make([]bool, count),
		active: make([]bool, count),
	}

	for _, id := range faulty {
		if err := b.checkUnit(id); err != nil {
			return nil, err
		}

		b.faulty[id] = true
	}

	return b, nil
}

func (b *bank) checkUnit(id int) error {
	if id < 0 || id >= len(b.faulty) {
		return fmt.Errorf("%s unit %d: %w", b.label, id, ErrUnitOutOfRange)
	}

	return nil
}

// status renders "<label>,<token>,...," with one token per unit.
func (b *bank) status() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var sb strings.Builder

	sb.WriteString(b.label)
	sb.WriteByte(',')

	for _, isFaulty := range b.faulty {
		if isFaulty {
			sb.WriteString(office.FaultMarker)
		} else {
			sb.WriteString(healthyToken)
		}

		sb.WriteByte(',')
	}

	return sb.String()
}

// setAll drives every healthy unit to on and reports whether no unit was faulty.
func (b *bank) setAll(on bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	ok := true

	for id := range b.active {
		if b.faulty[id] {
			ok = false

			continue
		}

		b.active[id] = on
	}

	return ok
}

// setOne drives a single unit; faulty or unknown units report false.
func (b *bank) setOne(id int, on bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.checkUnit(id) != nil || b.faulty[id] {
		return false
	}

	b.active[id] = on

	return true
}

func (b *bank) isActive(id int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.checkUnit(id) == nil && b.active[id]
}

func (b *bank) setFault(id int, isFaulty bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkUnit(id); err != nil {
		return err
	}

	b.faulty[id] = isFaulty

	return nil
}

func (b *bank) size() int {
	return len(b.faulty)
}
