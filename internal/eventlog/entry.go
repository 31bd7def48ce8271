package eventlog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// Kind classifies an event log entry.
type Kind string

// Entry kinds, one per EventLog operation.
const (
	KindModeChange       Kind = "mode_change"
	KindEngineerRequired Kind = "engineer_required"
	KindFireAlarm        Kind = "fire_alarm"
)

// Kinds lists every known entry kind.
func Kinds() []Kind {
	return []Kind{KindModeChange, KindEngineerRequired, KindFireAlarm}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindModeChange, KindEngineerRequired, KindFireAlarm:
		return true
	default:
		return false
	}
}

// Entry is one record in the facility event log.
type Entry struct {
	// Kind says which operation produced the entry.
	Kind Kind
	// Office is the facility identity.
	Office string
	// Message is the free-form payload, e.g. "Lights,Doors,".
	Message string
	// Timestamp is when the client produced the entry.
	Timestamp time.Time
	// Actor is the host and user behind the entry, when known.
	Actor *Actor
}

const (
	fieldKind      = "kind"
	fieldOffice    = "office"
	fieldMessage   = "message"
	fieldTimestamp = "timestamp"
	fieldHostname  = "hostname"
	fieldUsername  = "username"
)

var (
	errUnknownKind    = errors.New("unknown entry kind")
	errOfficeRequired = errors.New("office must be provided")
	errInvalidEntry   = errors.New("invalid entry")
	errMissingEntry   = errors.New("entry is required")
	errNotString      = errors.New("field must be a string")
)

// Validate checks the entry is routable.
func (e Entry) Validate() error {
	if !e.Kind.Valid() {
		return fmt.Errorf("%q: %w", e.Kind, errUnknownKind)
	}

	if strings.TrimSpace(e.Office) == "" {
		return errOfficeRequired
	}

	return nil
}

// ToStruct converts the entry to its wire form.
func (e Entry) ToStruct() (*structpb.Struct, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	fields := map[string]any{
		fieldKind:    string(e.Kind),
		fieldOffice:  e.Office,
		fieldMessage: e.Message,
	}

	if !e.Timestamp.IsZero() {
		fields[fieldTimestamp] = e.Timestamp.UTC().Format(time.RFC3339Nano)
	}

	if e.Actor != nil {
		fields[fieldHostname] = e.Actor.Hostname
		fields[fieldUsername] = e.Actor.Username
	}

	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode entry: %w", err)
	}

	return msg, nil
}

// EntryFromStruct converts a wire message back to an entry and validates it.
func EntryFromStruct(msg *structpb.Struct) (Entry, error) {
	if msg == nil {
		return Entry{}, errMissingEntry
	}

	var (
		entry  Entry
		fields = msg.GetFields()
	)

	values := make(map[string]string, len(fields))

	for _, name := range []string{fieldKind, fieldOffice, fieldMessage, fieldTimestamp, fieldHostname, fieldUsername} {
		value, ok := fields[name]
		if !ok {
			continue
		}

		if _, isString := value.GetKind().(*structpb.Value_StringValue); !isString {
			return Entry{}, fmt.Errorf("%w: %s: %w", errInvalidEntry, name, errNotString)
		}

		values[name] = value.GetStringValue()
	}

	entry.Kind = Kind(values[fieldKind])
	entry.Office = values[fieldOffice]
	entry.Message = values[fieldMessage]

	if values[fieldHostname] != "" || values[fieldUsername] != "" {
		entry.Actor = &Actor{
			Hostname: values[fieldHostname],
			Username: values[fieldUsername],
		}
	}

	if raw := values[fieldTimestamp]; raw != "" {
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return Entry{}, fmt.Errorf("%w: timestamp: %w", errInvalidEntry, err)
		}

		entry.Timestamp = ts
	}

	if err := entry.Validate(); err != nil {
		return Entry{}, fmt.Errorf("%w: %w", errInvalidEntry, err)
	}

	return entry, nil
}
