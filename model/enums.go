package model

import (
	"fmt"
	"strings"
)

// Zone bands a wellness score. The zero value is unset.
type Zone uint8

const (
	ZoneGreen Zone = iota + 1
	ZoneYellow
	ZoneRed
)

var zoneNames = map[Zone]string{
	ZoneGreen:  "green",
	ZoneYellow: "yellow",
	ZoneRed:    "red",
}

func (z Zone) String() string {
	if s, ok := zoneNames[z]; ok {
		return s
	}
	return "unset"
}

// Label is the user-facing name of the zone.
func (z Zone) Label() string {
	switch z {
	case ZoneGreen:
		return "Excellent"
	case ZoneYellow:
		return "Good"
	case ZoneRed:
		return "Concerning"
	default:
		return "Unknown"
	}
}

func (z Zone) MarshalText() ([]byte, error) {
	if z == 0 {
		return []byte(""), nil
	}
	if _, ok := zoneNames[z]; !ok {
		return nil, fmt.Errorf("invalid zone %d", z)
	}
	return []byte(z.String()), nil
}

func (z *Zone) UnmarshalText(b []byte) error {
	v, err := ParseZone(string(b))
	if err != nil {
		return err
	}
	*z = v
	return nil
}

// ParseZone accepts the textual form produced by MarshalText.
func ParseZone(s string) (Zone, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}
	for z, name := range zoneNames {
		if name == s {
			return z, nil
		}
	}
	return 0, fmt.Errorf("unknown zone %q", s)
}

// Source is how a check-in was captured.
type Source uint8

const (
	SourceText Source = iota
	SourceVoice
)

func (s Source) String() string {
	if s == SourceVoice {
		return "voice"
	}
	return "text"
}

func (s Source) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Source) UnmarshalText(b []byte) error {
	v, err := ParseSource(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSource maps "text"/"voice" (case-insensitive); empty means text.
func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return SourceText, nil
	case "voice":
		return SourceVoice, nil
	default:
		return SourceText, fmt.Errorf("unknown source %q", s)
	}
}

// Stability is the provider's view of emotional steadiness.
type Stability uint8

const (
	Unstable Stability = iota
	Stable
)

func (s Stability) String() string {
	if s == Stable {
		return "stable"
	}
	return "unstable"
}

func (s Stability) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText treats anything other than "stable" as unstable.
func (s *Stability) UnmarshalText(b []byte) error {
	*s = ParseStability(string(b))
	return nil
}

func ParseStability(s string) Stability {
	if strings.EqualFold(strings.TrimSpace(s), "stable") {
		return Stable
	}
	return Unstable
}

// Urgency grades an alert decision.
type Urgency uint8

const (
	UrgencyLow Urgency = iota
	UrgencyMedium
	UrgencyHigh
)

func (u Urgency) String() string {
	switch u {
	case UrgencyMedium:
		return "medium"
	case UrgencyHigh:
		return "high"
	default:
		return "low"
	}
}

func (u Urgency) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

func (u *Urgency) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "", "low":
		*u = UrgencyLow
	case "medium":
		*u = UrgencyMedium
	case "high":
		*u = UrgencyHigh
	default:
		return fmt.Errorf("unknown urgency %q", string(b))
	}
	return nil
}
