package model

import "fmt"

// Effort is the cooperation-game action. The zero value is Low and the
// numeric order is the severity order Low < Medium < High.
type Effort uint8

const (
	Low Effort = iota
	Medium
	High
)

// NumEfforts sizes per-effort tables.
const NumEfforts = int(High) + 1

// Efforts lists every effort in tie-break priority order.
var Efforts = []Effort{Low, Medium, High}

func (e Effort) String() string {
	switch e {
	case Low:
		return "L"
	case Medium:
		return "M"
	case High:
		return "H"
	default:
		return fmt.Sprintf("Effort(%d)", uint8(e))
	}
}

func ParseEffort(s string) (Effort, error) {
	switch s {
	case "L", "low", "Low":
		return Low, nil
	case "M", "medium", "Medium":
		return Medium, nil
	case "H", "high", "High":
		return High, nil
	default:
		return 0, fmt.Errorf("unknown effort %q", s)
	}
}

func (e Effort) MarshalText() ([]byte, error) {
	if e > High {
		return nil, fmt.Errorf("unknown effort %d", uint8(e))
	}
	return []byte(e.String()), nil
}

func (e *Effort) UnmarshalText(text []byte) error {
	parsed, err := ParseEffort(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
