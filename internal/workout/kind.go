package workout

import (
	"encoding/json"
	"fmt"
)

// Kind identifies a workout variant.
type Kind int

const (
	Running Kind = iota + 1
	Walking
	Swimming
)

var kindNames = map[Kind]string{
	Running:  "Running",
	Walking:  "SportsWalking",
	Swimming: "Swimming",
}

// String returns the display name used in workout messages.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the known variants.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind maps a display name back to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, ok := ParseKind(name)
	if !ok {
		return fmt.Errorf("unknown workout kind %q", name)
	}
	*k = parsed
	return nil
}
