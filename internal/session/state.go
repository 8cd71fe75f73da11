package session

import "fmt"

// State of a print session
type State int

const (
	Created State = iota
	ApplicationAcquired
	DocumentOpened
	Configured
	Printed
	Released
)

var stateNames = [...]string{
	Created:             "created",
	ApplicationAcquired: "application-acquired",
	DocumentOpened:      "document-opened",
	Configured:          "configured",
	Printed:             "printed",
	Released:            "released",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}
