package api

// State is the lifecycle stage of a driver. A driver only moves forward
// through the stages, or to StateAborted on the first failure.
type State int

const (
	StateUninitialized State = iota
	StateModuleBuilt
	StateCompiled
	StateExecuting
	StateDone
	StateAborted
)

var stateNames = []string{
	"Uninitialized",
	"ModuleBuilt",
	"Compiled",
	"Executing",
	"Done",
	"Aborted",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}

	return stateNames[s]
}
