package update

// State is an orchestrator state
type State int

const (
	Init State = iota
	FetchingLocalVersion
	FetchingRemoteVersion
	Negotiating
	ComparingContent
	Starting
	Started
	Blocked
)

func (s State) String() string {
	switch s {
	case Init:
		return "init"
	case FetchingLocalVersion:
		return "fetching_local_version"
	case FetchingRemoteVersion:
		return "fetching_remote_version"
	case Negotiating:
		return "negotiating"
	case ComparingContent:
		return "comparing_content"
	case Starting:
		return "starting"
	case Started:
		return "started"
	case Blocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Terminal reports whether no transition leaves s
func (s State) Terminal() bool {
	return s == Started || s == Blocked
}
