package model

// Capabilities is the set of permissions resolved for an actor when an
// interaction arrives. Role names are never compared after resolution.
type Capabilities uint8

const (
	// CapStaff allows closing tickets and forcing claims.
	CapStaff Capabilities = 1 << iota
	// CapManage allows changing guild configuration and statistics.
	CapManage
	// CapDeveloper is granted to configured developer accounts.
	CapDeveloper

	CapAll = CapStaff | CapManage | CapDeveloper
)

func (c Capabilities) Has(want Capabilities) bool {
	return c&want == want
}

func (c Capabilities) String() string {
	switch {
	case c.Has(CapDeveloper):
		return "developer"
	case c.Has(CapManage):
		return "manager"
	case c.Has(CapStaff):
		return "staff"
	}
	return "member"
}

// Actor is the user performing an operation, with its resolved capabilities.
type Actor struct {
	ID   string
	Caps Capabilities
}
