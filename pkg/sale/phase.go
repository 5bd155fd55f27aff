package sale

// Phase is the current stage of a sale, derived from time and configuration.
type Phase uint8

// Sale phases.
const (
	PhaseInactive Phase = iota
	PhaseUpcoming
	PhaseWhitelist
	PhasePublic
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseInactive:
		return "INACTIVE"
	case PhaseUpcoming:
		return "UPCOMING"
	case PhaseWhitelist:
		return "WHITELIST"
	case PhasePublic:
		return "PUBLIC"
	default:
		return "UNKNOWN"
	}
}

// SaleWindow defines the whitelist period boundaries and the master
// on/off switch. Admins may replace it at any time, including mid-sale.
type SaleWindow struct {
	WhitelistStart int64 `json:"whitelistStart"`
	WhitelistEnd   int64 `json:"whitelistEnd"`
	Active         bool  `json:"active"`
}

// PhaseAt classifies a unix timestamp into exactly one phase. The whitelist
// window is inclusive on both ends: now == WhitelistStart and
// now == WhitelistEnd both classify as WHITELIST. An inactive window
// overrides every time-based check.
func (w SaleWindow) PhaseAt(now int64) Phase {
	if !w.Active {
		return PhaseInactive
	}
	if now < w.WhitelistStart {
		return PhaseUpcoming
	}
	if now <= w.WhitelistEnd {
		return PhaseWhitelist
	}
	return PhasePublic
}
