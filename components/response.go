package components

// Response is a particle type's collision response policy.
type Response uint8

const (
	ResponseBounce Response = iota
	ResponseMerge
	ResponseCustom
	ResponseSplit
	ResponseDestroy
)

// String returns the display name for a Response.
func (r Response) String() string {
	names := ResponseNames()
	if int(r) < len(names) {
		return names[r]
	}
	return "Unknown"
}

// ResponseNames returns the display names for all response policies.
// The order matches the Response constants.
func ResponseNames() []string {
	return []string{"Bounce", "Merge", "Custom", "Split", "Destroy"}
}

// Rank returns the destructiveness rank of the response.
// Bounce(1) < Merge(2) = Custom(2) < Split(3) < Destroy(4).
func (r Response) Rank() int {
	switch r {
	case ResponseBounce:
		return 1
	case ResponseMerge, ResponseCustom:
		return 2
	case ResponseSplit:
		return 3
	case ResponseDestroy:
		return 4
	default:
		return 0
	}
}

// MoreDestructive returns the more destructive of two responses.
// Ties break toward the first operand.
func MoreDestructive(a, b Response) Response {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}
