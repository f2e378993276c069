package runtime

import (
	"github.com/filecoin-project/go-state-types/rt"
)

// VMActor is the interface all builtin actors implement: a method export
// table, a code CID, a singleton flag and a state factory.
type VMActor = rt.VMActor
