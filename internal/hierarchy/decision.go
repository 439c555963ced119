package hierarchy

type Outcome string

const (
	OutcomeAccept    Outcome = "accept"
	OutcomeReject    Outcome = "reject"
	OutcomeNormalize Outcome = "normalize"
)

type Reason string

const (
	ReasonNone          Reason = ""
	ReasonDetach        Reason = "detach"
	ReasonSelfParent    Reason = "self_parent"
	ReasonCycle         Reason = "cycle"
	ReasonOutOfScope    Reason = "out_of_scope"
	ReasonMissingParent Reason = "missing_parent"
	ReasonHopLimit      Reason = "hop_limit"
	ReasonCorruptChain  Reason = "corrupt_chain"
)

// Decision is the outcome of evaluating a proposed parent. ParentID is the
// value to persist when the outcome is accept or normalize; it is always
// nil for normalize.
type Decision struct {
	Outcome  Outcome
	ParentID *string
	Reason   Reason
}

// Applied reports whether parent_id should be written.
func (d Decision) Applied() bool {
	return d.Outcome != OutcomeReject
}

func accept(parentID *string, reason Reason) Decision {
	return Decision{Outcome: OutcomeAccept, ParentID: parentID, Reason: reason}
}

func reject(reason Reason) Decision {
	return Decision{Outcome: OutcomeReject, Reason: reason}
}

func normalize(reason Reason) Decision {
	return Decision{Outcome: OutcomeNormalize, Reason: reason}
}
