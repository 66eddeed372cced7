package model

// DerivationStep is one entry of a derivation trace: the sentential form
// reached and the production applied to reach it. Production is nil for the
// initial step.
type DerivationStep struct {
	Form       []Symbol
	Production *Production
	Label      string
}

// Derivation is a completed derivation: the terminal string and its trace.
type Derivation struct {
	Content string
	Steps   []DerivationStep
}

// Depth returns the number of expansions performed.
func (d Derivation) Depth() int {
	if len(d.Steps) == 0 {
		return 0
	}

	return len(d.Steps) - 1
}
