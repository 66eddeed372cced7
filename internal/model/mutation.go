package model

// MutationKind represents the syntactic transform applied to a valid string.
type MutationKind string

const (
	// MutationUnbalancedParens removes (or inserts) a single parenthesis.
	MutationUnbalancedParens MutationKind = "unbalanced_parens"
	// MutationDuplicateOperator repeats an operator in place.
	MutationDuplicateOperator MutationKind = "duplicate_operator"
	// MutationLeadingOperator prepends an operator.
	MutationLeadingOperator MutationKind = "leading_operator"
	// MutationTrailingOperator appends an operator.
	MutationTrailingOperator MutationKind = "trailing_operator"
	// MutationEmptyParens inserts "( )".
	MutationEmptyParens MutationKind = "empty_parens"
	// MutationMissingOperator drops an operator.
	MutationMissingOperator MutationKind = "missing_operator"
	// MutationMissingOperand drops an identifier-class token.
	MutationMissingOperand MutationKind = "missing_operand"
	// MutationInvalidCharacter inserts a symbol outside the alphabet.
	MutationInvalidCharacter MutationKind = "invalid_character"
	// MutationSplitToken inserts a space inside a token.
	MutationSplitToken MutationKind = "split_token"
)

// AllMutationKinds lists every kind in a fixed order, used for uniform
// random selection.
var AllMutationKinds = []MutationKind{
	MutationUnbalancedParens,
	MutationDuplicateOperator,
	MutationLeadingOperator,
	MutationTrailingOperator,
	MutationEmptyParens,
	MutationMissingOperator,
	MutationMissingOperand,
	MutationInvalidCharacter,
	MutationSplitToken,
}

// MutationResult is an invalid variant of a valid string.
type MutationResult struct {
	Mutated     string
	Kind        MutationKind
	Description string
	Original    string
}
