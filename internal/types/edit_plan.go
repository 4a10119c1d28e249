package types

// Operation is the kind of edit a directive performs
type Operation string

// Edit operations supported by the refactorer
const (
	OpRewriteBullet Operation = "REWRITE_BULLET"
	OpInjectKeyword Operation = "INJECT_KEYWORD"
	OpAddBullet     Operation = "ADD_BULLET"
	OpRemoveBullet  Operation = "REMOVE_BULLET"
)

// Known reports whether the operation is one the refactorer understands
func (op Operation) Known() bool {
	switch op {
	case OpRewriteBullet, OpInjectKeyword, OpAddBullet, OpRemoveBullet:
		return true
	}
	return false
}

// RequiresOriginal reports whether the operation must name an exact substring
// of the source document
func (op Operation) RequiresOriginal() bool {
	return op == OpRewriteBullet || op == OpRemoveBullet
}

// EditDirective is one atomic edit instruction in an EditPlan
type EditDirective struct {
	TargetSection string    `json:"target_section"`
	Operation     Operation `json:"operation" validate:"required,oneof=REWRITE_BULLET INJECT_KEYWORD ADD_BULLET REMOVE_BULLET"`
	OriginalText  string    `json:"original_text,omitempty"`
	NewText       string    `json:"new_text"`
	Justification string    `json:"justification"`
}

// EditPlan is an ordered sequence of edit directives plus the strategist's
// overall rationale. Directives apply in order against progressively
// mutated text.
type EditPlan struct {
	Strategy   string          `json:"strategy,omitempty"`
	Directives []EditDirective `json:"directives"`
}
