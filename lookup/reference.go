package lookup

// Reference points at a registry by full code, the way a field of another
// asset refers to an identifier.
type Reference struct {
	AssignedID string `json:"assignedId" yaml:"assignedId"`
}

// Override replaces the referenced full code.
func (r *Reference) Override(fullCode string) {
	r.AssignedID = fullCode
}

// IsSet reports whether a code was assigned.
func (r Reference) IsSet() bool {
	return r.AssignedID != ""
}

// Resolve returns the display path of the referenced registry. A dangling or
// unset reference resolves to false.
func (r Reference) Resolve(index *Index) (string, bool) {
	if !r.IsSet() || index == nil {
		return "", false
	}
	return index.Resolve(r.AssignedID)
}
