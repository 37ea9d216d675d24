package catalog

// Selection models the department/type/sub-type picks of one screen, whether
// a creation form, an edit form or a report filter. Changing an ancestor
// clears every descendant pick so no orphaned child selection can survive.
type Selection struct {
	DepartmentID *int64
	TypeID       *int64
	SubTypeID    *int64
}

// NewSelection seeds a screen with programmatic defaults. Initial population
// is not a change: it must never trigger a cascade reset, so prefilled type
// and sub-type survive here.
func NewSelection(departmentID, typeID, subTypeID *int64) Selection {
	return Selection{DepartmentID: departmentID, TypeID: typeID, SubTypeID: subTypeID}
}

// SetDepartment records a department change and reports whether dependent
// selections were reset. Re-selecting the current value is a no-op.
func (s *Selection) SetDepartment(id *int64) bool {
	if idEqual(s.DepartmentID, id) {
		return false
	}
	s.DepartmentID = id
	s.TypeID = nil
	s.SubTypeID = nil
	return true
}

// SetType records a type change, clearing the sub-type on an actual change.
func (s *Selection) SetType(id *int64) bool {
	if idEqual(s.TypeID, id) {
		return false
	}
	s.TypeID = id
	s.SubTypeID = nil
	return true
}

// SetSubType records a sub-type change. It has no descendants.
func (s *Selection) SetSubType(id *int64) {
	s.SubTypeID = id
}

func idEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
