package ast

import "strconv"

// GroupID identifies a capture group in a backreference or conditional:
// either a group number or a group name.
type GroupID struct {
	Index int    // group number; meaningful when Name is empty
	Name  string // group name
}

// Numbered returns the GroupID of group n.
func Numbered(n int) GroupID { return GroupID{Index: n} }

// Named returns the GroupID of the group called name.
func Named(name string) GroupID { return GroupID{Name: name} }

// ParseGroupID treats text as a group number when it is an unsigned
// decimal integer, and as a group name otherwise.
func ParseGroupID(text string) GroupID {
	if n, err := strconv.ParseUint(text, 10, 31); err == nil {
		return Numbered(int(n))
	}
	return Named(text)
}

// IsNamed reports whether the identifier is a name.
func (id GroupID) IsNamed() bool {
	return id.Name != ""
}

// String returns the identifier as written in a pattern.
func (id GroupID) String() string {
	if id.IsNamed() {
		return id.Name
	}
	return strconv.Itoa(id.Index)
}
