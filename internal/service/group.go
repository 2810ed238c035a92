package service

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/assetforge/assetforge/internal/format"
)

// Group is an ordered asset group: member references destined for one
// combined artifact. Order is significant; concatenation order equals
// declaration order.
type Group struct {
	Name string
	Type format.AssetType
	Refs []string
}

// GroupsFromConfig turns the declared assets map into validated
// groups, sorted by name for deterministic iteration. A group's type
// comes from its artifact name extension; every member must agree
// with it, mixing types in one group is a caller error.
func GroupsFromConfig(assets map[string][]string) ([]Group, error) {
	groups := make([]Group, 0, len(assets))
	for name, refs := range assets {
		group, err := NewGroup(name, refs)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}

// NewGroup validates one named group.
func NewGroup(name string, refs []string) (Group, error) {
	var t format.AssetType
	switch strings.ToLower(filepath.Ext(name)) {
	case ".js":
		t = format.TypeScript
	case ".css":
		t = format.TypeStylesheet
	default:
		return Group{}, fmt.Errorf("asset group %q: name must end in .js or .css", name)
	}

	if len(refs) == 0 {
		return Group{}, fmt.Errorf("asset group %q has no members", name)
	}
	for _, ref := range refs {
		f := format.Detect(ref)
		if f == format.Unknown {
			return Group{}, fmt.Errorf("asset group %q: unrecognized member %q", name, ref)
		}
		if f.Type() != t {
			return Group{}, fmt.Errorf("asset group %q is a %s group but member %q is a %s",
				name, t, ref, f.Type())
		}
	}

	return Group{Name: name, Type: t, Refs: refs}, nil
}
