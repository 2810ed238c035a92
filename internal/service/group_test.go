package service

import (
	"testing"

	"github.com/assetforge/assetforge/internal/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGroup(t *testing.T) {
	tests := []struct {
		name      string
		groupName string
		refs      []string
		wantType  format.AssetType
		wantErr   string
	}{
		{
			name:      "stylesheet group with dialect member",
			groupName: "app.css",
			refs:      []string{"css/base.css", "css/theme.scss", "css/grid.less"},
			wantType:  format.TypeStylesheet,
		},
		{
			name:      "script group",
			groupName: "app.js",
			refs:      []string{"js/app.js", "js/vendor.min.js"},
			wantType:  format.TypeScript,
		},
		{
			name:      "mixed types rejected",
			groupName: "app.css",
			refs:      []string{"css/base.css", "js/app.js"},
			wantErr:   "is a stylesheet group but member",
		},
		{
			name:      "bad group name extension",
			groupName: "app.zip",
			refs:      []string{"a.js"},
			wantErr:   "must end in .js or .css",
		},
		{
			name:      "unknown member format",
			groupName: "app.js",
			refs:      []string{"notes.txt"},
			wantErr:   "unrecognized member",
		},
		{
			name:      "empty group",
			groupName: "app.js",
			refs:      nil,
			wantErr:   "no members",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group, err := NewGroup(tt.groupName, tt.refs)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, group.Type)
			assert.Equal(t, tt.refs, group.Refs)
		})
	}
}

func TestGroupsFromConfig_SortedAndValidated(t *testing.T) {
	groups, err := GroupsFromConfig(map[string][]string{
		"b.js":  {"js/b.js"},
		"a.css": {"css/a.css"},
	})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "a.css", groups[0].Name)
	assert.Equal(t, "b.js", groups[1].Name)

	_, err = GroupsFromConfig(map[string][]string{"bad": {"a.js"}})
	assert.Error(t, err)
}
