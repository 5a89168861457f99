package tileset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseWangID(t *testing.T) {
	testCases := []struct {
		name    string
		in      string
		want    WangID
		wantErr bool
	}{
		{name: "full", in: "1,1,1,1,1,1,1,1", want: WangID{1, 1, 1, 1, 1, 1, 1, 1}},
		{name: "corner", in: "0,0,0,0,0,0,0,1", want: WangID{0, 0, 0, 0, 0, 0, 0, 1}},
		{name: "spaces", in: "0, 2,0,0,0,0,0,0", want: WangID{0, 2, 0, 0, 0, 0, 0, 0}},
		{name: "too short", in: "1,1,1", wantErr: true},
		{name: "too long", in: "1,1,1,1,1,1,1,1,1", wantErr: true},
		{name: "not a number", in: "1,1,1,x,1,1,1,1", wantErr: true},
		{name: "negative", in: "1,1,1,-1,1,1,1,1", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWangID(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestWangID_Accessors(t *testing.T) {
	id := MustParseWangID("1,0,2,3,4,5,6,7")

	require.Equal(t, "1,0,2,3,4,5,6,7", id.String())
	require.Equal(t, 1, id.Edge(EdgeTop))
	require.Equal(t, 2, id.Edge(EdgeRight))
	require.Equal(t, 4, id.Edge(EdgeBottom))
	require.Equal(t, 6, id.Edge(EdgeLeft))
	require.Equal(t, 0, id.Corner(CornerTopRight))
	require.Equal(t, 3, id.Corner(CornerBottomRight))
	require.Equal(t, 5, id.Corner(CornerBottomLeft))
	require.Equal(t, 7, id.Corner(CornerTopLeft))
	require.Equal(t, [4]int{0, 3, 5, 7}, id.Corners())
	require.Equal(t, [4]int{1, 2, 4, 6}, id.Edges())
	require.Equal(t, 7, id.MaxColor())
	require.False(t, id.IsWildcard())
	require.True(t, WangID{}.IsWildcard())
}

func TestWangID_Matches(t *testing.T) {
	inner := MustParseWangID("1,0,1,1,1,1,1,1")

	require.True(t, inner.Matches(MustParseWangID("0,0,0,1,1,1,1,1")))
	require.True(t, inner.Matches(WangID{}))
	require.False(t, inner.Matches(MustParseWangID("0,1,0,0,0,0,0,0")))
	require.Equal(t, 1, inner.Mismatches(MustParseWangID("1,1,1,1,1,1,1,1")))
	require.Equal(t, 0, inner.Mismatches(WangID{}))
}

func TestWangID_JSON(t *testing.T) {
	b, err := json.Marshal(WangTile{TileID: 3, WangID: MustParseWangID("0,0,0,0,0,0,0,1")})
	require.NoError(t, err)
	require.JSONEq(t, `{"tileid":3,"wangid":"0,0,0,0,0,0,0,1"}`, string(b))

	var wt WangTile
	require.NoError(t, json.Unmarshal(b, &wt))
	require.Equal(t, 1, wt.WangID.Corner(CornerTopLeft))

	require.Error(t, json.Unmarshal([]byte(`{"wangid":"1,2"}`), &wt))
}
