package enum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testKind string

type testLevel int

var (
	kindCorner = New(testKind("corner"), "Corner")
	kindEdge   = New(testKind("edge"), "Edge")
	levelWarn  = New(testLevel(1), "warning")
)

func TestToEnum(t *testing.T) {
	tests := []struct {
		name    string
		s       string
		want    testKind
		wantErr bool
	}{
		{name: "corner", s: "Corner", want: kindCorner},
		{name: "edge", s: "Edge", want: kindEdge},
		{name: "case sensitive", s: "corner", wantErr: true},
		{name: "unknown", s: "Mixed", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToEnum[testKind](tt.s)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestToString(t *testing.T) {
	require.Equal(t, "Corner", ToString(kindCorner))
	require.Equal(t, "", ToString(testKind("mixed")))
	require.Equal(t, "warning", ToString(levelWarn))
	require.Equal(t, "", ToString(testLevel(2)))

	_, err := ToEnum[struct{ v int }]("x")
	require.Error(t, err)
}
