package engineload

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// TestLoadBuildsFromScratchWithoutSnapshot lays out a minimal meet-data
// tree with snapshotting disabled via .oplengine.yaml and checks that
// Load compiles a Database and wires up usable caches.
func TestLoadBuildsFromScratchWithoutSnapshot(t *testing.T) {
	root := t.TempDir()

	writeFile(t, filepath.Join(root, ".oplengine.yaml"), "snapshot:\n  enabled: false\n")

	writeFile(t, filepath.Join(root, "meet-data", "uspa", "0001", "meet.csv"),
		"Federation,Date,MeetCountry,MeetState,MeetTown,MeetName\n"+
			"USPA,2019-03-01,USA,CA,Anaheim,Spring Classic\n")
	writeFile(t, filepath.Join(root, "meet-data", "uspa", "0001", "entries.csv"),
		"Name,Sex,Equipment,Event,Place,TotalKg,BodyweightKg\n"+
			"Jane Doe,F,Raw,S,1,100,60\n")

	eng, fromScratch, err := Load(context.Background(), nil, root)
	require.NoError(t, err)
	require.True(t, fromScratch)
	require.NotNil(t, eng.Database)
	require.Len(t, eng.Database.Lifters(), 1)
	require.NotNil(t, eng.LogLin)
	require.NotNil(t, eng.Constant)
	require.NotNil(t, eng.MetaFeds)
}

// TestLoadFailsOnInvalidMeetData checks that an invalid fixture surfaces
// as an error rather than a silently-empty database.
func TestLoadFailsOnInvalidMeetData(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".oplengine.yaml"), "snapshot:\n  enabled: false\n")

	writeFile(t, filepath.Join(root, "meet-data", "uspa", "0001", "meet.csv"),
		"Federation,Date,MeetCountry,MeetState,MeetTown,MeetName\n"+
			"USPA,2019-03-01,USA,CA,Anaheim,Spring Classic\n")
	writeFile(t, filepath.Join(root, "meet-data", "uspa", "0001", "entries.csv"),
		"Name,Sex,Equipment,Event,Place,TotalKg,BodyweightKg,Squat1Kg,Squat2Kg,Squat3Kg,Best3SquatKg\n"+
			"Jane Doe,F,Raw,S,1,100,60,100,95,0,100\n")

	_, _, err := Load(context.Background(), nil, root)
	require.Error(t, err)
}
