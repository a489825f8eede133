package checker

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

// TestBuildCompilesCleanFixture lays out a minimal two-meet tree under
// one federation directory and checks that Build produces a Database
// with the expected lifter count, and that a lifter who competed at
// both meets gets a single LifterID with both entries attached.
func TestBuildCompilesCleanFixture(t *testing.T) {
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "uspa", "0001", "meet.csv"),
		"Federation,Date,MeetCountry,MeetState,MeetTown,MeetName\n"+
			"USPA,2019-03-01,USA,CA,Anaheim,Spring Classic\n")
	writeFile(t, filepath.Join(root, "uspa", "0001", "entries.csv"),
		"Name,Sex,Equipment,Event,Place,TotalKg,BodyweightKg,Age\n"+
			"Jane Doe,F,Raw,S,1,100,60,30\n"+
			"Alex Roe,M,Raw,S,2,200,90,\n")

	writeFile(t, filepath.Join(root, "uspa", "0002", "meet.csv"),
		"Federation,Date,MeetCountry,MeetState,MeetTown,MeetName\n"+
			"USPA,2020-06-01,USA,CA,Anaheim,Summer Classic\n")
	writeFile(t, filepath.Join(root, "uspa", "0002", "entries.csv"),
		"Name,Sex,Equipment,Event,Place,TotalKg,BodyweightKg\n"+
			"Jane Doe,F,Raw,S,1,110,61\n")

	result, err := Build(context.Background(), root, 0)
	require.NoError(t, err)
	require.NotNil(t, result.Database)
	require.Equal(t, 0, result.ErrorCount())

	database := result.Database
	require.Len(t, database.Lifters(), 2)
	require.Len(t, database.Meets(), 2)
	require.Len(t, database.Entries(), 3)

	janeID, ok := database.LifterID("janedoe")
	require.True(t, ok)
	entries, err := database.EntriesForLifter(janeID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

// TestBuildExcludesInvalidMeetButKeepsOthers checks that a meet whose
// entries.csv fails validation is dropped from the compiled database
// while a sibling, valid meet still compiles.
func TestBuildExcludesInvalidMeetButKeepsOthers(t *testing.T) {
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "uspa", "0001", "meet.csv"),
		"Federation,Date,MeetCountry,MeetState,MeetTown,MeetName\n"+
			"USPA,2019-03-01,USA,CA,Anaheim,Spring Classic\n")
	writeFile(t, filepath.Join(root, "uspa", "0001", "entries.csv"),
		"Name,Sex,Equipment,Event,Place,TotalKg,BodyweightKg,Squat1Kg,Squat2Kg,Best3SquatKg\n"+
			"Jane Doe,F,Raw,S,1,100,60,100,95,100\n")

	writeFile(t, filepath.Join(root, "uspa", "0002", "meet.csv"),
		"Federation,Date,MeetCountry,MeetState,MeetTown,MeetName\n"+
			"USPA,2020-06-01,USA,CA,Anaheim,Summer Classic\n")
	writeFile(t, filepath.Join(root, "uspa", "0002", "entries.csv"),
		"Name,Sex,Equipment,Event,Place,TotalKg,BodyweightKg\n"+
			"Alex Roe,M,Raw,S,2,200,90\n")

	result, err := Build(context.Background(), root, 0)
	require.NoError(t, err)
	require.NotNil(t, result.Database)
	require.Greater(t, result.ErrorCount(), 0)
	require.Len(t, result.Database.Meets(), 1)
	require.Equal(t, "uspa/0002", result.Database.Meets()[0].Path)
}
