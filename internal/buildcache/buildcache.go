// Package buildcache persists a compiled Database to a single-file
// store so a process restart can skip re-running the CSV validator
// over meet-data/ and lifter-data/ when neither has changed.
//
// The store is a modernc.org/sqlite file holding a single gob-encoded
// blob (one row named "compiled" in the tables table) that carries the
// lifters, meets, entries and the interned Division symbol table
// together, plus a manifest row recording a SHA-256 hash of the
// path, size and modification time of every file under meet-data/ and
// lifter-data/, and the schema version. Writes are guarded by a
// gofrs/flock advisory lock so two concurrent builds against the same
// snapshot directory serialize instead of corrupting each other's
// write.
//
// Filter and rankings caches are not persisted: they hold unexported
// roaring-bitmap and slice internals gob can't address directly, and
// rebuilding them from the three deserialized tables is an in-memory
// O(n) pass that the snapshot is not trying to avoid — only the CSV
// parse and validation work is.
package buildcache

import (
	"bytes"
	"crypto/sha256"
	"database/sql"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/openlifting/oplengine/internal/db"
	"github.com/openlifting/oplengine/internal/errors"
	"github.com/openlifting/oplengine/internal/intern"
)

// SchemaVersion is bumped whenever the shape of the persisted blobs
// changes incompatibly; a mismatch is treated the same as a missing
// snapshot.
const SchemaVersion = 1

const (
	dbFileName   = "oplengine.db"
	lockFileName = ".oplengine.lock"
)

// dump is the gob-serializable payload of the single compiled blob.
type dump struct {
	Lifters  []db.Lifter
	Meets    []db.Meet
	Entries  []db.Entry
	Division []string
}

// Load attempts to deserialize a previously-saved Database from
// dir/oplengine.db. ok is false (with a nil error) when no snapshot
// exists, the schema version doesn't match, or the recorded content
// hash of meetDataRoot/lifterDataRoot no longer matches the CSV tree
// on disk — in every one of those cases the caller is expected to fall
// back to a full checker.Build.
func Load(dir, meetDataRoot, lifterDataRoot string) (database *db.Database, ok bool, err error) {
	path := filepath.Join(dir, dbFileName)
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		return nil, false, nil
	}

	conn, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, false, nil
	}
	defer conn.Close()

	var version int
	var storedHash string
	row := conn.QueryRow(`SELECT schema_version, content_hash FROM manifest WHERE id = 1`)
	if scanErr := row.Scan(&version, &storedHash); scanErr != nil {
		return nil, false, nil
	}
	if version != SchemaVersion {
		return nil, false, nil
	}

	currentHash, err := ContentHash(meetDataRoot, lifterDataRoot)
	if err != nil {
		return nil, false, err
	}
	if currentHash != storedHash {
		return nil, false, nil
	}

	var blob []byte
	row = conn.QueryRow(`SELECT data FROM tables WHERE name = 'compiled'`)
	if scanErr := row.Scan(&blob); scanErr != nil {
		return nil, false, nil
	}

	var d dump
	if decodeErr := gob.NewDecoder(bytes.NewReader(blob)).Decode(&d); decodeErr != nil {
		return nil, false, errors.InternalError("build snapshot is corrupt", decodeErr).
			WithDetail("path", path)
	}

	intern.Restore(d.Division)
	database, buildErr := db.New(d.Lifters, d.Meets, d.Entries)
	if buildErr != nil {
		return nil, false, errors.Wrap("ERR_500_SNAPSHOT_REBUILD", buildErr)
	}
	return database, true, nil
}

// Save persists database to dir/oplengine.db, guarded by an advisory
// lock on dir/.oplengine.lock. Per §4.12, this is best-effort: a
// failure to acquire the lock or to write the file is logged as a
// warning and returned as a non-fatal error the caller may ignore, since
// the in-memory database the current build just produced is already
// usable without the snapshot.
func Save(logger *slog.Logger, database *db.Database, meetDataRoot, lifterDataRoot, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("build snapshot: could not create snapshot directory", "dir", dir, "error", err)
		return err
	}

	lockPath := filepath.Join(dir, lockFileName)
	lock := flock.New(lockPath)
	owner := uuid.NewString()

	locked, err := lock.TryLock()
	if err != nil || !locked {
		logger.Warn("build snapshot: could not acquire write lock, skipping", "lock", lockPath, "owner", owner, "error", err)
		return fmt.Errorf("buildcache: lock %s busy", lockPath)
	}
	defer lock.Unlock()

	logger.Debug("build snapshot: acquired write lock", "lock", lockPath, "owner", owner)

	hash, err := ContentHash(meetDataRoot, lifterDataRoot)
	if err != nil {
		logger.Warn("build snapshot: could not hash source tree, skipping", "error", err)
		return err
	}

	d := dump{
		Lifters:  database.Lifters(),
		Meets:    database.Meets(),
		Entries:  database.Entries(),
		Division: intern.Dump(),
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&d); err != nil {
		logger.Warn("build snapshot: could not encode tables, skipping", "error", err)
		return err
	}

	path := filepath.Join(dir, dbFileName)
	tmpPath := path + ".tmp"
	os.Remove(tmpPath)

	conn, err := sql.Open("sqlite", "file:"+tmpPath)
	if err != nil {
		logger.Warn("build snapshot: could not open snapshot file, skipping", "path", tmpPath, "error", err)
		return err
	}
	defer conn.Close()

	schema := []string{
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE manifest (id INTEGER PRIMARY KEY, schema_version INTEGER NOT NULL, content_hash TEXT NOT NULL, created_at TEXT NOT NULL, owner TEXT NOT NULL)`,
		`CREATE TABLE tables (name TEXT PRIMARY KEY, data BLOB NOT NULL)`,
	}
	for _, stmt := range schema {
		if _, err := conn.Exec(stmt); err != nil {
			logger.Warn("build snapshot: could not initialize schema, skipping", "error", err)
			return err
		}
	}

	if _, err := conn.Exec(
		`INSERT INTO manifest (id, schema_version, content_hash, created_at, owner) VALUES (1, ?, ?, ?, ?)`,
		SchemaVersion, hash, time.Now().UTC().Format(time.RFC3339), owner,
	); err != nil {
		logger.Warn("build snapshot: could not write manifest, skipping", "error", err)
		return err
	}
	if _, err := conn.Exec(`INSERT INTO tables (name, data) VALUES ('compiled', ?)`, buf.Bytes()); err != nil {
		logger.Warn("build snapshot: could not write tables, skipping", "error", err)
		return err
	}
	if err := conn.Close(); err != nil {
		logger.Warn("build snapshot: could not finalize snapshot file, skipping", "error", err)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		logger.Warn("build snapshot: could not install snapshot file, skipping", "error", err)
		return err
	}

	logger.Info("build snapshot: wrote compiled database", "path", path, "hash", hash[:12], "owner", owner)
	return nil
}

// ContentHash returns a SHA-256 digest over every file's path, size,
// and modification time beneath meetDataRoot and lifterDataRoot, sorted
// by path for determinism. It deliberately hashes file metadata rather
// than content: meet-data/ and lifter-data/ together run into the
// hundreds of megabytes, and mtime changes are a reliable enough proxy
// for "the upstream build pipeline regenerated this" given both trees
// are written atomically by that pipeline, never hand-edited in place.
func ContentHash(roots ...string) (string, error) {
	type entry struct {
		path  string
		size  int64
		mtime int64
	}
	var entries []entry

	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return err
			}
			if d.IsDir() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				rel = path
			}
			entries = append(entries, entry{
				path:  filepath.Join(filepath.Base(root), rel),
				size:  info.Size(),
				mtime: info.ModTime().UnixNano(),
			})
			return nil
		})
		if err != nil {
			return "", errors.InternalError("failed to walk source tree for content hash", err).
				WithDetail("root", root)
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].path < entries[j].path })

	h := sha256.New()
	for _, e := range entries {
		fmt.Fprintf(h, "%s\x00%d\x00%d\n", e.path, e.size, e.mtime)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
