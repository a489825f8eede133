// Package liftermap provides lifter name lookup: the exact
// Username -> LifterID resolution already exposed by db.Database, plus
// an additive fuzzy/prefix Name Search Index over every name field a
// lifter can be registered under.
package liftermap

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/openlifting/oplengine/internal/db"
)

// nameDocument is the Bleve document shape for one lifter: every name
// field a lookup might match against, indexed together so a single
// query can hit any of them.
type nameDocument struct {
	Name         string `json:"name"`
	Username     string `json:"username"`
	ChineseName  string `json:"chinese_name"`
	CyrillicName string `json:"cyrillic_name"`
	GreekName    string `json:"greek_name"`
	JapaneseName string `json:"japanese_name"`
	KoreanName   string `json:"korean_name"`
}

// Index wraps an in-memory Bleve index built once at load time over a
// Database's lifter table. It never mutates after construction, in
// keeping with the engine's read-only-after-build model.
type Index struct {
	bleve bleve.Index
}

// NewIndex builds a Name Search Index from every lifter in database. The
// index is held entirely in memory (bleve.NewMemOnly): there is no
// on-disk Bleve index to corrupt or reopen, since the Build Snapshot
// Store is the system's only persisted artifact and this index is
// cheap enough to rebuild from it on every load.
func NewIndex(database *db.Database) (*Index, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("liftermap: creating index: %w", err)
	}

	lifters := database.Lifters()
	batch := idx.NewBatch()
	for i, l := range lifters {
		doc := nameDocument{
			Name:         l.Name,
			Username:     l.Username,
			ChineseName:  l.ChineseName,
			CyrillicName: l.CyrillicName,
			GreekName:    l.GreekName,
			JapaneseName: l.JapaneseName,
			KoreanName:   l.KoreanName,
		}
		if err := batch.Index(strconv.Itoa(i), doc); err != nil {
			return nil, fmt.Errorf("liftermap: indexing lifter %d: %w", i, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		return nil, fmt.Errorf("liftermap: building index: %w", err)
	}

	return &Index{bleve: idx}, nil
}

// Close releases the index's resources.
func (x *Index) Close() error { return x.bleve.Close() }

func (x *Index) search(ctx context.Context, q query.Query, limit int) ([]db.LifterID, error) {
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	result, err := x.bleve.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("liftermap: search failed: %w", err)
	}
	ids := make([]db.LifterID, 0, len(result.Hits))
	for _, hit := range result.Hits {
		n, err := strconv.Atoi(hit.ID)
		if err != nil {
			continue
		}
		ids = append(ids, db.LifterID(n))
	}
	return ids, nil
}

// FindByNamePrefix returns LifterIDs whose username or any name field
// starts with prefix, ranked by Bleve's default score, case-insensitively.
func (x *Index) FindByNamePrefix(ctx context.Context, prefix string, limit int) ([]db.LifterID, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil, nil
	}
	fields := []string{"name", "username", "chinese_name", "cyrillic_name", "greek_name", "japanese_name", "korean_name"}
	disjuncts := make([]query.Query, 0, len(fields))
	for _, f := range fields {
		pq := bleve.NewPrefixQuery(prefix)
		pq.SetField(f)
		disjuncts = append(disjuncts, pq)
	}
	return x.search(ctx, bleve.NewDisjunctionQuery(disjuncts...), limit)
}

// FindFuzzy returns LifterIDs whose name or username is within Bleve's
// default fuzzy edit distance of name, for typo-tolerant lookup.
func (x *Index) FindFuzzy(ctx context.Context, name string, limit int) ([]db.LifterID, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, nil
	}
	nameQ := bleve.NewFuzzyQuery(name)
	nameQ.SetField("name")
	userQ := bleve.NewFuzzyQuery(name)
	userQ.SetField("username")
	return x.search(ctx, bleve.NewDisjunctionQuery(nameQ, userQ), limit)
}
