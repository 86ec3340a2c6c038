package xref

import "context"

// Item is one link to correct: its URL and the document containing it.
type Item struct {
	URL    string   `json:"url"`
	Source Document `json:"source"`
}

// Record is the outcome of correcting one Item.
type Record struct {
	Item      Item     `json:"item"`
	Category  Category `json:"category"`
	Corrected string   `json:"corrected"` // equals Item.URL when not solved
	Solved    bool     `json:"solved"`
}

// CacheKey identifies a correction by source document and original URL, so
// several links in one document each keep their own entry.
type CacheKey struct {
	Source string `json:"source"`
	URL    string `json:"url"`
}

// CorrectionCache holds solved corrections for the lifetime of a
// BatchCorrector. Entries are never evicted. Writing an existing key replaces
// the prior record (last write wins) and is counted in Overwrites.
type CorrectionCache struct {
	entries    map[CacheKey]Record
	order      []CacheKey
	overwrites int
}

// NewCorrectionCache returns an empty cache.
func NewCorrectionCache() *CorrectionCache {
	return &CorrectionCache{entries: make(map[CacheKey]Record)}
}

// Put stores r under its key.
func (c *CorrectionCache) Put(r Record) {
	k := CacheKey{Source: r.Item.Source.Path, URL: r.Item.URL}
	if _, ok := c.entries[k]; ok {
		c.overwrites++
	} else {
		c.order = append(c.order, k)
	}
	c.entries[k] = r
}

// Get returns the record stored under k.
func (c *CorrectionCache) Get(k CacheKey) (Record, bool) {
	r, ok := c.entries[k]
	return r, ok
}

// Len returns the number of distinct keys.
func (c *CorrectionCache) Len() int { return len(c.entries) }

// Overwrites returns how many Puts replaced an existing entry.
func (c *CorrectionCache) Overwrites() int { return c.overwrites }

// Records returns the cached records in first-insertion order of their keys.
func (c *CorrectionCache) Records() []Record {
	out := make([]Record, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.entries[k])
	}
	return out
}

// BatchResult is the outcome of a batch run.
type BatchResult struct {
	Records   []Record `json:"records"`
	Attempted int      `json:"attempted"`
	Solved    int      `json:"solved"`
	Skipped   int      `json:"skipped"`
}

func (r *BatchResult) merge(o BatchResult) {
	r.Records = append(r.Records, o.Records...)
	r.Attempted += o.Attempted
	r.Solved += o.Solved
	r.Skipped += o.Skipped
}

// BatchCorrector runs classify and synthesize over collections of links,
// caching solved corrections.
type BatchCorrector struct {
	cache *CorrectionCache
}

// NewBatchCorrector returns a BatchCorrector with an empty cache.
func NewBatchCorrector() *BatchCorrector {
	return &BatchCorrector{cache: NewCorrectionCache()}
}

// Cache returns the corrector's cache.
func (b *BatchCorrector) Cache() *CorrectionCache { return b.cache }

// CorrectOne classifies and synthesizes a single item without touching the cache.
func CorrectOne(it Item) Record {
	rec := Record{Item: it, Category: Other, Corrected: it.URL}
	if !IsEligible(it.URL) {
		return rec
	}
	rec.Category = Classify(it.URL)
	if corrected, changed := Synthesize(rec.Category, it.Source, it.URL); changed {
		rec.Corrected = corrected
		rec.Solved = true
	}
	return rec
}

// Correct processes items in order. Every item is counted as attempted;
// solved records are written to the cache.
func (b *BatchCorrector) Correct(items []Item) BatchResult {
	res := correctAll(items)
	b.store(res)
	return res
}

// CorrectDocuments processes each document's items on up to workers
// goroutines. Results are merged, and cached, in document order so the
// outcome matches a sequential run.
func (b *BatchCorrector) CorrectDocuments(ctx context.Context, docs [][]Item, workers int) (BatchResult, error) {
	partial := make([]BatchResult, len(docs))
	err := runIndexed(ctx, len(docs), workers, func(i int) {
		partial[i] = correctAll(docs[i])
	})
	if err != nil {
		return BatchResult{}, err
	}

	var res BatchResult
	for _, p := range partial {
		res.merge(p)
	}
	b.store(res)
	return res, nil
}

func (b *BatchCorrector) store(res BatchResult) {
	for _, r := range res.Records {
		if r.Solved {
			b.cache.Put(r)
		}
	}
}

func correctAll(items []Item) BatchResult {
	res := BatchResult{Records: make([]Record, 0, len(items))}
	for _, it := range items {
		rec := CorrectOne(it)
		res.Records = append(res.Records, rec)
		res.Attempted++
		if rec.Solved {
			res.Solved++
		} else {
			res.Skipped++
		}
	}
	return res
}
