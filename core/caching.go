package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/scangrade/scangrade/internal/contract"
	"github.com/scangrade/scangrade/schema"
)

// currentCacheVersion tags stored payloads; bumping it orphans every
// existing entry when the report format changes.
const currentCacheVersion = 1

// cacheStaleness bounds how old a cached report may be before recompute
const cacheStaleness = 7 * 24 * time.Hour

// CachedGradeReport grades one metrics document, consulting the grade cache
// when a store is configured on the context.
func CachedGradeReport(ctx context.Context, cfg *contract.Config, path string) (*schema.ReportModel, error) {
	doc, raw, err := LoadMetricsDocument(path, cfg.Catalog)
	if err != nil {
		return nil, err
	}

	mgr := storeManagerFromContext(ctx)
	if mgr == nil {
		return gradeDocument(cfg, doc)
	}
	cache := mgr.GetGradeCacheStore()
	if cache == nil {
		return gradeDocument(cfg, doc)
	}

	key := generateCacheKey(cfg, raw)
	if model := fromCache(cache, key); model != nil {
		return model, nil
	}
	return gradeAndCache(cfg, doc, cache, key)
}

// fromCache returns the report stored under key, or nil when the entry
// is absent, stale, from another format version or unreadable. Every
// nil turns into a recompute, so a broken cache only costs time.
func fromCache(cache contract.CacheStore, key string) *schema.ReportModel {
	data, version, ts, err := cache.Get(key)
	if err != nil || version != currentCacheVersion {
		return nil
	}
	if time.Since(time.Unix(ts, 0)) > cacheStaleness {
		return nil
	}

	var model schema.ReportModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil
	}
	return &model
}

// gradeAndCache grades the document and parks the report under key. A
// failed cache write never fails the grading.
func gradeAndCache(cfg *contract.Config, doc *schema.MetricsDocument, cache contract.CacheStore, key string) (*schema.ReportModel, error) {
	model, err := gradeDocument(cfg, doc)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(model); err == nil {
		_ = cache.Set(key, data, currentCacheVersion, time.Now().Unix())
	}
	return model, nil
}

// generateCacheKey creates a unique key from the raw document bytes and
// every tuning input that can change the assembled report
func generateCacheKey(cfg *contract.Config, raw []byte) string {
	h := sha256.New()
	h.Write(raw)
	fmt.Fprintf(h, "|%s|%s", cfg.Catalog.Fingerprint(), cfg.Sla.Fingerprint())
	return fmt.Sprintf("%x", h.Sum(nil))
}
