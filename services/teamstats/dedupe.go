package teamstats

import "forzestats-backend/lib/scrapers/faceit"

// Dedupe drops repeated match ids, keeping the first occurrence so the
// source ordering survives. Running it twice is a no-op.
func Dedupe(matches []Match) []Match {
	seen := make(map[string]struct{}, len(matches))
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}

// DedupeRecords deduplicates raw history records before the expensive
// per-match enrichment pass. Records without an id are kept, they get
// positional ids later.
func DedupeRecords(records []faceit.RawMatch) []faceit.RawMatch {
	seen := make(map[string]struct{}, len(records))
	out := make([]faceit.RawMatch, 0, len(records))
	for _, r := range records {
		id := r.ExtractID()
		if id != "" {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
		}
		out = append(out, r)
	}
	return out
}
