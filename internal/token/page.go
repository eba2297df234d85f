package token

import "math/rand"

const DefaultPageSize = 9

// Page returns items of the 1-based page. Out of range pages are empty, page < 1 is the first one.
func Page[T any](items []T, page, size int) []T {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	// compare page numbers first, (page-1)*size overflows for huge pages
	if len(items) == 0 || page-1 > (len(items)-1)/size {
		return []T{}
	}
	start := (page - 1) * size
	end := len(items)
	if size < end-start {
		end = start + size
	}

	return items[start:end]
}

// Sample returns up to n items in random order without touching items.
func Sample[T any](items []T, n int, r *rand.Rand) []T {
	out := make([]T, len(items))
	copy(out, items)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if n >= 0 && n < len(out) {
		out = out[:n]
	}

	return out
}
