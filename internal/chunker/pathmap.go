package chunker

import "strings"

// normalizePath unifies path separators to '/' and trims a trailing slash,
// so DB-recorded Windows-style paths and local POSIX paths compare cleanly.
func normalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}
	return p
}

// isAbsolutePath recognizes POSIX-absolute, UNC-like, and Windows
// drive-letter paths.
func isAbsolutePath(p string) bool {
	if p == "" {
		return false
	}
	if p[0] == '/' || p[0] == '\\' {
		return true
	}
	return len(p) > 1 && isASCIILetter(p[0]) && p[1] == ':'
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// joinPath joins base and rel in normalized form; an absolute rel is
// returned unchanged.
func joinPath(base, rel string) string {
	if base == "" {
		return rel
	}
	if rel == "" {
		return base
	}
	a := normalizePath(base)
	b := normalizePath(rel)
	if isAbsolutePath(b) {
		return b
	}
	if !strings.HasSuffix(a, "/") {
		a += "/"
	}
	return a + b
}

// relativeTo returns path relative to root (normalized), and ok=false if
// path does not lie under root.
func relativeTo(path, root string) (string, bool) {
	p := normalizePath(path)
	r := normalizePath(root)
	if r == "" {
		return "", false
	}
	if p == r {
		return "", true
	}
	rSlash := r
	if !strings.HasSuffix(rSlash, "/") {
		rSlash += "/"
	}
	if len(p) > len(rSlash) && strings.HasPrefix(p, rSlash) {
		return p[len(rSlash):], true
	}
	return "", false
}

// mapDBPathToLocal maps a file path as recorded in the index (under
// indexedRoot) to its local filesystem path (under localRoot). Falls back
// to the normalized DB path when it does not lie under indexedRoot.
func mapDBPathToLocal(dbPath, indexedRoot, localRoot string) string {
	if rel, ok := relativeTo(dbPath, indexedRoot); ok {
		return joinPath(localRoot, rel)
	}
	return normalizePath(dbPath)
}

// resolvePrefixes turns configured paths_to_chunk entries into DB-space
// path prefixes: an absolute entry under localRoot is translated to
// indexed space; any other absolute entry is assumed already in indexed
// space; a relative entry joins indexedRoot (falling back to localRoot).
func resolvePrefixes(paths []string, indexedRoot, localRoot string) []string {
	prefixes := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		entry := normalizePath(p)
		var prefix string
		switch {
		case isAbsolutePath(entry):
			if rel, ok := relativeTo(entry, localRoot); ok {
				prefix = joinPath(indexedRoot, rel)
			} else if entry == normalizePath(localRoot) {
				prefix = indexedRoot
			} else {
				prefix = entry
			}
		case indexedRoot != "":
			prefix = joinPath(indexedRoot, entry)
		default:
			prefix = joinPath(localRoot, entry)
		}
		prefixes = append(prefixes, normalizePath(prefix))
	}
	return prefixes
}

// fileSelected reports whether path equals or is nested under any prefix.
// An empty prefix list selects every file.
func fileSelected(path string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	fpath := normalizePath(path)
	for _, prefix := range prefixes {
		if fpath == prefix {
			return true
		}
		prefixSlash := prefix
		if !strings.HasSuffix(prefixSlash, "/") {
			prefixSlash += "/"
		}
		if strings.HasPrefix(fpath, prefixSlash) {
			return true
		}
	}
	return false
}
