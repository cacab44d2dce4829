package engine

import "strings"

const defaultExt = ".sql"

// dumpExtensions are recognized output extensions, longest first.
var dumpExtensions = []string{".sql.gz", ".sql"}

// SplitBasename strips a known dump extension from name and returns the
// remaining base and the extension to reuse for both output files. An empty
// base is replaced with newID().
func SplitBasename(name string, newID IDGenerator) (base, ext string) {
	base, ext = name, defaultExt
	lower := strings.ToLower(name)
	for _, e := range dumpExtensions {
		if strings.HasSuffix(lower, e) {
			base = name[:len(name)-len(e)]
			ext = name[len(name)-len(e):]
			break
		}
	}

	if base == "" || strings.HasSuffix(base, "/") {
		base += newID()
	}
	return base, ext
}

// OutputNames returns the data and structure file names for base and ext.
func OutputNames(base, ext string) (dataFile, structureFile string) {
	return base + "-1" + ext, base + "-2" + ext
}
