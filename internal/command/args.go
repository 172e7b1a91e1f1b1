// pattern: Functional Core

package command

import (
	"path/filepath"
	"strings"
)

// ResolveArgs makes path-like caller arguments absolute against root so they
// keep pointing at the same file when the command runs in another
// directory. Quoted arguments, flags and absolute paths are left alone.
func ResolveArgs(root string, args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		if strings.Contains(arg, "/") &&
			!strings.HasPrefix(arg, `"`) &&
			!strings.HasPrefix(arg, "'") &&
			!strings.HasPrefix(arg, "-") &&
			!strings.HasPrefix(arg, "/") {
			arg = filepath.Join(root, arg)
		}
		out[i] = arg
	}
	return out
}
