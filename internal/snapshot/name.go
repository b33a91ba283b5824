package snapshot

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/thoreinstein/checkpoint/internal/errors"
)

const invalidNameChars = `<>:"/\|?*`

// ValidateName rejects empty names and names containing any of <>:"/\|?*
// or control characters. Surrounding whitespace is ignored.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalidf("checkpoint name is empty")
	}
	if i := strings.IndexAny(name, invalidNameChars); i >= 0 {
		return invalidf("checkpoint name %q contains invalid character %q (not allowed: %s)",
			name, name[i], invalidNameChars)
	}
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return invalidf("checkpoint name %q contains a control character", name)
	}
	return nil
}

// SanitizeName maps every rune other than a letter, digit, '-' or '_' to '_'.
// An empty result becomes "checkpoint".
func SanitizeName(name string) string {
	s := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, name)
	if s == "" {
		return "checkpoint"
	}
	return s
}

// allocate claims a fresh folder under root, trying base, base_1 ... base_99.
// os.Mkdir fails on an existing entry, so concurrent callers never share a folder.
func allocate(root, base string) (string, error) {
	for i := range maxNameAttempts {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s_%d", base, i)
		}
		p := filepath.Join(root, name)
		err := os.Mkdir(p, dirPerm)
		if err == nil {
			return p, nil
		}
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		return "", fatalf(ErrBackupRootUnavailable, err, "creating checkpoint folder %s", p)
	}
	return "", errors.Wrapf(ErrNamingExhausted, "%s after %d attempts", base, maxNameAttempts)
}
