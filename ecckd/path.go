package ecckd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ModChain/hdcrypto"
)

// ParsePath parses a derivation path such as m/44'/0'/0'/0/1 into the list of
// child indices.  Hardened components are marked with a trailing ', h or H.
// The leading m is optional and "m" alone is the empty path.
func ParsePath(path string) ([]uint32, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, makeError(hdcrypto.ErrInvalidPath, "empty derivation path")
	}

	parts := strings.Split(path, "/")
	if parts[0] == "m" || parts[0] == "M" {
		parts = parts[1:]
	}

	indices := make([]uint32, 0, len(parts))
	for _, part := range parts {
		var hardened bool
		switch {
		case strings.HasSuffix(part, "'"), strings.HasSuffix(part, "h"),
			strings.HasSuffix(part, "H"):

			hardened = true
			part = part[:len(part)-1]
		}

		// ParseUint rejects signs and only allows underscores with base
		// 0, so only plain digits get through.
		v, err := strconv.ParseUint(part, 10, 32)
		if err != nil || v >= HardenedKeyStart {
			str := fmt.Sprintf("invalid path component %q in %q", part, path)
			return nil, makeError(hdcrypto.ErrInvalidPath, str)
		}

		i := uint32(v)
		if hardened {
			i += HardenedKeyStart
		}
		indices = append(indices, i)
	}
	return indices, nil
}

// FormatPath returns the textual form of a derivation path using ' as the
// hardened marker.
func FormatPath(path []uint32) string {
	var b strings.Builder
	b.WriteString("m")
	for _, i := range path {
		b.WriteByte('/')
		if i >= HardenedKeyStart {
			b.WriteString(strconv.FormatUint(uint64(i-HardenedKeyStart), 10))
			b.WriteByte('\'')
			continue
		}
		b.WriteString(strconv.FormatUint(uint64(i), 10))
	}
	return b.String()
}
