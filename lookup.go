// This file is part of the library "pulsenative".
// Please see the LICENSE file for copyright information.

package pulsenative

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

const cookieLength = 256

// findSocket resolves the server socket path: explicit configuration,
// then $PULSE_SERVER (unix: form only), then the runtime directory
// candidates. Candidates are only accepted when the path stats as a
// socket; whether anything is listening on it is not checked.
func findSocket(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if server := os.Getenv("PULSE_SERVER"); server != "" {
		if p, ok := strings.CutPrefix(server, "unix:"); ok {
			return p, nil
		}
		return "", fmt.Errorf("unsupported PULSE_SERVER %q: only unix:/path is supported", server)
	}

	var candidates []string
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		candidates = append(candidates, filepath.Join(runtimeDir, "pulse", "native"))
	}
	candidates = append(candidates,
		filepath.Join("/run", "user", strconv.Itoa(os.Getuid()), "pulse", "native"))

	for _, p := range candidates {
		if isSocket(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("no server socket found (tried %s)", strings.Join(candidates, ", "))
}

// isSocket reports whether path exists and is a Unix socket.
func isSocket(path string) bool {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return false
	}
	return st.Mode&unix.S_IFMT == unix.S_IFSOCK
}

// findCookie locates and reads the 256-byte authentication cookie:
// explicit configuration, $PULSE_COOKIE, then the user config
// directories.
func findCookie(explicit string) ([]byte, error) {
	candidates := make([]string, 0, 4)
	if explicit != "" {
		candidates = append(candidates, explicit)
	} else {
		if p := os.Getenv("PULSE_COOKIE"); p != "" {
			candidates = append(candidates, p)
		}
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			candidates = append(candidates, filepath.Join(xdg, "pulse", "cookie"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			candidates = append(candidates, filepath.Join(home, ".config", "pulse", "cookie"))
		}
	}

	var firstErr error
	for _, p := range candidates {
		cookie, err := readCookie(p)
		if err == nil {
			return cookie, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = fmt.Errorf("no cookie path candidates")
	}
	return nil, firstErr
}

func readCookie(path string) ([]byte, error) {
	cookie, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(cookie) != cookieLength {
		return nil, fmt.Errorf("cookie %s has length %d, expected %d", path, len(cookie), cookieLength)
	}
	return cookie, nil
}
