package api

import (
	"bufio"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

var publicRoutes = map[string]bool{
	`"/"`:         true,
	`"/login"`:    true,
	`"/register"`: true,
	`"/logout"`:   true,
	`"/health"`:   true,
}

// Every registered route is either on the public list or wrapped in the
// session gate. A new route added without a guard fails here.
func TestRoutesRequireSessionGuards(t *testing.T) {
	path := filepath.Join(packageDir(t), "routes.go")
	lines := readLines(t, path)
	found := 0
	for i, line := range lines {
		if !strings.Contains(line, "r.MethodFunc(") {
			continue
		}
		found++
		if isPublicRoute(line) {
			continue
		}
		if strings.Contains(line, "s.withSession(") {
			continue
		}
		t.Fatalf("unguarded route in %s:%d -> %s", path, i+1, strings.TrimSpace(line))
	}
	if found == 0 {
		t.Fatalf("no routes found in %s", path)
	}
}

// Guarded pages and APIs must also name a permission; only the dashboard
// shell is session-only.
func TestGuardedRoutesNamePermission(t *testing.T) {
	path := filepath.Join(packageDir(t), "routes.go")
	lines := readLines(t, path)
	for i, line := range lines {
		if !strings.Contains(line, "s.withSession(") {
			continue
		}
		if strings.Contains(line, `"/dashboard"`) {
			continue
		}
		if strings.Contains(line, "require(rbac.Perm") {
			continue
		}
		t.Fatalf("guarded route without permission in %s:%d -> %s", path, i+1, strings.TrimSpace(line))
	}
}

func isPublicRoute(line string) bool {
	for pattern := range publicRoutes {
		if strings.Contains(line, pattern+",") {
			return true
		}
	}
	return false
}

func packageDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("cannot resolve caller path")
	}
	return filepath.Dir(file)
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan %s: %v", path, err)
	}
	return lines
}
