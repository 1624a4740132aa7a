// cmd/goarraycow/files.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	ignore "github.com/sabhiram/go-gitignore"
)

// collectVersionFiles lists the regular files under dir in
// lexicographic order. The order is the edit history: each file is one
// version of the document. With useGitignore, a .gitignore at the root
// of dir excludes matching paths; the .gitignore itself is never a
// version.
func collectVersionFiles(dir string, useGitignore bool) ([]string, error) {
	var matcher *ignore.GitIgnore
	if useGitignore {
		if m, err := ignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore")); err == nil {
			matcher = m
		}
	}

	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Base(path) == ".gitignore" {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if matcher != nil && matcher.MatchesPath(rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no version files found in %s", dir)
	}
	sort.Strings(files)
	return files, nil
}
