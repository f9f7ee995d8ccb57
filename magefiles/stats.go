// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// sourceRoots are the directories holding module code.
var sourceRoots = []string{"cmd", "internal", "pkg"}

// packageStats is the line and test count of one Go package directory.
type packageStats struct {
	Package string `json:"package"`
	Prod    int    `json:"prod"`
	Test    int    `json:"test"`
	Tests   int    `json:"tests"`
}

// Stats prints per-package Go line counts and test function counts as JSON,
// followed by a total row.
func Stats() error {
	byDir := map[string]*packageStats{}
	for _, root := range sourceRoots {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			continue
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".go" {
				return nil
			}
			return addFile(byDir, path)
		})
		if err != nil {
			return fmt.Errorf("walking %s: %w", root, err)
		}
	}

	rows := make([]packageStats, 0, len(byDir)+1)
	total := packageStats{Package: "total"}
	for _, ps := range byDir {
		rows = append(rows, *ps)
		total.Prod += ps.Prod
		total.Test += ps.Test
		total.Tests += ps.Tests
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Package < rows[j].Package })
	rows = append(rows, total)

	out, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func addFile(byDir map[string]*packageStats, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dir := filepath.ToSlash(filepath.Dir(path))
	ps, ok := byDir[dir]
	if !ok {
		ps = &packageStats{Package: dir}
		byDir[dir] = ps
	}

	lines := bytes.Count(data, []byte("\n"))
	if len(data) > 0 && data[len(data)-1] != '\n' {
		lines++
	}
	if !strings.HasSuffix(path, "_test.go") {
		ps.Prod += lines
		return nil
	}
	ps.Test += lines
	ps.Tests += bytes.Count(data, []byte("\nfunc Test"))
	return nil
}
