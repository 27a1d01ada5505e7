/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package store implements the two tabular stores: the catalog
// (mirrored from the repository) and the registry (installed packages
// and their file manifests). Both are embedded SQLite databases
// opened through gorm (gorm.io/gorm + gorm.io/driver/sqlite).
package store

// Reason is the registry's provenance tag for an installed package; it
// is the sole authority cleanup uses to decide whether a package is an
// orphan dependency.
type Reason string

const (
	ReasonUser       Reason = "user"
	ReasonDependency Reason = "dependency"
	ReasonCore       Reason = "core"
)

// EmptyDeps is the sentinel used for a package with no dependencies.
// Legacy rows may instead carry an empty string; SplitDeps treats both
// as equivalent.
const EmptyDeps = "-"

// PackageInfo is one catalog row, keyed by Name.
type PackageInfo struct {
	ID          uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string `gorm:"column:name;unique;not null"`
	Version     string `gorm:"column:version;not null"`
	Description string `gorm:"column:desc;not null"`
	FileName    string `gorm:"column:file_name;unique;not null"`
	Arch        string `gorm:"column:arch;not null"`
	Deps        string `gorm:"column:deps;not null"`
}

// TableName pins the catalog schema's table name.
func (PackageInfo) TableName() string { return "packages" }

// RegistryPackage is one registry row: PackageInfo plus the
// installation Reason.
type RegistryPackage struct {
	ID          uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string `gorm:"column:name;unique;not null"`
	Version     string `gorm:"column:version;not null"`
	Description string `gorm:"column:desc;not null"`
	FileName    string `gorm:"column:file_name;unique;not null"`
	Arch        string `gorm:"column:arch;not null"`
	Deps        string `gorm:"column:deps;not null"`
	Reason      string `gorm:"column:reason;not null"`
}

func (RegistryPackage) TableName() string { return "packages" }

// Info strips the Reason field, for code shared between catalog and
// registry rows.
func (r RegistryPackage) Info() PackageInfo {
	return PackageInfo{
		ID:          r.ID,
		Name:        r.Name,
		Version:     r.Version,
		Description: r.Description,
		FileName:    r.FileName,
		Arch:        r.Arch,
		Deps:        r.Deps,
	}
}

// FileRow is one row of the registry's file manifest: the path
// extracted by an install, relative to the prefix.
type FileRow struct {
	ID      uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	Package string `gorm:"column:package"`
	Path    string `gorm:"column:path"`
}

func (FileRow) TableName() string { return "files" }

// SplitDeps parses a catalog/registry Deps field into a distinct,
// ordered list of dependency names. Both "-" and "" denote no
// dependencies.
func SplitDeps(deps string) []string {
	if deps == EmptyDeps || deps == "" {
		return nil
	}

	fields := splitWhitespace(deps)
	out := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// JoinDeps is SplitDeps's inverse, producing the EmptyDeps sentinel for
// an empty list.
func JoinDeps(names []string) string {
	if len(names) == 0 {
		return EmptyDeps
	}

	out := names[0]
	for _, n := range names[1:] {
		out += " " + n
	}
	return out
}

func splitWhitespace(s string) []string {
	var out []string
	start := -1
	for i, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

// DependsOn reports whether deps (a catalog/registry Deps field)
// contains name as one of its whitespace-separated tokens.
func DependsOn(deps, name string) bool {
	for _, d := range SplitDeps(deps) {
		if d == name {
			return true
		}
	}
	return false
}
