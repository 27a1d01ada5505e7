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

package store

import (
	"errors"
	"os"

	liberr "github.com/nabbar/packdude/errors"
	"github.com/nabbar/packdude/result"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Registry is the host-side registry of installed packages and their
// file manifests: the `packages` and `files` tables.
type Registry struct {
	db *gorm.DB
}

// OpenRegistry opens (creating if absent) the registry database at
// path, initializing both tables in one transaction the first time.
func OpenRegistry(path string) (*Registry, liberr.Error) {
	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)

	db, e := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Discard})
	if e != nil {
		return nil, ErrorOpen.Error(e)
	}

	if fresh {
		e = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.AutoMigrate(&RegistryPackage{}); err != nil {
				return err
			}
			return tx.AutoMigrate(&FileRow{})
		})
	} else {
		e = db.AutoMigrate(&RegistryPackage{}, &FileRow{})
	}
	if e != nil {
		return nil, ErrorMigrate.Error(e)
	}

	return &Registry{db: db}, nil
}

// Close releases the underlying database connection.
func (r *Registry) Close() error {
	sql, e := r.db.DB()
	if e != nil {
		return e
	}
	return sql.Close()
}

// Get returns the registry row for name, or result.NotFound if the
// package is not installed.
func (r *Registry) Get(name string) (RegistryPackage, result.Kind, liberr.Error) {
	var row RegistryPackage

	tx := r.db.Where("name = ?", name).First(&row)
	if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		return RegistryPackage{}, result.NotFound, ErrorNotFound.Errorf(name)
	}
	if tx.Error != nil {
		return RegistryPackage{}, result.StoreError, ErrorQuery.Error(tx.Error)
	}

	return row, result.Ok, nil
}

// IsInstalled reports whether name has a registry row.
func (r *Registry) IsInstalled(name string) (bool, liberr.Error) {
	_, kind, err := r.Get(name)
	switch kind {
	case result.Ok:
		return true, nil
	case result.NotFound:
		return false, nil
	default:
		return false, err
	}
}

// Insert adds the registry.packages row for an installed package (the
// final act of an install).
func (r *Registry) Insert(info RegistryPackage) liberr.Error {
	if tx := r.db.Save(&info); tx.Error != nil {
		return ErrorInsert.Error(tx.Error)
	}
	return nil
}

// Delete removes the registry.packages row for name.
func (r *Registry) Delete(name string) liberr.Error {
	if tx := r.db.Where("name = ?", name).Delete(&RegistryPackage{}); tx.Error != nil {
		return ErrorDelete.Error(tx.Error)
	}
	return nil
}

// ForEachInstalled iterates every installed package. Returning false
// from cb aborts the iteration with result.Aborted.
func (r *Registry) ForEachInstalled(cb func(RegistryPackage) bool) (result.Kind, liberr.Error) {
	rows, e := r.db.Model(&RegistryPackage{}).Order("name").Rows()
	if e != nil {
		return result.StoreError, ErrorQuery.Error(e)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var row RegistryPackage
		if e = r.db.ScanRows(rows, &row); e != nil {
			return result.StoreError, ErrorQuery.Error(e)
		}
		if !cb(row) {
			return result.Aborted, ErrorAborted.Error(nil)
		}
	}

	return result.Ok, nil
}

// RegisterPath appends one row to registry.files for an extracted
// path.
func (r *Registry) RegisterPath(pkg, path string) liberr.Error {
	row := FileRow{Package: pkg, Path: path}
	if tx := r.db.Create(&row); tx.Error != nil {
		return ErrorInsert.Error(tx.Error)
	}
	return nil
}

// RegisterPaths appends a batch of rows in one transaction: the whole
// batch lands or none of it does, so a short-circuited extraction
// leaves no orphan manifest rows behind.
func (r *Registry) RegisterPaths(pkg string, paths []string) liberr.Error {
	if len(paths) == 0 {
		return nil
	}

	rows := make([]FileRow, 0, len(paths))
	for _, p := range paths {
		rows = append(rows, FileRow{Package: pkg, Path: p})
	}

	if tx := r.db.Create(&rows); tx.Error != nil {
		return ErrorInsert.Error(tx.Error)
	}
	return nil
}

// UnregisterPath removes a registry.files row by path, called after a
// successful delete during removal.
func (r *Registry) UnregisterPath(path string) liberr.Error {
	if tx := r.db.Where("path = ?", path).Delete(&FileRow{}); tx.Error != nil {
		return ErrorDelete.Error(tx.Error)
	}
	return nil
}

// ForEachFile iterates every registry.files row for pkg in descending
// id order, the order removal uses to delete children before parents.
// Returning false from cb aborts with result.Aborted.
func (r *Registry) ForEachFile(pkg string, cb func(FileRow) bool) (result.Kind, liberr.Error) {
	rows, e := r.db.Model(&FileRow{}).Where("package = ?", pkg).Order("id DESC").Rows()
	if e != nil {
		return result.StoreError, ErrorQuery.Error(e)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var row FileRow
		if e = r.db.ScanRows(rows, &row); e != nil {
			return result.StoreError, ErrorQuery.Error(e)
		}
		if !cb(row) {
			return result.Aborted, ErrorAborted.Error(nil)
		}
	}

	return result.Ok, nil
}
