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

// Catalog is the repository-side catalog of available packages,
// mirrored locally as a read-only (or read-write, for tests and the
// repo.ScanLocal fixture builder) cache.
type Catalog struct {
	db *gorm.DB
}

// OpenCatalog opens the catalog database at path. When readOnly is
// true, the database must already exist; otherwise it is created
// (with the packages table) if absent.
func OpenCatalog(path string, readOnly bool) (*Catalog, liberr.Error) {
	if readOnly {
		if _, e := os.Stat(path); e != nil {
			return nil, ErrorOpen.Error(e)
		}
	}

	dsn := path
	if readOnly {
		dsn = "file:" + path + "?mode=ro&_query_only=1"
	}

	db, e := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if e != nil {
		return nil, ErrorOpen.Error(e)
	}

	if !readOnly {
		if e = db.AutoMigrate(&PackageInfo{}); e != nil {
			return nil, ErrorMigrate.Error(e)
		}
	}

	return &Catalog{db: db}, nil
}

// Close releases the underlying database connection.
func (c *Catalog) Close() error {
	sql, e := c.db.DB()
	if e != nil {
		return e
	}
	return sql.Close()
}

// Get returns the catalog row for name, or result.NotFound if absent.
func (c *Catalog) Get(name string) (PackageInfo, result.Kind, liberr.Error) {
	var row PackageInfo

	tx := c.db.Where("name = ?", name).First(&row)
	if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		return PackageInfo{}, result.NotFound, ErrorNotFound.Errorf(name)
	}
	if tx.Error != nil {
		return PackageInfo{}, result.StoreError, ErrorQuery.Error(tx.Error)
	}

	return row, result.Ok, nil
}

// Insert adds a catalog row (a row whose ID is already set is updated
// in place). A second row with an existing name or file name fails the
// unique constraint.
func (c *Catalog) Insert(info PackageInfo) liberr.Error {
	tx := c.db.Save(&info)
	if tx.Error != nil {
		return ErrorInsert.Error(tx.Error)
	}
	return nil
}

// Delete removes the catalog row for name.
func (c *Catalog) Delete(name string) liberr.Error {
	tx := c.db.Where("name = ?", name).Delete(&PackageInfo{})
	if tx.Error != nil {
		return ErrorDelete.Error(tx.Error)
	}
	return nil
}

// ForEach iterates every catalog row in name order, calling cb for
// each. Returning false from cb aborts the iteration with
// result.Aborted.
func (c *Catalog) ForEach(cb func(PackageInfo) bool) (result.Kind, liberr.Error) {
	rows, e := c.db.Model(&PackageInfo{}).Order("name").Rows()
	if e != nil {
		return result.StoreError, ErrorQuery.Error(e)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var row PackageInfo
		if e = c.db.ScanRows(rows, &row); e != nil {
			return result.StoreError, ErrorQuery.Error(e)
		}
		if !cb(row) {
			return result.Aborted, ErrorAborted.Error(nil)
		}
	}

	return result.Ok, nil
}
