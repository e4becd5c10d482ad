package attribution

import (
	"errors"
	"fmt"

	charmlog "github.com/charmbracelet/log"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// tableRow is the relational encoding: a single table keyed by exact
// address match.
type tableRow struct {
	IP       string `gorm:"column:ip;index"`
	OrgID    string `gorm:"column:org_id"`
	Platform string `gorm:"column:platform"`
}

func (tableRow) TableName() string { return "rows" }

type tableDataset struct {
	name string
	db   *gorm.DB
}

func openTable(path string) (*tableDataset, error) {
	silent := logger.New(
		charmlog.Default(),
		logger.Config{LogLevel: logger.Silent},
	)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: silent})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	// Verify the expected table shape up front so a malformed file is
	// rejected at load time, not on the first lookup.
	if !db.Migrator().HasTable(&tableRow{}) {
		return nil, fmt.Errorf("dataset %s has no rows table", path)
	}

	return &tableDataset{name: datasetName(path), db: db}, nil
}

func (d *tableDataset) Name() string { return d.name }

func (d *tableDataset) Lookup(ip string) (Hit, bool) {
	var row tableRow
	err := d.db.Where("ip = ?", ip).Order("rowid").First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			charmlog.Warn("attribution table lookup failed", "dataset", d.name, "error", err)
		}
		return Hit{}, false
	}
	return hitFromRow(Row{IP: row.IP, OrgID: row.OrgID, Platform: row.Platform}), true
}

func (d *tableDataset) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
