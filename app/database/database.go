package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/Givikap120/danser-reading/app/beatmap/difficulty"
	_ "github.com/mattn/go-sqlite3"
)

const initStatement = `
	create table if not exists reading
	  (
		  md5 text not null,
		  mods integer not null,
		  version integer not null,
		  clock_rate real not null,
		  reading real,
		  strain_count real,
		  objects integer,
		  primary key (md5, mods, version, clock_rate)
	  );
	`

// Entry is a cached reading rating of a single beatmap with given mods
type Entry struct {
	MD5       string
	Mods      difficulty.Modifier
	Version   int
	ClockRate float64

	Reading     float64
	StrainCount float64
	Objects     int
}

type Cache struct {
	db *sql.DB
}

func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}

	if _, err = db.Exec(initStatement); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache %s: %w", path, err)
	}

	return &Cache{db: db}, nil
}

// cacheMods masks mods to the ones that change difficulty. NC rates the same as DT.
func cacheMods(mods difficulty.Modifier) difficulty.Modifier {
	mods = difficulty.GetDiffMaskedMods(mods)

	if mods.Active(difficulty.Nightcore) {
		mods = mods&^difficulty.Nightcore | difficulty.DoubleTime
	}

	return mods
}

// Get looks up an entry, mods are normalized with cacheMods.
func (c *Cache) Get(md5 string, mods difficulty.Modifier, clockRate float64, version int) (Entry, bool, error) {
	entry := Entry{
		MD5:       md5,
		Mods:      cacheMods(mods),
		Version:   version,
		ClockRate: clockRate,
	}

	row := c.db.QueryRow("select reading, strain_count, objects from reading where md5 = ? and mods = ? and version = ? and clock_rate = ?",
		entry.MD5, int64(entry.Mods), entry.Version, entry.ClockRate)

	err := row.Scan(&entry.Reading, &entry.StrainCount, &entry.Objects)
	if errors.Is(err, sql.ErrNoRows) {
		return entry, false, nil
	}

	if err != nil {
		return entry, false, fmt.Errorf("load cached rating: %w", err)
	}

	return entry, true, nil
}

func (c *Cache) Put(entry Entry) error {
	_, err := c.db.Exec("insert or replace into reading(md5, mods, version, clock_rate, reading, strain_count, objects) values(?, ?, ?, ?, ?, ?, ?)",
		entry.MD5, int64(cacheMods(entry.Mods)), entry.Version, entry.ClockRate, entry.Reading, entry.StrainCount, entry.Objects)
	if err != nil {
		return fmt.Errorf("save rating: %w", err)
	}

	return nil
}

// Prune removes entries made by other calculator versions and returns how many were removed.
func (c *Cache) Prune(version int) (int64, error) {
	result, err := c.db.Exec("delete from reading where version != ?", version)
	if err != nil {
		return 0, fmt.Errorf("prune cache: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		log.Println("Removed", removed, "outdated ratings from cache")
	}

	return removed, nil
}

func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}

	return c.db.Close()
}
