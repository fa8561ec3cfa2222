// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

// Package projstore persists projects (a name plus a full workspace file
// tree) in a sqlite database under the canvascraft home directory.
package projstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sawka/txwrap"

	"github.com/canvascraft/canvascraft/db"
	"github.com/canvascraft/canvascraft/pkg/cbase"
	"github.com/canvascraft/canvascraft/pkg/filetree"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
)

const DBFileName = "canvascraft.db"
const MaxMigration = 1

var globalDBLock = &sync.Mutex{}
var globalDB *sqlx.DB
var globalDBErr error

type TxWrap = txwrap.TxWrap

type SingleConnDBGetter struct {
	SingleConnLock *sync.Mutex
}

var dbWrap *SingleConnDBGetter

func init() {
	dbWrap = &SingleConnDBGetter{SingleConnLock: &sync.Mutex{}}
}

func (dbg *SingleConnDBGetter) GetDB(ctx context.Context) (*sqlx.DB, error) {
	db, err := GetDB(ctx)
	if err != nil {
		return nil, err
	}
	dbg.SingleConnLock.Lock()
	return db, nil
}

func (dbg *SingleConnDBGetter) ReleaseDB(db *sqlx.DB) {
	dbg.SingleConnLock.Unlock()
}

func WithTx(ctx context.Context, fn func(tx *TxWrap) error) error {
	return txwrap.DBGWithTx(ctx, dbWrap, fn)
}

func GetDBName() string {
	return path.Join(cbase.GetCraftHomeDir(), DBFileName)
}

func GetDB(ctx context.Context) (*sqlx.DB, error) {
	if txwrap.IsTxWrapContext(ctx) {
		return nil, fmt.Errorf("cannot call GetDB from within a running transaction")
	}
	globalDBLock.Lock()
	defer globalDBLock.Unlock()
	if globalDB == nil && globalDBErr == nil {
		dbName := GetDBName()
		globalDB, globalDBErr = sqlx.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc&_journal_mode=WAL&_busy_timeout=5000", dbName))
		if globalDBErr != nil {
			globalDBErr = fmt.Errorf("opening db[%s]: %w", dbName, globalDBErr)
			log.Printf("[db] error: %v\n", globalDBErr)
		} else {
			log.Printf("[db] successfully opened db %s\n", dbName)
		}
	}
	return globalDB, globalDBErr
}

func CloseDB() {
	globalDBLock.Lock()
	defer globalDBLock.Unlock()
	if globalDB == nil {
		return
	}
	err := globalDB.Close()
	if err != nil {
		log.Printf("[db] error closing database: %v\n", err)
	}
	globalDB = nil
}

func MakeMigrate() (*migrate.Migrate, error) {
	fsVar, err := iofs.New(db.MigrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("opening iofs: %w", err)
	}
	dbUrl := fmt.Sprintf("sqlite3://%s", GetDBName())
	m, err := migrate.NewWithSourceInstance("iofs", fsVar, dbUrl)
	if err != nil {
		return nil, fmt.Errorf("making migration db[%s]: %w", GetDBName(), err)
	}
	return m, nil
}

// MigrateVersion returns curVersion, dirty, error.
func MigrateVersion(m *migrate.Migrate) (uint, bool, error) {
	if m == nil {
		var err error
		m, err = MakeMigrate()
		if err != nil {
			return 0, false, err
		}
	}
	curVersion, dirty, err := m.Version()
	if err == migrate.ErrNilVersion {
		return 0, false, nil
	}
	return curVersion, dirty, err
}

func MigrateUp(targetVersion uint) error {
	m, err := MakeMigrate()
	if err != nil {
		return err
	}
	curVersion, dirty, err := MigrateVersion(m)
	if dirty {
		return fmt.Errorf("cannot migrate up, database is dirty")
	}
	if err != nil {
		return fmt.Errorf("cannot get current migration version: %v", err)
	}
	if curVersion >= targetVersion {
		return nil
	}
	log.Printf("[db] migrating from %d to %d\n", curVersion, targetVersion)
	err = m.Migrate(targetVersion)
	if err != nil {
		return err
	}
	log.Printf("[db] migration done, new version = %d\n", targetVersion)
	return nil
}

// EnsureDB creates the home directory if needed and brings the schema to
// the current version.  Call once at startup, before any store op.
func EnsureDB() error {
	_, err := cbase.EnsureHomeDir()
	if err != nil {
		return err
	}
	return MigrateUp(MaxMigration)
}

type ProjectType struct {
	ProjectId  string            `json:"projectid"`
	Name       string            `json:"name"`
	Workspace  filetree.FileNode `json:"workspace"`
	CreatedTs  int64             `json:"createdts"`
	ModifiedTs int64             `json:"modifiedts"`
}

type AutosaveType struct {
	ProjectId string            `json:"projectid"`
	Workspace filetree.FileNode `json:"workspace"`
	SavedTs   int64             `json:"savedts"`
}

// projectRow mirrors the project table; workspace is a json column.
type projectRow struct {
	ProjectId  string `db:"projectid"`
	Name       string `db:"name"`
	Workspace  string `db:"workspace"`
	CreatedTs  int64  `db:"createdts"`
	ModifiedTs int64  `db:"modifiedts"`
}

func (row *projectRow) toProject() (*ProjectType, error) {
	rtn := &ProjectType{
		ProjectId:  row.ProjectId,
		Name:       row.Name,
		CreatedTs:  row.CreatedTs,
		ModifiedTs: row.ModifiedTs,
	}
	err := json.Unmarshal([]byte(row.Workspace), &rtn.Workspace)
	if err != nil {
		return nil, fmt.Errorf("unmarshaling workspace for project %s: %w", row.ProjectId, err)
	}
	return rtn, nil
}

func workspaceJson(workspace filetree.FileNode) (string, error) {
	barr, err := json.Marshal(workspace)
	if err != nil {
		return "", fmt.Errorf("marshaling workspace: %w", err)
	}
	return string(barr), nil
}

// InsertProject saves a new project and returns it with its fresh id and
// timestamps filled in.
func InsertProject(ctx context.Context, name string, workspace filetree.FileNode) (*ProjectType, error) {
	wsJson, err := workspaceJson(workspace)
	if err != nil {
		return nil, err
	}
	now := time.Now().UnixMilli()
	rtn := &ProjectType{
		ProjectId:  uuid.New().String(),
		Name:       name,
		Workspace:  workspace,
		CreatedTs:  now,
		ModifiedTs: now,
	}
	txErr := WithTx(ctx, func(tx *TxWrap) error {
		query := `INSERT INTO project (projectid, name, workspace, createdts, modifiedts)
		          VALUES (?, ?, ?, ?, ?)`
		tx.Exec(query, rtn.ProjectId, rtn.Name, wsJson, rtn.CreatedTs, rtn.ModifiedTs)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return rtn, nil
}

// UpdateProjectWorkspace overwrites a project's workspace and bumps its
// modified timestamp.  Errors when the project does not exist.
func UpdateProjectWorkspace(ctx context.Context, projectId string, workspace filetree.FileNode) error {
	wsJson, err := workspaceJson(workspace)
	if err != nil {
		return err
	}
	return WithTx(ctx, func(tx *TxWrap) error {
		if !tx.Exists(`SELECT projectid FROM project WHERE projectid = ?`, projectId) {
			return fmt.Errorf("project %s not found", projectId)
		}
		query := `UPDATE project SET workspace = ?, modifiedts = ? WHERE projectid = ?`
		tx.Exec(query, wsJson, time.Now().UnixMilli(), projectId)
		return nil
	})
}

// GetProject returns the project with projectId, or nil if not found.
func GetProject(ctx context.Context, projectId string) (*ProjectType, error) {
	var row projectRow
	var found bool
	txErr := WithTx(ctx, func(tx *TxWrap) error {
		query := `SELECT * FROM project WHERE projectid = ?`
		found = tx.Get(&row, query, projectId)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	if !found {
		return nil, nil
	}
	return row.toProject()
}

// GetAllProjects returns every saved project, most recently modified first.
func GetAllProjects(ctx context.Context) ([]*ProjectType, error) {
	var rows []projectRow
	txErr := WithTx(ctx, func(tx *TxWrap) error {
		query := `SELECT * FROM project ORDER BY modifiedts DESC`
		tx.Select(&rows, query)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	rtn := make([]*ProjectType, 0, len(rows))
	for idx := range rows {
		proj, err := rows[idx].toProject()
		if err != nil {
			log.Printf("[projstore] skipping unreadable project row: %v\n", err)
			continue
		}
		rtn = append(rtn, proj)
	}
	return rtn, nil
}

// DeleteProject removes the project and its autosave snapshot.
func DeleteProject(ctx context.Context, projectId string) error {
	return WithTx(ctx, func(tx *TxWrap) error {
		tx.Exec(`DELETE FROM project WHERE projectid = ?`, projectId)
		tx.Exec(`DELETE FROM autosave WHERE projectid = ?`, projectId)
		return nil
	})
}

// UpsertAutosave writes the crash-recovery snapshot for a project (one row
// per project, newest wins).
func UpsertAutosave(ctx context.Context, projectId string, workspace filetree.FileNode) error {
	wsJson, err := workspaceJson(workspace)
	if err != nil {
		return err
	}
	return WithTx(ctx, func(tx *TxWrap) error {
		query := `INSERT INTO autosave (projectid, workspace, savedts)
		          VALUES (?, ?, ?)
		          ON CONFLICT(projectid) DO UPDATE SET workspace = excluded.workspace, savedts = excluded.savedts`
		tx.Exec(query, projectId, wsJson, time.Now().UnixMilli())
		return nil
	})
}

// GetAutosave returns the autosave snapshot for projectId, or nil.
func GetAutosave(ctx context.Context, projectId string) (*AutosaveType, error) {
	var row struct {
		ProjectId string `db:"projectid"`
		Workspace string `db:"workspace"`
		SavedTs   int64  `db:"savedts"`
	}
	var found bool
	txErr := WithTx(ctx, func(tx *TxWrap) error {
		query := `SELECT * FROM autosave WHERE projectid = ?`
		found = tx.Get(&row, query, projectId)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	if !found {
		return nil, nil
	}
	rtn := &AutosaveType{ProjectId: row.ProjectId, SavedTs: row.SavedTs}
	err := json.Unmarshal([]byte(row.Workspace), &rtn.Workspace)
	if err != nil {
		return nil, fmt.Errorf("unmarshaling autosave for project %s: %w", projectId, err)
	}
	return rtn, nil
}
