package dataservice

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"sync"
)

type fakeDriver struct {
	execErr error
	pingErr error

	mu      sync.Mutex
	queries []string
}

func (d *fakeDriver) Open(string) (driver.Conn, error) {
	return &fakeConn{drv: d}, nil
}

func (d *fakeDriver) record(query string) {
	d.mu.Lock()
	d.queries = append(d.queries, query)
	d.mu.Unlock()
}

func (d *fakeDriver) recorded() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.queries...)
}

type fakeConn struct {
	drv *fakeDriver
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	c.drv.record(query)
	return &fakeStmt{drv: c.drv}, nil
}
func (c *fakeConn) Close() error              { return nil }
func (c *fakeConn) Begin() (driver.Tx, error) { return nil, errors.New("not impl") }

func (c *fakeConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	c.drv.record(query)
	return driver.RowsAffected(1), c.drv.execErr
}

func (c *fakeConn) Ping(context.Context) error { return c.drv.pingErr }

type fakeStmt struct {
	drv *fakeDriver
}

func (s *fakeStmt) Close() error  { return nil }
func (s *fakeStmt) NumInput() int { return -1 }
func (s *fakeStmt) Exec([]driver.Value) (driver.Result, error) {
	return driver.RowsAffected(1), s.drv.execErr
}
func (s *fakeStmt) Query([]driver.Value) (driver.Rows, error) { return &fakeRows{}, nil }

type fakeRows struct{}

func (r *fakeRows) Columns() []string         { return []string{"v"} }
func (r *fakeRows) Close() error              { return nil }
func (r *fakeRows) Next([]driver.Value) error { return io.EOF }

var (
	pgFakeDriver    = &fakeDriver{}
	mysqlFakeDriver = &fakeDriver{}
)

func init() {
	sql.Register("pgfake", pgFakeDriver)
	sql.Register("mysqlfake", mysqlFakeDriver)
	sql.Register("pgfail", &fakeDriver{execErr: errors.New("boom")})
	sql.Register("postgres", &fakeDriver{})
	sql.Register("pingfail", &fakeDriver{pingErr: errors.New("ping boom")})
}
