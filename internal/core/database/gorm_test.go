package database

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		name       string
		in         string
		user, pass string
		want       string
	}{{
		name: "native dsn untouched",
		in:   "root:pw@tcp(127.0.0.1:3306)/booking?parseTime=true",
		want: "root:pw@tcp(127.0.0.1:3306)/booking?parseTime=true",
	}, {
		name: "url form",
		in:   "mysql://root:pw@db:3306/booking",
		want: "root:pw@tcp(db:3306)/booking?charset=utf8mb4&parseTime=true",
	}, {
		name: "jdbc with overrides",
		in:   "jdbc:mysql://db:3306/booking?useSSL=false&characterEncoding=utf8&useUnicode=true",
		user: "app",
		pass: "secret",
		want: "app:secret@tcp(db:3306)/booking?charset=utf8&parseTime=true&tls=false",
	}, {
		name: "credentials in query",
		in:   "mysql://db:3306/booking?user=u&password=p&serverTimezone=UTC",
		want: "u:p@tcp(db:3306)/booking?charset=utf8mb4&loc=UTC&parseTime=true",
	}}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			c.Assert(normalizeMySQLDSN(tt.in, tt.user, tt.pass), qt.Equals, tt.want)
		})
	}
}

func TestSQLiteDSN(t *testing.T) {
	c := qt.New(t)
	c.Assert(sqliteDSN(""), qt.Equals, "booking.db?_foreign_keys=on")
	c.Assert(sqliteDSN("file:x?mode=memory"), qt.Equals, "file:x?mode=memory&_foreign_keys=on")
	c.Assert(sqliteDSN("a.db?_fk=1"), qt.Equals, "a.db?_fk=1")
}

func TestMaskDSN(t *testing.T) {
	c := qt.New(t)
	c.Assert(maskDSN("root:pw@tcp(db:3306)/x"), qt.Equals, "root:****@tcp(db:3306)/x")
	c.Assert(maskDSN("root@tcp(db:3306)/x"), qt.Equals, "root@tcp(db:3306)/x")
}

func TestNewGormUnsupportedDriver(t *testing.T) {
	c := qt.New(t)
	_, err := NewGorm(Opts{Driver: "oracle"})
	c.Assert(errors.Is(err, ErrUnsupportedDriver), qt.IsTrue)
}

func TestNewGormSQLite(t *testing.T) {
	c := qt.New(t)
	db, err := NewGorm(Opts{Driver: "sqlite", DSN: "file:gormtest?mode=memory&cache=shared", MaxOpenConns: 1, MaxIdleConns: 1, LogLevel: "silent"})
	c.Assert(err, qt.IsNil)
	defer Close(db)

	var fk int
	c.Assert(db.Raw("PRAGMA foreign_keys").Scan(&fk).Error, qt.IsNil)
	c.Assert(fk, qt.Equals, 1)
}
