package database

import (
	"database/sql"
	"io"
	"testing"

	"hadith_master/internal/domain/hadith"
	"hadith_master/internal/domain/schedule"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var (
	_ hadith.Repository   = (*PostgresHadithRepository)(nil)
	_ schedule.Repository = (*PostgresScheduleRepository)(nil)
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	return registerMock(t, db, mock, err)
}

// newPingMock is newMock with sqlmock.MonitorPingsOption(true). sqlmock's
// option type is unexported, so it cannot be forwarded through a variadic.
func newPingMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	return registerMock(t, db, mock, err)
}

func registerMock(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock, err error) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
