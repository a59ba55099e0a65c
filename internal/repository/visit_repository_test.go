package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWithItems(t *testing.T) {
	t.Run("visit and items commit together", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO service_visits").WillReturnResult(sqlmock.NewResult(7, 1))
		mock.ExpectExec("INSERT INTO service_items").WillReturnResult(sqlmock.NewResult(1, 2))
		mock.ExpectCommit()

		visit := &ServiceVisit{VehicleID: 3, VisitCategory: "Diagnosis"}
		items := []*ServiceItem{
			{ItemName: "OBD Scan", Quantity: 1, Price: 2000, Labour: 500},
			{ItemName: "Engine Check", Quantity: 1, Labour: 1500},
		}
		require.NoError(t, NewVisitRepo(db).CreateWithItems(context.Background(), visit, items))
		assert.Equal(t, uint64(7), visit.ID)
		assert.Equal(t, uint64(7), items[0].VisitID)
		assert.Equal(t, uint64(7), items[1].VisitID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit failure is reported", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO service_visits").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO service_items").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

		err = NewVisitRepo(db).CreateWithItems(context.Background(),
			&ServiceVisit{VehicleID: 1},
			[]*ServiceItem{{ItemName: "Oil Filter", Quantity: 1}})
		require.Error(t, err, "a failed commit must reach the caller")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("item insert failure rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO service_visits").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO service_items").WillReturnError(errors.New("constraint violation"))
		mock.ExpectRollback()

		err = NewVisitRepo(db).CreateWithItems(context.Background(),
			&ServiceVisit{VehicleID: 1},
			[]*ServiceItem{{ItemName: "Oil Filter", Quantity: 1}})
		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
