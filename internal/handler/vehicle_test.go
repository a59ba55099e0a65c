package handler

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powertune/garage/internal/config"
	"github.com/powertune/garage/internal/repository"
	"github.com/powertune/garage/internal/utils"
)

// recordingRenderer captures what a handler asked to render so tests can
// assert on the template name and data without parsing HTML.
type recordingRenderer struct {
	name string
	data echo.Map
}

func (r *recordingRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	r.name = name
	if m, ok := data.(echo.Map); ok {
		r.data = m
	}
	return nil
}

func newVehicleHandlerWithMock(t *testing.T) (*VehicleHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewVehicleHandler(config.Config{},
		repository.NewVehicleRepo(db),
		repository.NewCustomerRepo(db),
		repository.NewVisitRepo(db)), mock
}

func newAddVehicleContext(t *testing.T, form url.Values) (echo.Context, *httptest.ResponseRecorder, *recordingRenderer) {
	t.Helper()
	e := echo.New()
	r := &recordingRenderer{}
	e.Renderer = r
	req := httptest.NewRequest(http.MethodPost, "/vehicles/add", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec, r
}

func customerRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "phone", "email"}).
		AddRow(1, "Jane Smith", "0712000000", "jane@demo.com")
}

func TestVehicleAdd(t *testing.T) {
	t.Run("no customers redirects to the customer form", func(t *testing.T) {
		h, mock := newVehicleHandlerWithMock(t)
		mock.ExpectQuery("SELECT id, name, phone, email FROM customers").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone", "email"}))

		c, rec, _ := newAddVehicleContext(t, url.Values{
			"name": {"Toyota"}, "model": {"Hilux"}, "plate": {"KAA123A"},
		})
		require.NoError(t, h.Add(c))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/customers/add", rec.Header().Get("Location"))
		// No INSERT was expected: nothing may be written without a customer.
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate plate redisplays the form with a notice", func(t *testing.T) {
		h, mock := newVehicleHandlerWithMock(t)
		mock.ExpectQuery("SELECT id, name, phone, email FROM customers").
			WillReturnRows(customerRows())
		mock.ExpectExec("INSERT INTO vehicles").
			WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'KAA123A' for key 'plate'"))

		c, rec, r := newAddVehicleContext(t, url.Values{
			"name": {"Toyota"}, "model": {"Hilux"}, "plate": {"KAA123A"}, "customer_id": {"1"},
		})
		require.NoError(t, h.Add(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "add_vehicle.html", r.name)
		flash, ok := r.data["Flash"].(*utils.Flash)
		require.True(t, ok, "the notice must travel with the re-rendered form")
		assert.Equal(t, "danger", flash.Level)
		assert.Contains(t, flash.Message, "plate")
		// Only the failed INSERT ran, so the store is unchanged.
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing fields redisplay the form with a notice", func(t *testing.T) {
		h, mock := newVehicleHandlerWithMock(t)
		mock.ExpectQuery("SELECT id, name, phone, email FROM customers").
			WillReturnRows(customerRows())

		c, rec, r := newAddVehicleContext(t, url.Values{"name": {"Toyota"}})
		require.NoError(t, h.Add(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "add_vehicle.html", r.name)
		flash, ok := r.data["Flash"].(*utils.Flash)
		require.True(t, ok)
		assert.Equal(t, "danger", flash.Level)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
